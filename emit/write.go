package emit

import (
	"os"
	"path/filepath"

	"github.com/teranos/glbind/errors"
)

// WriteFile replaces path with content. The content goes to a temporary file
// in the same directory first, so readers never see a partial binding.
func WriteFile(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create temporary file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to write %s", tmp.Name())
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to set mode on %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "failed to move binding into %s", path)
	}
	return nil
}
