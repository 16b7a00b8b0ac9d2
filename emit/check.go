package emit

import (
	"bufio"
	"bytes"
	"os"
	"strings"

	"github.com/teranos/glbind/errors"
)

// CheckResult holds the result of comparing a fresh generation against a
// file on disk.
type CheckResult struct {
	UpToDate bool
	// Missing is set when the file does not exist yet.
	Missing bool
	// FirstDifference is the 1-based line number of the first differing line,
	// ignoring metadata. Zero when up to date.
	FirstDifference int
}

// Compare reports whether the file at path matches generated. The
// "// Generator version:" line is ignored so rebuilding glbind alone does
// not make every binding stale.
func Compare(generated []byte, path string) (*CheckResult, error) {
	existing, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &CheckResult{Missing: true}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	want, err := filterMetadataLines(generated)
	if err != nil {
		return nil, err
	}
	have, err := filterMetadataLines(existing)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to scan %s", path)
	}

	for i := 0; i < len(want) || i < len(have); i++ {
		if i >= len(want) || i >= len(have) || want[i] != have[i] {
			return &CheckResult{FirstDifference: i + 1}, nil
		}
	}
	return &CheckResult{UpToDate: true}, nil
}

// filterMetadataLines splits content into lines, dropping metadata lines.
func filterMetadataLines(content []byte) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), versionPrefix) {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to split lines")
	}
	return lines, nil
}
