// Package fetch turns a registry reference into a local file.
//
// Accepted references:
//   - Local paths: gl.xml, ./xml/gl.xml, ~/registries/gl.xml
//   - HTTP(S) URLs, optionally with ?checksum=sha256:<hex>
//   - Anything else go-getter detects: git::, s3::, gcs::, github.com/...
//
// Remote references are downloaded into a temporary directory that is
// removed by Source.Cleanup.
package fetch

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter"
	"go.uber.org/zap"

	"github.com/teranos/glbind/errors"
	"github.com/teranos/glbind/internal/httpclient"
	"github.com/teranos/glbind/logger"
)

// KhronosRegistry is the upstream location of gl.xml.
const KhronosRegistry = "https://raw.githubusercontent.com/KhronosGroup/OpenGL-Registry/main/xml/gl.xml"

// Options configures Resolve.
type Options struct {
	// HTTP configures the client used for http and https sources.
	HTTP httpclient.Options
	// File names the registry inside a fetched directory, for sources such as
	// git:: that produce a tree. Defaults to the base name of the source, or
	// "gl.xml".
	File string
}

// Source is a resolved registry reference.
type Source struct {
	// Path is the local registry file.
	Path string
	// Input is the reference as given.
	Input string
	// Remote is set when Path is a temporary download.
	Remote bool

	cleanup func()
}

// Cleanup removes any temporary download. Safe to call multiple times.
func (s *Source) Cleanup() {
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
}

// Resolve makes input available as a local file.
func Resolve(ctx context.Context, input string, opts Options) (*Source, error) {
	log := logger.ComponentLogger("fetch")
	if input == "" {
		return nil, errors.WithHint(
			errors.Mark(errors.New("no registry given"), errors.ErrRegistryFetch),
			"pass --registry or set registry in glbind.toml")
	}

	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}

	if local, ok := localPath(input, pwd); ok {
		if _, err := os.Stat(local); err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "registry %s", input), errors.ErrRegistryFetch)
		}
		log.Debugw("Using local registry", logger.FieldPath, local)
		return &Source{Path: local, Input: input, cleanup: func() {}}, nil
	}

	detected, err := getter.Detect(input, pwd, getter.Detectors)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to detect source type"), errors.ErrRegistryFetch)
	}
	return download(ctx, input, detected, opts, log)
}

// localPath reports whether input names a file on this machine and returns
// its absolute form.
func localPath(input, pwd string) (string, bool) {
	if strings.HasPrefix(input, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, input[2:]), true
		}
	}
	if !IsRemote(input) {
		if u, err := url.Parse(input); err == nil && u.Scheme == "file" {
			return u.Path, true
		}
		if filepath.IsAbs(input) {
			return input, true
		}
		return filepath.Join(pwd, input), true
	}
	return "", false
}

func download(ctx context.Context, input, detected string, opts Options, log *zap.SugaredLogger) (*Source, error) {
	tempDir, err := os.MkdirTemp("", "glbind-registry-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp directory")
	}
	cleanup := func() {
		log.Debugw("Removing downloaded registry", logger.FieldPath, tempDir)
		os.RemoveAll(tempDir)
	}

	name := registryName(detected, opts.File)
	dst := filepath.Join(tempDir, name)

	httpGetter := &getter.HttpGetter{
		Client: httpclient.New(opts.HTTP).Client,
		Netrc:  true,
	}
	getters := make(map[string]getter.Getter, len(getter.Getters))
	for scheme, g := range getter.Getters {
		getters[scheme] = g
	}
	getters["http"] = httpGetter
	getters["https"] = httpGetter

	client := &getter.Client{
		Ctx:     ctx,
		Src:     detected,
		Dst:     dst,
		Mode:    getter.ClientModeAny,
		Getters: getters,
	}

	log.Infow("Fetching registry", logger.FieldRegistry, input, "detected", detected)
	if err := client.Get(); err != nil {
		cleanup()
		return nil, errors.Mark(errors.Wrapf(err, "failed to fetch %s", input), errors.ErrRegistryFetch)
	}

	// ClientModeAny leaves a directory when the source was a tree or archive
	file := dst
	if fi, err := os.Stat(dst); err == nil && fi.IsDir() {
		file = filepath.Join(dst, name)
		if opts.File != "" {
			file = filepath.Join(dst, opts.File)
		}
	}
	if fi, err := os.Stat(file); err != nil || fi.IsDir() {
		cleanup()
		err := errors.Mark(errors.Newf("fetched %s but found no registry file %s", input, filepath.Base(file)), errors.ErrRegistryFetch)
		return nil, errors.WithHint(err, "name the file inside the source with --registry-file")
	}

	log.Debugw("Fetch completed", logger.FieldPath, file)
	return &Source{Path: file, Input: input, Remote: true, cleanup: cleanup}, nil
}

// registryName picks the local file name for a download.
func registryName(detected, file string) string {
	if file != "" {
		return filepath.Base(file)
	}
	u, err := url.Parse(strings.TrimPrefix(detected, "git::"))
	if err == nil {
		if base := path.Base(u.Path); strings.HasSuffix(base, ".xml") {
			return base
		}
	}
	return "gl.xml"
}

// IsRemote reports whether input must be downloaded.
func IsRemote(input string) bool {
	if strings.Contains(input, "::") {
		return true
	}
	u, err := url.Parse(input)
	if err == nil && u.Scheme != "" && u.Scheme != "file" && len(u.Scheme) > 1 {
		return true
	}
	// github.com/KhronosGroup/OpenGL-Registry style shorthands
	for _, host := range []string{"github.com/", "gitlab.com/", "bitbucket.org/"} {
		if strings.HasPrefix(input, host) {
			return true
		}
	}
	return false
}
