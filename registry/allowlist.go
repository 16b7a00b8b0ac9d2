package registry

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/teranos/glbind/errors"
)

// Names the generated constructor uses to detect extensions. They are added
// to an allow-list whenever extensions are requested.
const (
	ProbeGetString     = "glGetString"
	ProbeGetStringi    = "glGetStringi"
	ProbeGetIntegerv   = "glGetIntegerv"
	ProbeExtensions    = "GL_EXTENSIONS"
	ProbeNumExtensions = "GL_NUM_EXTENSIONS"
)

// ProbeNames lists every probe command and constant.
var ProbeNames = []string{
	ProbeGetString,
	ProbeGetStringi,
	ProbeGetIntegerv,
	ProbeExtensions,
	ProbeNumExtensions,
}

// AllowList restricts output to named constants and commands. A nil
// *AllowList allows everything.
type AllowList struct {
	names map[string]bool
}

// ParseAllowList reads one identifier per line. CRLF line endings and blank
// lines are tolerated.
func ParseAllowList(r io.Reader) (*AllowList, error) {
	a := &AllowList{names: make(map[string]bool)}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimSuffix(scanner.Text(), "\r"))
		if line != "" {
			a.names[line] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read allow-list")
	}
	return a, nil
}

// LoadAllowList reads the allow-list at path.
func LoadAllowList(path string) (*AllowList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open allow-list %s", path)
	}
	defer f.Close()
	return ParseAllowList(f)
}

// Allows reports whether name may be emitted.
func (a *AllowList) Allows(name string) bool {
	return a == nil || a.names[name]
}

// Partial reports whether output is restricted at all.
func (a *AllowList) Partial() bool {
	return a != nil
}

// Add allows names in addition to those already listed.
func (a *AllowList) Add(names ...string) {
	if a == nil {
		return
	}
	for _, n := range names {
		a.names[n] = true
	}
}

// Len returns the number of listed identifiers.
func (a *AllowList) Len() int {
	if a == nil {
		return 0
	}
	return len(a.names)
}
