package installer

import (
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/HenriqueAssisDev/TCC-II/internal/catalog"
)

// History remembers the last version downloaded per program for the lifetime
// of the process. It is never written to disk.
type History struct {
	mu       sync.Mutex
	versions map[string]string
}

func NewHistory() *History {
	return &History{versions: make(map[string]string)}
}

func (h *History) Record(key, version string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.versions[key] = version
}

// Get returns "" when nothing was downloaded for key.
func (h *History) Get(key string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.versions[key]
}

var dottedVersion = regexp.MustCompile(`\d+(?:\.\d+)+`)

// InstalledVersion is the version a download of p represents: the last
// dotted number in the installer's file name (IRPF2025Win64v1.7.exe is 1.7),
// or the catalog version when the name carries none.
func InstalledVersion(p catalog.Program) string {
	name := stripExt(p.InstallerFileName)
	if m := dottedVersion.FindAllString(name, -1); len(m) > 0 {
		return m[len(m)-1]
	}
	return p.Version
}

func stripExt(name string) string {
	for _, ext := range []string{".tar.gz", ".tar.xz", ".tar.bz2"} {
		if strings.HasSuffix(strings.ToLower(name), ext) {
			return name[:len(name)-len(ext)]
		}
	}
	// "setup-1.7" has no extension, only a version.
	ext := filepath.Ext(name)
	if strings.Trim(ext, ".0123456789") == "" {
		return name
	}
	return strings.TrimSuffix(name, ext)
}
