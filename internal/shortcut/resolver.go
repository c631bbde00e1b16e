// Package shortcut finds the shortcut file that marks a program as installed
// and reads where it points.
//
// Three kinds of shortcut are understood: symbolic links, Windows Shell Link
// (.lnk) files and freedesktop entries (.desktop). Anything else that happens
// to carry the expected name is reported as present but unresolvable.
package shortcut

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// DefaultFoldCase follows the host file system convention for name matching.
var DefaultFoldCase = runtime.GOOS == "windows" || runtime.GOOS == "darwin"

// Kind identifies how a shortcut encodes its target.
type Kind int

const (
	KindNone Kind = iota
	KindSymlink
	KindShellLink
	KindDesktopEntry
	KindUnknown
)

func (k Kind) String() string {
	return [...]string{"none", "symlink", "lnk", "desktop", "unknown"}[k]
}

// Evidence is what the shortcut directory says about one program.
type Evidence struct {
	Exists bool
	// Path is the shortcut file itself.
	Path string
	Kind Kind
	// Target is the existing file the shortcut points to, or "" when it
	// cannot be resolved.
	Target string
	// Reason explains an empty Target.
	Reason string
}

// Resolvable reports whether the shortcut exists and points at something.
func (e Evidence) Resolvable() bool {
	return e.Exists && e.Target != ""
}

// Resolver matches shortcut names inside a single directory.
type Resolver struct {
	Dir      string
	FoldCase bool
}

// NewResolver returns a Resolver for dir using the host's case convention.
func NewResolver(dir string) Resolver {
	return Resolver{Dir: dir, FoldCase: DefaultFoldCase}
}

// Resolve lists the directory and resolves name.
func (r Resolver) Resolve(name string) Evidence {
	snap, err := r.Snapshot()
	if err != nil {
		return Evidence{Reason: err.Error()}
	}
	return snap.Resolve(name)
}

// Snapshot lists the directory once so that a whole catalog can be resolved
// against the same view of it. A missing directory yields an empty snapshot.
func (r Resolver) Snapshot() (*Snapshot, error) {
	snap := &Snapshot{dir: r.Dir, fold: r.FoldCase}
	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return snap, nil
		}
		return nil, fmt.Errorf("list shortcuts: %w", err)
	}
	for _, e := range entries {
		// Sub-folders are never searched or matched.
		if e.IsDir() {
			continue
		}
		snap.names = append(snap.names, e.Name())
	}
	return snap, nil
}

// Snapshot is a non-recursive listing of a shortcut directory.
type Snapshot struct {
	dir   string
	fold  bool
	names []string
}

// Resolve looks name up in the snapshot and reads the shortcut's target.
func (s *Snapshot) Resolve(name string) Evidence {
	match, ok := s.lookup(name)
	if !ok {
		return Evidence{}
	}
	ev := Evidence{Exists: true, Path: filepath.Join(s.dir, match)}
	ev.Kind, ev.Target, ev.Reason = readTarget(s.dir, ev.Path)
	return ev
}

func (s *Snapshot) lookup(name string) (string, bool) {
	folded := ""
	for _, n := range s.names {
		if n == name {
			return n, true
		}
		if s.fold && folded == "" && strings.EqualFold(n, name) {
			folded = n
		}
	}
	return folded, folded != ""
}

// readTarget returns the shortcut kind and its existing target, or a reason
// when there is none.
func readTarget(dir, path string) (Kind, string, string) {
	info, err := os.Lstat(path)
	if err != nil {
		return KindNone, "", err.Error()
	}

	var (
		kind   Kind
		target string
	)
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		kind = KindSymlink
		target, err = os.Readlink(path)
		if err == nil && target != "" && !filepath.IsAbs(target) {
			target = filepath.Join(dir, target)
		}
	case strings.EqualFold(filepath.Ext(path), ".lnk"):
		kind = KindShellLink
		var link *shellLink
		link, err = readShellLink(path)
		if err == nil {
			target = link.target(dir)
		}
	case strings.EqualFold(filepath.Ext(path), ".desktop"):
		kind = KindDesktopEntry
		target, err = readDesktopEntry(path)
	default:
		return KindUnknown, "", "not a shortcut file"
	}

	if err != nil {
		return kind, "", fmt.Sprintf("unreadable shortcut: %v", err)
	}
	if target == "" {
		return kind, "", "shortcut has no target path"
	}
	if _, err := os.Stat(target); err != nil {
		return kind, "", fmt.Sprintf("target %s does not exist", target)
	}
	return kind, target, ""
}
