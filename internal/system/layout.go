// Package system holds the operating system integration: the working
// directory layout, PATH probes and handing files to the OS to run or open.
package system

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	InstallersDir = "Instaladores"
	ShortcutsDir  = "Atalhos"
	LogsDir       = "logs"
	DataDir       = "data"
)

// Layout is the set of folders the registry works in.
type Layout struct {
	Base       string
	Installers string
	Shortcuts  string
	Logs       string
	Data       string
}

// DefaultLayout places every folder directly under base.
func DefaultLayout(base string) Layout {
	return Layout{
		Base:       base,
		Installers: filepath.Join(base, InstallersDir),
		Shortcuts:  filepath.Join(base, ShortcutsDir),
		Logs:       filepath.Join(base, LogsDir),
		Data:       filepath.Join(base, DataDir),
	}
}

// Dirs lists the folders EnsureDirs creates.
func (l Layout) Dirs() []string {
	return []string{l.Installers, l.Shortcuts, l.Logs, l.Data}
}

// EnsureDirs creates any missing folder of the layout. Existing folders and
// their contents are left untouched.
func (l Layout) EnsureDirs() error {
	for _, dir := range l.Dirs() {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// CheckWritable creates and removes a probe file in dir.
func CheckWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".write-test-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
