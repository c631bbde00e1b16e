//go:build windows

package system

import (
	"path/filepath"

	"golang.org/x/sys/windows"
)

func openFile(path string) error {
	return shellExecute(path)
}

// executeFile also goes through ShellExecute so that .msi packages and
// installers that request elevation are handled by the shell.
func executeFile(path string) error {
	return shellExecute(path)
}

func shellExecute(path string) error {
	verb, err := windows.UTF16PtrFromString("open")
	if err != nil {
		return err
	}
	file, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	dir, err := windows.UTF16PtrFromString(filepath.Dir(path))
	if err != nil {
		return err
	}
	return windows.ShellExecute(0, verb, file, nil, dir, windows.SW_SHOWNORMAL)
}
