//go:build darwin

package system

import (
	"os"
	"os/exec"
	"path/filepath"
)

func openFile(path string) error {
	return detach(exec.Command("open", path))
}

func executeFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	// Bundles, disk images and packages are opened by Finder.
	if info.IsDir() || info.Mode()&0111 == 0 {
		return openFile(path)
	}
	cmd := exec.Command(path)
	cmd.Dir = filepath.Dir(path)
	return detach(cmd)
}
