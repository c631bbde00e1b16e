//go:build !windows && !darwin

package system

import (
	"os"
	"os/exec"
	"path/filepath"
)

func openFile(path string) error {
	if isExecutable(path) {
		return executeFile(path)
	}
	return detach(exec.Command("xdg-open", path))
}

func executeFile(path string) error {
	if !isExecutable(path) {
		return detach(exec.Command("xdg-open", path))
	}
	cmd := exec.Command(path)
	cmd.Dir = filepath.Dir(path)
	return detach(cmd)
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Mode()&0111 != 0
}
