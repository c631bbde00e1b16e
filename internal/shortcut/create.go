package shortcut

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Create places a shortcut called name in dir pointing at target. A name
// ending in .lnk produces a Shell Link file; anything else a symlink.
//
// An existing shortcut with that name is replaced. Any other file is left
// alone and an error is returned.
func Create(dir, name, target string) error {
	abs, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolve target %s: %w", target, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("shortcut target: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	path := filepath.Join(dir, name)
	if err := removeExisting(path); err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(name), ".lnk") {
		if err := os.WriteFile(path, marshalShellLink(abs), 0644); err != nil {
			return fmt.Errorf("write shortcut %s: %w", path, err)
		}
		return nil
	}
	if err := os.Symlink(abs, path); err != nil {
		return fmt.Errorf("create symlink %s -> %s: %w", path, abs, err)
	}
	return nil
}

// removeExisting removes an existing shortcut at path so it can be rewritten.
func removeExisting(path string) error {
	info, err := os.Lstat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	replaceable := info.Mode()&os.ModeSymlink != 0
	if !replaceable && info.Mode().IsRegular() && strings.EqualFold(filepath.Ext(path), ".lnk") {
		_, perr := readShellLink(path)
		replaceable = perr == nil
	}
	if !replaceable {
		return fmt.Errorf("%s already exists and is not a shortcut; remove it manually", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove existing shortcut %s: %w", path, err)
	}
	return nil
}
