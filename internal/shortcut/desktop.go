package shortcut

import (
	"bufio"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// readDesktopEntry returns the program named by the Exec key of the
// [Desktop Entry] group. Bare command names are looked up on PATH.
func readDesktopEntry(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	inEntry := false
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "[") {
			inEntry = line == "[Desktop Entry]"
			continue
		}
		if !inEntry || !strings.HasPrefix(line, "Exec=") {
			continue
		}
		prog := execProgram(strings.TrimPrefix(line, "Exec="))
		if prog == "" || filepath.IsAbs(prog) {
			return prog, nil
		}
		if found, err := exec.LookPath(prog); err == nil {
			return found, nil
		}
		return "", nil
	}
	return "", sc.Err()
}

// execProgram returns the first word of an Exec value, honouring quotes.
func execProgram(cmd string) string {
	cmd = strings.TrimSpace(cmd)
	if strings.HasPrefix(cmd, `"`) {
		if end := strings.Index(cmd[1:], `"`); end >= 0 {
			return cmd[1 : end+1]
		}
		return ""
	}
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
