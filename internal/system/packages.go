package system

import "os/exec"

// CheckPackages returns the commands from packages that are not on PATH.
func CheckPackages(packages []string) []string {
	var missing []string
	for _, pkg := range packages {
		if _, err := exec.LookPath(pkg); err != nil {
			missing = append(missing, pkg)
		}
	}
	return missing
}
