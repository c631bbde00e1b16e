// Package status derives a program's install status from its catalog entry,
// the evidence in the shortcut folder and what this session has downloaded.
package status

import (
	goversion "github.com/hashicorp/go-version"

	"github.com/HenriqueAssisDev/TCC-II/internal/catalog"
	"github.com/HenriqueAssisDev/TCC-II/internal/shortcut"
)

// Status is the install state shown for a program.
type Status int

const (
	NotInstalled Status = iota
	Installed
	InstalledStale
	InstalledBrokenShortcut
)

func (s Status) String() string {
	return [...]string{
		"not installed", "installed", "update available", "broken shortcut",
	}[s]
}

// ProgramStatus pairs a program with its reconciled status.
type ProgramStatus struct {
	Program  catalog.Program
	Status   Status
	Evidence shortcut.Evidence
	// InstalledVersion is the version downloaded during this session, or ""
	// when nothing was downloaded.
	InstalledVersion string
}

// Reconcile applies the status rules in order. A shortcut that exists but
// does not resolve wins over any version comparison, and a program can only
// be stale when this session knows what was installed.
func Reconcile(p catalog.Program, ev shortcut.Evidence, installedVersion string) Status {
	switch {
	case !ev.Exists:
		return NotInstalled
	case ev.Target == "":
		return InstalledBrokenShortcut
	case installedVersion != "" && Newer(p.Version, installedVersion):
		return InstalledStale
	default:
		return Installed
	}
}

// Newer reports whether available supersedes installed. Versions that both
// parse are compared numerically; otherwise any difference counts.
func Newer(available, installed string) bool {
	if available == "" || installed == "" {
		return false
	}
	a, errA := goversion.NewVersion(available)
	i, errI := goversion.NewVersion(installed)
	if errA != nil || errI != nil {
		return available != installed
	}
	return a.GreaterThan(i)
}

// Update is a program whose catalog version is newer than the installed one.
type Update struct {
	Program   catalog.Program
	Available string
	Installed string
}

// Updates returns the stale entries of statuses, keeping their order.
func Updates(statuses []ProgramStatus) []Update {
	var out []Update
	for _, s := range statuses {
		if s.Status != InstalledStale {
			continue
		}
		out = append(out, Update{
			Program:   s.Program,
			Available: s.Program.Version,
			Installed: s.InstalledVersion,
		})
	}
	return out
}
