// Package apperr holds the error taxonomy shared by the registry, its
// collaborators and the user interfaces.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedCatalogEntry = errors.New("malformed catalog entry")
	ErrDuplicateCatalogKey   = errors.New("duplicate catalog key")
	ErrDuplicateShortcut     = errors.New("duplicate shortcut name")
	ErrDownloadFailed        = errors.New("download failed")
	ErrLaunchFailed          = errors.New("launch failed")
	ErrUnknownProgram        = errors.New("unknown program")
)

// LaunchError reports that the operating system could not be asked to run or
// open Path. It is returned both for downloaded installers and for shortcuts.
type LaunchError struct {
	Path   string
	Reason string
	// Installer is set when Path is a downloaded installer rather than a
	// shortcut target.
	Installer bool
	Err       error
}

func (e *LaunchError) Error() string {
	msg := fmt.Sprintf("launch %s: %s", e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LaunchError) Unwrap() error { return e.Err }

func (e *LaunchError) Is(target error) bool { return target == ErrLaunchFailed }

// Explain turns an error from the registry into guidance for the user.
func Explain(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDownloadFailed):
		return "The installer could not be downloaded. Check your internet connection and try again."
	case isInstallerLaunch(err):
		return "The installer was downloaded to Instaladores/ but could not be started. Run it from that folder, or check that your account may run programs."
	case errors.Is(err, ErrLaunchFailed):
		return "The program could not be started on this computer. Check that the shortcut in Atalhos/ points to an existing file, or run the file manually."
	case errors.Is(err, ErrDuplicateCatalogKey), errors.Is(err, ErrDuplicateShortcut):
		return "The program catalog is ambiguous and was not loaded. Fix the duplicated entry and reload."
	case errors.Is(err, ErrMalformedCatalogEntry):
		return "A catalog entry is incomplete and was skipped. See logs/app.log for the missing fields."
	case errors.Is(err, ErrUnknownProgram):
		return "That program is not in the catalog. Reload the catalog and try again."
	default:
		return "Unexpected error. See logs/app.log for details."
	}
}

func isInstallerLaunch(err error) bool {
	var le *LaunchError
	return errors.As(err, &le) && le.Installer
}
