package catalog

import (
	"fmt"

	"github.com/HenriqueAssisDev/TCC-II/internal/apperr"
)

// EntryError describes a catalog entry that was skipped during load.
type EntryError struct {
	Key string
	Err error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("catalog entry %q: %v", e.Key, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

func (e *EntryError) Is(target error) bool { return target == apperr.ErrMalformedCatalogEntry }

// DuplicateKeyError rejects a whole catalog whose program keys are not unique.
type DuplicateKeyError struct {
	Key    string
	Detail string
}

func (e *DuplicateKeyError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("duplicate catalog key: %s", e.Detail)
	}
	return fmt.Sprintf("duplicate catalog key %q", e.Key)
}

func (e *DuplicateKeyError) Is(target error) bool { return target == apperr.ErrDuplicateCatalogKey }

// DuplicateShortcutError rejects a whole catalog in which two programs claim
// the same shortcut file.
type DuplicateShortcutError struct {
	Shortcut string
	Keys     [2]string
}

func (e *DuplicateShortcutError) Error() string {
	return fmt.Sprintf("shortcut %q is claimed by both %q and %q", e.Shortcut, e.Keys[0], e.Keys[1])
}

func (e *DuplicateShortcutError) Is(target error) bool { return target == apperr.ErrDuplicateShortcut }
