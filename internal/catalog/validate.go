package catalog

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/HenriqueAssisDev/TCC-II/internal/extractor"
)

// Validate checks the fields the registry cannot work without.
func (e *entry) Validate() error {
	return validation.ValidateStruct(e,
		validation.Field(&e.DownloadURL, validation.Required, validation.By(httpURL)),
		validation.Field(&e.InstallerFileName, validation.Required, validation.By(plainFileName)),
		validation.Field(&e.ShortcutName, validation.Required, validation.By(plainFileName)),
		validation.Field(&e.Executable,
			validation.When(extractor.IsArchive(e.InstallerFileName), validation.Required),
			validation.By(relativePath),
		),
	)
}

func httpURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an http or https URL")
	}
	return nil
}

// plainFileName rejects names that would escape the directory they are
// joined to.
func plainFileName(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if strings.ContainsAny(s, `/\`) || s == "." || s == ".." {
		return errors.New("must be a file name without directories")
	}
	return nil
}

func relativePath(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	clean := filepath.Clean(filepath.FromSlash(s))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return errors.New("must be a path inside the unpacked installer")
	}
	return nil
}
