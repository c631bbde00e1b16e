package extractor

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

type kind int

const (
	kindNone kind = iota
	kindTarGz
	kindTarXz
	kindTarBz2
	kindZip
)

func kindOf(name string) kind {
	name = strings.ToLower(name)
	switch {
	case strings.HasSuffix(name, ".tar.gz") || strings.HasSuffix(name, ".tgz"):
		return kindTarGz
	case strings.HasSuffix(name, ".tar.xz") || strings.HasSuffix(name, ".txz"):
		return kindTarXz
	case strings.HasSuffix(name, ".tar.bz2"):
		return kindTarBz2
	case strings.HasSuffix(name, ".zip"):
		return kindZip
	}
	return kindNone
}

// IsArchive reports whether a downloaded installer named name must be
// unpacked before anything inside it can be launched.
func IsArchive(name string) bool {
	return kindOf(name) != kindNone
}

// Extract unpacks srcPath into dstDir, choosing the format from the file
// name. Entries are confined to dstDir.
func Extract(srcPath, dstDir string) error {
	switch kindOf(filepath.Base(srcPath)) {
	case kindTarGz:
		return extractTar(srcPath, dstDir, "gz")
	case kindTarXz:
		return extractTar(srcPath, dstDir, "xz")
	case kindTarBz2:
		return extractTar(srcPath, dstDir, "bz2")
	case kindZip:
		return extractZip(srcPath, dstDir)
	default:
		return fmt.Errorf("unsupported archive format: %s", filepath.Base(srcPath))
	}
}

func extractTar(srcPath, dstDir, compression string) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader
	switch compression {
	case "gz":
		gr, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("open gzip: %w", err)
		}
		defer gr.Close()
		r = gr
	case "bz2":
		r = bzip2.NewReader(f)
	case "xz":
		xr, err := xz.NewReader(f)
		if err != nil {
			return fmt.Errorf("open xz: %w", err)
		}
		r = xr
	}

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read tar: %w", err)
		}
		target := confined(dstDir, hdr.Name)
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, hdr.FileInfo().Mode()); err != nil {
				return err
			}
		}
	}
	return nil
}

func extractZip(srcPath, dstDir string) error {
	r, err := zip.OpenReader(srcPath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		target := confined(dstDir, f.Name)
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		mode := f.Mode()
		// Zips built on Windows carry no execute bits.
		if mode&0111 == 0 {
			mode |= 0755
		}
		err = writeFile(target, rc, mode)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// confined joins name under dir after stripping any leading "../" segments.
func confined(dir, name string) string {
	return filepath.Join(dir, filepath.Clean("/" + name)[1:])
}

func writeFile(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
