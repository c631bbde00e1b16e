package extractor_test

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/ulikunitz/xz"

	"github.com/HenriqueAssisDev/TCC-II/internal/extractor"
)

func writeTemp(t *testing.T, pattern string, data []byte) string {
	t.Helper()
	src, err := os.CreateTemp(t.TempDir(), pattern)
	if err != nil {
		t.Fatalf("create temp: %v", err)
	}
	src.Write(data)
	src.Close()
	return src.Name()
}

func TestExtract_tarGz(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	content := []byte("#!/bin/sh\necho setup")
	tw.WriteHeader(&tar.Header{Name: "bin/setup", Mode: 0755, Size: int64(len(content)), Typeflag: tar.TypeReg})
	tw.Write(content)
	tw.Close()
	gz.Close()

	src := writeTemp(t, "installer-*.tar.gz", buf.Bytes())
	dst := t.TempDir()

	if err := extractor.Extract(src, dst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "bin", "setup")); err != nil {
		t.Errorf("bin/setup not found in dst: %v", err)
	}
}

func TestExtract_zip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, _ := zw.Create("setup.exe")
	f.Write([]byte("MZ"))
	zw.Close()

	src := writeTemp(t, "installer-*.zip", buf.Bytes())
	dst := t.TempDir()

	if err := extractor.Extract(src, dst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info, err := os.Stat(filepath.Join(dst, "setup.exe"))
	if err != nil {
		t.Fatalf("setup.exe not found in dst: %v", err)
	}
	if info.Mode()&0100 == 0 {
		t.Error("expected extracted file without zip permissions to be executable")
	}
}

func TestExtract_txz(t *testing.T) {
	var buf bytes.Buffer
	xw, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("create xz writer: %v", err)
	}
	tw := tar.NewWriter(xw)
	content := []byte("payload")
	tw.WriteHeader(&tar.Header{Name: "setup", Mode: 0755, Size: int64(len(content)), Typeflag: tar.TypeReg})
	tw.Write(content)
	tw.Close()
	xw.Close()

	src := writeTemp(t, "installer-*.txz", buf.Bytes())
	dst := t.TempDir()

	if err := extractor.Extract(src, dst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "setup")); err != nil {
		t.Errorf("setup not found in dst: %v", err)
	}
}

func TestExtract_pathTraversalConfined(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, _ := zw.Create("../../escape.txt")
	f.Write([]byte("x"))
	zw.Close()

	src := writeTemp(t, "installer-*.zip", buf.Bytes())
	dst := t.TempDir()

	if err := extractor.Extract(src, dst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "escape.txt")); err != nil {
		t.Errorf("expected entry confined to dst: %v", err)
	}
}

func TestExtract_unsupported(t *testing.T) {
	src := writeTemp(t, "setup-*.exe", []byte("MZ"))
	if err := extractor.Extract(src, t.TempDir()); err == nil {
		t.Fatal("expected error for a plain executable")
	}
}

func TestIsArchive(t *testing.T) {
	cases := map[string]bool{
		"IRPF2025Win64v1.7.exe": false,
		"ReceitanetBX.ZIP":      true,
		"sped-ecd.tar.gz":       true,
		"tool.tgz":              true,
		"tool.tar.xz":           true,
		"tool.tar.bz2":          true,
		"setup.msi":             false,
	}
	for name, want := range cases {
		if got := extractor.IsArchive(name); got != want {
			t.Errorf("IsArchive(%q) = %v, want %v", name, got, want)
		}
	}
}
