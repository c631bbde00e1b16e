package shortcut

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"testing"
)

// ansiLink builds a non-Unicode link carrying only a RelativePath string.
func ansiLink(rel string) []byte {
	var buf bytes.Buffer
	header := make([]byte, lnkHeaderSize)
	binary.LittleEndian.PutUint32(header, lnkHeaderSize)
	copy(header[4:20], linkCLSID)
	binary.LittleEndian.PutUint32(header[20:], hasRelativePath)
	buf.Write(header)
	binary.Write(&buf, binary.LittleEndian, uint16(len(rel)))
	buf.WriteString(rel)
	buf.Write([]byte{0, 0, 0, 0})
	return buf.Bytes()
}

func TestParseShellLink_relativePath(t *testing.T) {
	l, err := parseShellLink(ansiLink(`..\Programas\irpf.exe`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := l.target(filepath.Join("base", "Atalhos"))
	want := filepath.Join("base", "Programas", "irpf.exe")
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestParseShellLink_roundTrip(t *testing.T) {
	target := filepath.Join(string(filepath.Separator)+"opt", "Receita", "IRPF 2025", "irpf.exe")
	l, err := parseShellLink(marshalShellLink(target))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.localBasePath != target {
		t.Errorf("expected %s, got %s", target, l.localBasePath)
	}
	if l.workingDir != filepath.Dir(target) {
		t.Errorf("unexpected working dir %s", l.workingDir)
	}
}

func TestParseShellLink_truncated(t *testing.T) {
	data := marshalShellLink("/opt/app")
	if _, err := parseShellLink(data[:lnkHeaderSize+8]); err == nil {
		t.Fatal("expected error for truncated link")
	}
	if _, err := parseShellLink([]byte("MZ")); err != errNotShellLink {
		t.Fatalf("expected errNotShellLink, got %v", err)
	}
}

func TestParseShellLink_oversizedIDList(t *testing.T) {
	for _, flags := range []uint32{
		hasLinkTargetIDList | hasRelativePath,
		hasLinkTargetIDList | hasExpString,
	} {
		data := make([]byte, lnkHeaderSize+2)
		binary.LittleEndian.PutUint32(data, lnkHeaderSize)
		copy(data[4:20], linkCLSID)
		binary.LittleEndian.PutUint32(data[20:], flags)
		binary.LittleEndian.PutUint16(data[lnkHeaderSize:], 0xFFFF)

		if _, err := parseShellLink(data); err != errTruncated {
			t.Errorf("flags %#x: expected errTruncated, got %v", flags, err)
		}
	}
}

func TestExpandWindowsEnv(t *testing.T) {
	t.Setenv("PROGRAMFILES_TEST", `C:\Program Files`)
	got := expandWindowsEnv(`%PROGRAMFILES_TEST%\IRPF\irpf.exe`)
	if got != `C:\Program Files\IRPF\irpf.exe` {
		t.Errorf("unexpected expansion: %s", got)
	}
	if got := expandWindowsEnv(`%UNSET_VAR_XYZ%\a`); got != `%UNSET_VAR_XYZ%\a` {
		t.Errorf("unset variables must be kept, got %s", got)
	}
}
