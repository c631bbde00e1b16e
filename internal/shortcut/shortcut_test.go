package shortcut_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HenriqueAssisDev/TCC-II/internal/shortcut"
)

// setup returns a shortcut dir and an existing program file outside it.
func setup(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "Atalhos")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	prog := filepath.Join(root, "Programas", "irpf.exe")
	if err := os.MkdirAll(filepath.Dir(prog), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(prog, []byte("binary"), 0755); err != nil {
		t.Fatal(err)
	}
	return dir, prog
}

func symlinkOrSkip(t *testing.T, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
}

func TestResolve_absent(t *testing.T) {
	dir, _ := setup(t)
	ev := shortcut.NewResolver(dir).Resolve("IRPF 2025.lnk")
	if ev.Exists || ev.Resolvable() {
		t.Errorf("expected no evidence in an empty folder, got %+v", ev)
	}
}

func TestResolve_missingDirectory(t *testing.T) {
	r := shortcut.NewResolver(filepath.Join(t.TempDir(), "nope"))
	snap, err := r.Snapshot()
	if err != nil {
		t.Fatalf("a missing folder must read as empty: %v", err)
	}
	if ev := snap.Resolve("x.lnk"); ev.Exists {
		t.Errorf("unexpected evidence: %+v", ev)
	}
}

func TestResolve_shellLinkLifecycle(t *testing.T) {
	dir, prog := setup(t)
	if err := shortcut.Create(dir, "IRPF 2025.lnk", prog); err != nil {
		t.Fatalf("create: %v", err)
	}

	r := shortcut.NewResolver(dir)
	ev := r.Resolve("IRPF 2025.lnk")
	if !ev.Resolvable() || ev.Kind != shortcut.KindShellLink {
		t.Fatalf("expected resolvable lnk, got %+v", ev)
	}
	if ev.Target != prog {
		t.Errorf("expected target %s, got %s", prog, ev.Target)
	}

	if err := os.Remove(prog); err != nil {
		t.Fatal(err)
	}
	ev = r.Resolve("IRPF 2025.lnk")
	if !ev.Exists || ev.Resolvable() {
		t.Errorf("expected present but broken shortcut, got %+v", ev)
	}
	if ev.Reason == "" {
		t.Error("expected a reason for the missing target")
	}
}

func TestResolve_nonASCIITarget(t *testing.T) {
	root := t.TempDir()
	prog := filepath.Join(root, "Declaração", "programa.exe")
	os.MkdirAll(filepath.Dir(prog), 0755)
	os.WriteFile(prog, []byte("binary"), 0755)
	dir := filepath.Join(root, "Atalhos")

	if err := shortcut.Create(dir, "Declaração.lnk", prog); err != nil {
		t.Fatalf("create: %v", err)
	}
	ev := shortcut.NewResolver(dir).Resolve("Declaração.lnk")
	if ev.Target != prog {
		t.Errorf("expected %s, got %+v", prog, ev)
	}
}

func TestResolve_symlink(t *testing.T) {
	dir, prog := setup(t)
	symlinkOrSkip(t, prog, filepath.Join(dir, "irpf"))

	ev := shortcut.NewResolver(dir).Resolve("irpf")
	if ev.Kind != shortcut.KindSymlink || ev.Target != prog {
		t.Errorf("unexpected evidence: %+v", ev)
	}
}

func TestResolve_relativeSymlink(t *testing.T) {
	dir, prog := setup(t)
	symlinkOrSkip(t, filepath.Join("..", "Programas", "irpf.exe"), filepath.Join(dir, "irpf"))

	ev := shortcut.NewResolver(dir).Resolve("irpf")
	if !ev.Resolvable() {
		t.Fatalf("expected relative symlink to resolve, got %+v", ev)
	}
	if filepath.Clean(ev.Target) != prog {
		t.Errorf("expected %s, got %s", prog, ev.Target)
	}
}

func TestResolve_brokenSymlink(t *testing.T) {
	dir, _ := setup(t)
	symlinkOrSkip(t, filepath.Join(dir, "gone.exe"), filepath.Join(dir, "irpf"))

	ev := shortcut.NewResolver(dir).Resolve("irpf")
	if !ev.Exists || ev.Resolvable() {
		t.Errorf("expected broken shortcut, got %+v", ev)
	}
}

func TestResolve_desktopEntry(t *testing.T) {
	dir, prog := setup(t)
	entry := "[Desktop Entry]\nName=IRPF\nExec=\"" + prog + "\" %U\n"
	os.WriteFile(filepath.Join(dir, "irpf.desktop"), []byte(entry), 0644)

	ev := shortcut.NewResolver(dir).Resolve("irpf.desktop")
	if ev.Kind != shortcut.KindDesktopEntry || ev.Target != prog {
		t.Errorf("unexpected evidence: %+v", ev)
	}
}

func TestResolve_corruptShellLink(t *testing.T) {
	dir, _ := setup(t)
	os.WriteFile(filepath.Join(dir, "x.lnk"), []byte("not a link"), 0644)

	ev := shortcut.NewResolver(dir).Resolve("x.lnk")
	if !ev.Exists || ev.Resolvable() {
		t.Errorf("expected unreadable shortcut, got %+v", ev)
	}
	if !strings.Contains(ev.Reason, "unreadable") {
		t.Errorf("unexpected reason: %q", ev.Reason)
	}
}

func TestResolve_shellLinkIDListPastEnd(t *testing.T) {
	dir, _ := setup(t)
	data := make([]byte, 0x4E)
	binary.LittleEndian.PutUint32(data, 0x4C)
	copy(data[4:20], []byte{0x01, 0x14, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0xC0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x46})
	// HasLinkTargetIDList | HasRelativePath, IDList size far beyond the file.
	binary.LittleEndian.PutUint32(data[20:], 0x01|0x08)
	binary.LittleEndian.PutUint16(data[0x4C:], 0xFFFF)
	os.WriteFile(filepath.Join(dir, "IRPF 2025.lnk"), data, 0644)

	ev := shortcut.NewResolver(dir).Resolve("IRPF 2025.lnk")
	if !ev.Exists || ev.Resolvable() {
		t.Errorf("expected unreadable shortcut, got %+v", ev)
	}
	if !strings.Contains(ev.Reason, "truncated") {
		t.Errorf("unexpected reason: %q", ev.Reason)
	}
}

func TestResolve_caseFolding(t *testing.T) {
	dir, prog := setup(t)
	if err := shortcut.Create(dir, "IRPF 2025.LNK", prog); err != nil {
		t.Fatal(err)
	}

	folding := shortcut.Resolver{Dir: dir, FoldCase: true}
	if ev := folding.Resolve("irpf 2025.lnk"); !ev.Resolvable() {
		t.Errorf("expected case-insensitive match, got %+v", ev)
	}
	exact := shortcut.Resolver{Dir: dir, FoldCase: false}
	if ev := exact.Resolve("irpf 2025.lnk"); ev.Exists {
		t.Errorf("expected no match without folding, got %+v", ev)
	}
}

func TestResolve_ignoresSubdirectories(t *testing.T) {
	dir, prog := setup(t)
	sub := filepath.Join(dir, "Antigos")
	if err := shortcut.Create(sub, "IRPF 2025.lnk", prog); err != nil {
		t.Fatal(err)
	}
	os.MkdirAll(filepath.Join(dir, "IRPF 2024.lnk"), 0755)

	r := shortcut.NewResolver(dir)
	if ev := r.Resolve("IRPF 2025.lnk"); ev.Exists {
		t.Errorf("shortcuts in sub-folders must not count, got %+v", ev)
	}
	if ev := r.Resolve("IRPF 2024.lnk"); ev.Exists {
		t.Errorf("a folder is not a shortcut, got %+v", ev)
	}
}

func TestCreate_replacesExistingShortcut(t *testing.T) {
	dir, prog := setup(t)
	other := filepath.Join(filepath.Dir(prog), "old.exe")
	os.WriteFile(other, []byte("old"), 0755)

	if err := shortcut.Create(dir, "IRPF.lnk", other); err != nil {
		t.Fatal(err)
	}
	if err := shortcut.Create(dir, "IRPF.lnk", prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev := shortcut.NewResolver(dir).Resolve("IRPF.lnk"); ev.Target != prog {
		t.Errorf("expected shortcut to %s, got %+v", prog, ev)
	}
}

func TestCreate_replacesExistingSymlink(t *testing.T) {
	dir, prog := setup(t)
	other := filepath.Join(filepath.Dir(prog), "old.exe")
	os.WriteFile(other, []byte("old"), 0755)
	symlinkOrSkip(t, other, filepath.Join(dir, "irpf"))

	if err := shortcut.Create(dir, "irpf", prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	target, _ := os.Readlink(filepath.Join(dir, "irpf"))
	if target != prog {
		t.Errorf("expected symlink to %s, got %s", prog, target)
	}
}

func TestCreate_errorsOnRegularFile(t *testing.T) {
	dir, prog := setup(t)
	os.WriteFile(filepath.Join(dir, "IRPF.lnk"), []byte("existing"), 0644)

	if err := shortcut.Create(dir, "IRPF.lnk", prog); err == nil {
		t.Fatal("expected error when a non-shortcut file has the name")
	}
}

func TestCreate_missingTarget(t *testing.T) {
	dir, _ := setup(t)
	if err := shortcut.Create(dir, "IRPF.lnk", filepath.Join(dir, "absent.exe")); err == nil {
		t.Fatal("expected error for a missing target")
	}
}
