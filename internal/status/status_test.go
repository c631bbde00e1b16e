package status_test

import (
	"testing"

	"github.com/HenriqueAssisDev/TCC-II/internal/catalog"
	"github.com/HenriqueAssisDev/TCC-II/internal/shortcut"
	"github.com/HenriqueAssisDev/TCC-II/internal/status"
)

var irpf = catalog.Program{
	Key:               "IRPF2025",
	Version:           "1.7",
	InstallerFileName: "IRPF2025Win64v1.7.exe",
	ShortcutName:      "IRPF 2025.lnk",
}

var (
	absent   = shortcut.Evidence{}
	resolved = shortcut.Evidence{Exists: true, Path: "Atalhos/IRPF 2025.lnk", Target: "/opt/irpf/irpf.exe"}
	broken   = shortcut.Evidence{Exists: true, Path: "Atalhos/IRPF 2025.lnk", Reason: "target missing"}
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name      string
		ev        shortcut.Evidence
		installed string
		want      status.Status
	}{
		{"no shortcut", absent, "", status.NotInstalled},
		{"no shortcut ignores history", absent, "1.0", status.NotInstalled},
		{"resolvable without history", resolved, "", status.Installed},
		{"resolvable same version", resolved, "1.7", status.Installed},
		{"resolvable older download", resolved, "1.6", status.InstalledStale},
		{"resolvable newer download", resolved, "1.8", status.Installed},
		{"broken beats stale", broken, "1.6", status.InstalledBrokenShortcut},
		{"broken without history", broken, "", status.InstalledBrokenShortcut},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := status.Reconcile(irpf, tt.ev, tt.installed); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestNewer(t *testing.T) {
	tests := []struct {
		available, installed string
		want                 bool
	}{
		{"1.10", "1.9", true},
		{"1.9", "1.10", false},
		{"2.0", "2.0.0", false},
		{"1.7", "", false},
		{"", "1.7", false},
		{"beta2", "beta1", true},
		{"beta", "beta", false},
	}
	for _, tt := range tests {
		if got := status.Newer(tt.available, tt.installed); got != tt.want {
			t.Errorf("Newer(%q, %q) = %v, want %v", tt.available, tt.installed, got, tt.want)
		}
	}
}

func TestUpdates(t *testing.T) {
	other := catalog.Program{Key: "CNPJ", Version: "3.0"}
	statuses := []status.ProgramStatus{
		{Program: other, Status: status.Installed},
		{Program: irpf, Status: status.InstalledStale, InstalledVersion: "1.6"},
		{Program: catalog.Program{Key: "SPED"}, Status: status.NotInstalled},
	}

	got := status.Updates(statuses)
	if len(got) != 1 {
		t.Fatalf("expected 1 update, got %d", len(got))
	}
	if got[0].Program.Key != "IRPF2025" || got[0].Available != "1.7" || got[0].Installed != "1.6" {
		t.Errorf("unexpected update: %+v", got[0])
	}
	if status.Updates(statuses[:1]) != nil {
		t.Error("expected no updates when nothing is stale")
	}
}
