package doctor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/HenriqueAssisDev/TCC-II/internal/doctor"
	"github.com/HenriqueAssisDev/TCC-II/internal/system"
)

type fakeProber struct{ err error }

func (f fakeProber) Reachable(context.Context, string) error { return f.err }

func layout(t *testing.T) system.Layout {
	t.Helper()
	l := system.DefaultLayout(t.TempDir())
	if err := l.EnsureDirs(); err != nil {
		t.Fatal(err)
	}
	return l
}

func find(t *testing.T, r doctor.Report, name string) doctor.Check {
	t.Helper()
	for _, c := range r.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no %q check in report", name)
	return doctor.Check{}
}

func TestRun_healthy(t *testing.T) {
	r := doctor.Run(context.Background(), doctor.Options{
		Layout:   layout(t),
		ProbeURL: "https://example.invalid",
		Prober:   fakeProber{},
	})

	if !r.OK() {
		t.Errorf("expected no failures, got %+v", r.Checks)
	}
	if len(r.Checks) != 7 {
		t.Errorf("expected 7 checks, got %d", len(r.Checks))
	}
	if c := find(t, r, "java"); c.Level != doctor.Skip {
		t.Errorf("java must be skipped when not required, got %+v", c)
	}
	if c := find(t, r, "folders"); c.Level != doctor.Pass {
		t.Errorf("expected writable folders, got %+v", c)
	}
}

func TestRun_offline(t *testing.T) {
	r := doctor.Run(context.Background(), doctor.Options{
		Layout:   layout(t),
		ProbeURL: "https://example.invalid",
		Prober:   fakeProber{err: errors.New("dial tcp: no route to host")},
	})
	if r.OK() {
		t.Fatal("expected a failure when offline")
	}
	if c := find(t, r, "internet"); c.Level != doctor.Fail {
		t.Errorf("expected internet check to fail, got %+v", c)
	}
}

func TestRun_notEnoughDisk(t *testing.T) {
	r := doctor.Run(context.Background(), doctor.Options{
		Layout:    layout(t),
		MinFreeMB: 1 << 40,
	})
	if c := find(t, r, "disk space"); c.Level != doctor.Fail {
		t.Errorf("expected disk check to fail, got %+v", c)
	}
	if c := find(t, r, "internet"); c.Level != doctor.Skip {
		t.Errorf("expected internet check to be skipped without a probe, got %+v", c)
	}
}

func TestReport_Count(t *testing.T) {
	r := doctor.Report{Checks: []doctor.Check{
		{Level: doctor.Pass}, {Level: doctor.Warn}, {Level: doctor.Warn}, {Level: doctor.Fail},
	}}
	if r.Count(doctor.Warn) != 2 || r.Count(doctor.Fail) != 1 || r.OK() {
		t.Errorf("unexpected counts for %+v", r)
	}
}
