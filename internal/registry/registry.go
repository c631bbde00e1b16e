// Package registry is the boundary the user interfaces talk to. It owns the
// loaded catalog and derives every status on demand from the shortcut folder
// and the session's download history.
package registry

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/HenriqueAssisDev/TCC-II/internal/apperr"
	"github.com/HenriqueAssisDev/TCC-II/internal/catalog"
	"github.com/HenriqueAssisDev/TCC-II/internal/installer"
	"github.com/HenriqueAssisDev/TCC-II/internal/launcher"
	"github.com/HenriqueAssisDev/TCC-II/internal/shortcut"
	"github.com/HenriqueAssisDev/TCC-II/internal/status"
	"github.com/HenriqueAssisDev/TCC-II/internal/system"
)

// Registry is safe for use from the UI goroutine and a download goroutine at
// the same time.
type Registry struct {
	mu      sync.RWMutex
	catalog *catalog.Catalog

	catalogPath string
	resolver    shortcut.Resolver
	orch        *installer.Orchestrator
	disp        *launcher.Dispatcher
	logger      hclog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

func WithCatalogPath(path string) Option {
	return func(r *Registry) { r.catalogPath = path }
}

func WithResolver(res shortcut.Resolver) Option {
	return func(r *Registry) { r.resolver = res }
}

// WithShortcutDir keeps the host's case convention.
func WithShortcutDir(dir string) Option {
	return func(r *Registry) { r.resolver = shortcut.NewResolver(dir) }
}

func WithOrchestrator(o *installer.Orchestrator) Option {
	return func(r *Registry) { r.orch = o }
}

func WithDispatcher(d *launcher.Dispatcher) Option {
	return func(r *Registry) { r.disp = d }
}

func WithLogger(l hclog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// New returns a Registry with an empty catalog; call ReloadCatalog to fill
// it. Collaborators not given as options use the default folder layout in
// the working directory.
func New(opts ...Option) *Registry {
	r := &Registry{
		catalogPath: filepath.Join(system.DataDir, "versions.json"),
		resolver:    shortcut.NewResolver(system.ShortcutsDir),
		logger:      hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.orch == nil {
		r.orch = installer.New(installer.Options{InstallersDir: system.InstallersDir}, system.Shell{}, r.logger.Named("installer"))
	}
	if r.disp == nil {
		r.disp = launcher.New(r.resolver, system.Shell{}, r.logger.Named("launcher"))
	}
	return r
}

// ReloadCatalog reads the catalog file again. When the file cannot be used
// the previously loaded catalog stays in place and the error is returned.
func (r *Registry) ReloadCatalog() error {
	cat, err := catalog.Load(r.catalogPath)
	if err != nil {
		r.logger.Error("catalog load failed", "path", r.catalogPath, "error", err)
		return err
	}
	for _, rej := range cat.Rejected {
		r.logger.Warn("catalog entry skipped", "key", rej.Key, "error", rej.Err)
	}

	r.mu.Lock()
	r.catalog = cat
	r.mu.Unlock()

	r.logger.Info("catalog loaded", "path", r.catalogPath, "programs", cat.Len(), "rejected", len(cat.Rejected))
	return nil
}

// CatalogPath returns the file ReloadCatalog reads.
func (r *Registry) CatalogPath() string {
	return r.catalogPath
}

// ShortcutDir returns the folder shortcuts are resolved in.
func (r *Registry) ShortcutDir() string {
	return r.resolver.Dir
}

// Programs returns the loaded programs sorted by key.
func (r *Registry) Programs() []catalog.Program {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.catalog == nil {
		return nil
	}
	return append([]catalog.Program(nil), r.catalog.Programs...)
}

// Rejected returns the entries skipped by the last successful load.
func (r *Registry) Rejected() []*catalog.EntryError {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.catalog == nil {
		return nil
	}
	return append([]*catalog.EntryError(nil), r.catalog.Rejected...)
}

// Program looks a program up by key.
func (r *Registry) Program(key string) (catalog.Program, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.catalog.Get(key)
}

func (r *Registry) lookup(key string) (catalog.Program, error) {
	p, ok := r.Program(key)
	if !ok {
		return catalog.Program{}, fmt.Errorf("%w: %s", apperr.ErrUnknownProgram, key)
	}
	return p, nil
}

// ListStatuses reconciles every program against a single listing of the
// shortcut folder. It has no side effects.
func (r *Registry) ListStatuses() []status.ProgramStatus {
	programs := r.Programs()
	snap, err := r.resolver.Snapshot()
	if err != nil {
		r.logger.Error("shortcut folder unreadable", "dir", r.resolver.Dir, "error", err)
	}

	history := r.orch.History()
	out := make([]status.ProgramStatus, 0, len(programs))
	for _, p := range programs {
		var ev shortcut.Evidence
		if snap != nil {
			ev = snap.Resolve(p.ShortcutName)
		}
		installed := history.Get(p.Key)
		st := status.Reconcile(p, ev, installed)
		if ev.Exists && ev.Target == "" {
			r.logger.Debug("shortcut unresolvable", "program", p.Key, "shortcut", ev.Path, "reason", ev.Reason)
		}
		out = append(out, status.ProgramStatus{
			Program:          p,
			Status:           st,
			Evidence:         ev,
			InstalledVersion: installed,
		})
	}
	return out
}

// CheckUpdates returns the programs whose catalog version is newer than the
// one downloaded in this session.
func (r *Registry) CheckUpdates() []status.Update {
	return status.Updates(r.ListStatuses())
}

// FetchAndLaunch downloads the program's installer and hands it to the OS.
// The status is not advanced; the next ListStatuses reflects whatever the
// installer left in the shortcut folder.
func (r *Registry) FetchAndLaunch(ctx context.Context, key string, progress func(installer.ProgressMsg)) (installer.Result, error) {
	p, err := r.lookup(key)
	if err != nil {
		return installer.Result{}, err
	}
	return r.orch.FetchAndLaunch(ctx, p, progress)
}

// Install queues several programs and reports progress on the returned
// channel. Unknown keys are logged and skipped.
func (r *Registry) Install(ctx context.Context, keys ...string) <-chan installer.ProgressMsg {
	programs := make([]catalog.Program, 0, len(keys))
	for _, key := range keys {
		p, err := r.lookup(key)
		if err != nil {
			r.logger.Warn("install skipped", "error", err)
			continue
		}
		programs = append(programs, p)
	}
	return r.orch.Run(ctx, programs)
}

// Launch opens the installed program through its shortcut.
func (r *Registry) Launch(key string) error {
	p, err := r.lookup(key)
	if err != nil {
		return err
	}
	_, err = r.disp.Launch(p.ShortcutName)
	return err
}

// CreateShortcut points the program's shortcut at target.
func (r *Registry) CreateShortcut(key, target string) error {
	p, err := r.lookup(key)
	if err != nil {
		return err
	}
	if err := shortcut.Create(r.resolver.Dir, p.ShortcutName, target); err != nil {
		r.logger.Error("shortcut not created", "program", key, "target", target, "error", err)
		return err
	}
	r.logger.Info("shortcut created", "program", key, "shortcut", p.ShortcutName, "target", target)
	return nil
}
