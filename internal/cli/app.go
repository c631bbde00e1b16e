package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/HenriqueAssisDev/TCC-II/internal/config"
	"github.com/HenriqueAssisDev/TCC-II/internal/installer"
	"github.com/HenriqueAssisDev/TCC-II/internal/launcher"
	"github.com/HenriqueAssisDev/TCC-II/internal/logging"
	"github.com/HenriqueAssisDev/TCC-II/internal/probe"
	"github.com/HenriqueAssisDev/TCC-II/internal/registry"
	"github.com/HenriqueAssisDev/TCC-II/internal/shortcut"
	"github.com/HenriqueAssisDev/TCC-II/internal/system"
)

const envConfigName = config.EnvFile

// osShell starts installers and opens shortcuts. Tests replace it.
var osShell interface {
	system.Opener
	system.Executor
} = system.Shell{}

// app is everything a command needs, built from flags and config.
type app struct {
	cfg    *config.Config
	layout system.Layout
	log    *logging.Sink
	reg    *registry.Registry
	probe  *probe.Client
	// loadErr is the catalog error from startup, if any.
	loadErr error
}

// setup loads the configuration, prepares the folders and the log file and
// loads the catalog. console controls whether -v copies logs to stderr.
func setup(console bool) (*app, error) {
	cfgFile := configPath
	if cfgFile == "" {
		cfgFile = os.Getenv(envConfigName)
	}
	if cfgFile == "" {
		base := baseDir
		if base == "" {
			base = "."
		}
		cfgFile = filepath.Join(base, config.DefaultFile)
	}

	cfg, err := config.LoadFile(cfgFile)
	if err != nil {
		return nil, err
	}
	if baseDir != "" {
		cfg.Paths.Base = baseDir
	}
	if catalogPath != "" {
		abs, err := filepath.Abs(catalogPath)
		if err != nil {
			return nil, fmt.Errorf("resolve catalog path: %w", err)
		}
		cfg.Paths.Catalog = abs
	}

	layout := cfg.Layout()
	if err := layout.EnsureDirs(); err != nil {
		return nil, err
	}

	level := logging.ResolveLevel(logLevel, cfg.Log.Level)
	if verbose && logLevel == "" {
		level = "debug"
	}
	sink, err := logging.Open(layout.Logs, level, console && verbose)
	if err != nil {
		return nil, err
	}
	absBase, _ := filepath.Abs(layout.Base)
	sink.Info("startup", "version", Version, "base", absBase, "logs", layout.Logs, "config", cfgFile)

	orch := installer.New(installer.Options{
		InstallersDir:  layout.Installers,
		Timeout:        cfg.Download.Timeout,
		ConnectTimeout: cfg.Download.ConnectTimeout,
		Attempts:       cfg.Download.Attempts,
		UserAgent:      cfg.Download.UserAgent,
	}, osShell, sink.Named("installer"))

	resolver := shortcut.NewResolver(layout.Shortcuts)
	reg := registry.New(
		registry.WithCatalogPath(cfg.CatalogPath()),
		registry.WithResolver(resolver),
		registry.WithOrchestrator(orch),
		registry.WithDispatcher(launcher.New(resolver, osShell, sink.Named("launcher"))),
		registry.WithLogger(sink.Named("registry")),
	)

	userAgent := cfg.Download.UserAgent
	if userAgent == "" {
		userAgent = installer.DefaultUserAgent
	}
	a := &app{
		cfg:    cfg,
		layout: layout,
		log:    sink,
		reg:    reg,
		probe:  probe.NewClient(installer.NewHTTPClient(cfg.Download.ConnectTimeout, cfg.Download.ConnectTimeout), userAgent),
	}
	a.loadErr = reg.ReloadCatalog()
	return a, nil
}

// mustLoad is setup for commands that cannot work without a catalog.
func mustLoad(console bool) (*app, error) {
	a, err := setup(console)
	if err != nil {
		return nil, err
	}
	if a.loadErr != nil {
		a.Close()
		return nil, fmt.Errorf("load catalog %s: %w", a.cfg.CatalogPath(), a.loadErr)
	}
	return a, nil
}

func (a *app) Close() {
	a.log.Close()
}
