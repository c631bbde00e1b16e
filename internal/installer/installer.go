// Package installer downloads vendor installers into the installers folder
// and hands them to the operating system.
package installer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/semaphore"

	"github.com/HenriqueAssisDev/TCC-II/internal/apperr"
	"github.com/HenriqueAssisDev/TCC-II/internal/catalog"
	"github.com/HenriqueAssisDev/TCC-II/internal/extractor"
	"github.com/HenriqueAssisDev/TCC-II/internal/system"
)

// State represents where a program is in the fetch-and-launch pipeline.
type State int

const (
	StatePending State = iota
	StateDownloading
	StateExtracting
	StateLaunching
	StateDone
	StateError
)

func (s State) String() string {
	return [...]string{
		"pending", "downloading", "extracting", "launching", "done", "error",
	}[s]
}

// ProgressMsg is sent for each state transition and while bytes arrive.
type ProgressMsg struct {
	Program string
	State   State
	Version string
	Written int64
	// Total is -1 when the server did not announce a length.
	Total int64
	Err   error
}

// Result describes a completed hand-off. It only means the OS was asked to
// run the installer; whether installation succeeds is unknown.
type Result struct {
	Program catalog.Program
	// Path is the downloaded file in the installers folder.
	Path string
	// Launched is the file handed to the OS. It differs from Path for
	// archive installers.
	Launched string
	Version  string
}

// Options configures an Orchestrator.
type Options struct {
	InstallersDir  string
	Timeout        time.Duration
	ConnectTimeout time.Duration
	Attempts       int
	// Backoff is the delay before the first retry. It doubles each time.
	Backoff   time.Duration
	UserAgent string
}

const (
	DefaultTimeout        = 30 * time.Minute
	DefaultConnectTimeout = 30 * time.Second
	DefaultAttempts       = 3
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Integrador/1.0"
)

// Orchestrator runs one download at a time.
type Orchestrator struct {
	dir       string
	client    *http.Client
	attempts  int
	backoff   time.Duration
	userAgent string
	exec      system.Executor
	history   *History
	sem       *semaphore.Weighted
	logger    hclog.Logger
}

// New returns an Orchestrator writing into opts.InstallersDir and starting
// installers with exec.
func New(opts Options, exec system.Executor, logger hclog.Logger) *Orchestrator {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultAttempts
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Orchestrator{
		dir:       opts.InstallersDir,
		client:    NewHTTPClient(opts.Timeout, opts.ConnectTimeout),
		attempts:  opts.Attempts,
		backoff:   opts.Backoff,
		userAgent: opts.UserAgent,
		exec:      exec,
		history:   NewHistory(),
		sem:       semaphore.NewWeighted(1),
		logger:    logger,
	}
}

// NewHTTPClient returns a client that gives up on unreachable hosts after
// connect and on the whole transfer after total.
func NewHTTPClient(total, connect time.Duration) *http.Client {
	return &http.Client{
		Timeout: total,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: connect}).DialContext,
			TLSHandshakeTimeout:   connect,
			ResponseHeaderTimeout: connect,
		},
	}
}

// History returns the session's record of downloaded versions.
func (o *Orchestrator) History() *History {
	return o.history
}

// Dir returns the installers folder.
func (o *Orchestrator) Dir() string {
	return o.dir
}

// FetchAndLaunch downloads p's installer and asks the OS to run it. Calls
// made while another download is running wait for it to finish.
//
// Download problems are reported as *DownloadError and leave no partial file
// behind. Problems starting the installer are reported as
// *apperr.LaunchError; the download is kept and recorded in that case.
func (o *Orchestrator) FetchAndLaunch(ctx context.Context, p catalog.Program, progress func(ProgressMsg)) (Result, error) {
	report := func(msg ProgressMsg) {
		msg.Program = p.Key
		if progress != nil {
			progress(msg)
		}
	}
	fail := func(err error) (Result, error) {
		report(ProgressMsg{State: StateError, Err: err})
		o.logger.Error("fetch and launch failed", "program", p.Key, "error", err)
		return Result{Program: p}, err
	}

	report(ProgressMsg{State: StatePending})
	if err := o.sem.Acquire(ctx, 1); err != nil {
		return fail(&DownloadError{URL: p.DownloadURL, Err: err})
	}
	defer o.sem.Release(1)

	version := InstalledVersion(p)
	o.logger.Info("download started", "program", p.Key, "url", p.DownloadURL)
	report(ProgressMsg{State: StateDownloading, Version: version, Total: -1})
	path, err := o.downloadWithRetry(ctx, p, func(written, total int64) {
		report(ProgressMsg{State: StateDownloading, Version: version, Written: written, Total: total})
	})
	if err != nil {
		return fail(err)
	}

	launch := path
	if extractor.IsArchive(p.InstallerFileName) {
		report(ProgressMsg{State: StateExtracting, Version: version})
		launch, err = o.unpack(p, path)
		if err != nil {
			return fail(err)
		}
	}

	o.history.Record(p.Key, version)
	o.logger.Info("download finished", "program", p.Key, "path", path, "version", version)

	res := Result{Program: p, Path: path, Launched: launch, Version: version}
	report(ProgressMsg{State: StateLaunching, Version: version})
	if err := o.exec.Execute(launch); err != nil {
		var le *apperr.LaunchError
		if errors.As(err, &le) {
			le.Installer = true
		} else {
			err = &apperr.LaunchError{Path: launch, Reason: "the system could not start the installer", Installer: true, Err: err}
		}
		report(ProgressMsg{State: StateError, Version: version, Err: err})
		o.logger.Error("installer launch failed", "program", p.Key, "path", launch, "error", err)
		return res, err
	}

	o.logger.Info("installer launched", "program", p.Key, "path", launch)
	report(ProgressMsg{State: StateDone, Version: version})
	return res, nil
}

// unpack replaces the program's folder with the archive's contents and
// returns the executable to launch.
func (o *Orchestrator) unpack(p catalog.Program, archive string) (string, error) {
	dst := filepath.Join(o.dir, p.Key)
	if err := os.RemoveAll(dst); err != nil {
		return "", &DownloadError{URL: p.DownloadURL, Err: fmt.Errorf("clear %s: %w", dst, err)}
	}
	if err := os.MkdirAll(dst, 0755); err != nil {
		return "", &DownloadError{URL: p.DownloadURL, Err: err}
	}
	if err := extractor.Extract(archive, dst); err != nil {
		return "", &DownloadError{URL: p.DownloadURL, Err: fmt.Errorf("extract: %w", err)}
	}
	exe := filepath.Join(dst, filepath.FromSlash(p.Executable))
	if _, err := os.Stat(exe); err != nil {
		return "", &apperr.LaunchError{Path: exe, Reason: "the archive does not contain the configured executable", Installer: true, Err: err}
	}
	return exe, nil
}

// Run processes programs one after another, sending progress to the returned
// channel. The channel is closed when the queue is done or ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context, programs []catalog.Program) <-chan ProgressMsg {
	ch := make(chan ProgressMsg, len(programs)*8)

	go func() {
		defer close(ch)
		send := func(msg ProgressMsg) {
			select {
			case ch <- msg:
			case <-ctx.Done():
			}
		}
		for _, p := range programs {
			if ctx.Err() != nil {
				return
			}
			o.FetchAndLaunch(ctx, p, send)
		}
	}()

	return ch
}
