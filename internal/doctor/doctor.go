// Package doctor checks that the machine can download and run the catalog's
// installers.
package doctor

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/sync/errgroup"

	"github.com/HenriqueAssisDev/TCC-II/internal/system"
)

// Level grades a single check.
type Level int

const (
	Pass Level = iota
	Warn
	Fail
	Skip
)

func (l Level) String() string {
	return [...]string{"ok", "warning", "failed", "skipped"}[l]
}

// Check is the outcome of one probe.
type Check struct {
	Name   string
	Level  Level
	Detail string
}

// Report lists the checks in a fixed order.
type Report struct {
	Checks []Check
}

// OK reports whether no check failed.
func (r Report) OK() bool {
	for _, c := range r.Checks {
		if c.Level == Fail {
			return false
		}
	}
	return true
}

// Count returns how many checks ended at level.
func (r Report) Count(level Level) int {
	n := 0
	for _, c := range r.Checks {
		if c.Level == level {
			n++
		}
	}
	return n
}

// Prober answers whether a URL can be reached.
type Prober interface {
	Reachable(ctx context.Context, url string) error
}

// Options configures Run.
type Options struct {
	Layout    system.Layout
	MinFreeMB uint64
	ProbeURL  string
	Java      bool
	Prober    Prober
}

// Run executes every check concurrently and returns the report.
func Run(ctx context.Context, opts Options) Report {
	checks := []func(context.Context, Options) Check{
		checkOS,
		checkAdmin,
		checkJava,
		checkDisk,
		checkInternet,
		checkFolders,
		checkRunningInstallers,
	}

	results := make([]Check, len(checks))
	g, gCtx := errgroup.WithContext(ctx)
	for i, check := range checks {
		g.Go(func() error {
			results[i] = check(gCtx, opts)
			return nil
		})
	}
	g.Wait()
	return Report{Checks: results}
}

func checkOS(ctx context.Context, _ Options) Check {
	c := Check{Name: "operating system"}
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		c.Level, c.Detail = Warn, err.Error()
		return c
	}
	c.Detail = strings.TrimSpace(fmt.Sprintf("%s %s %s", info.Platform, info.PlatformVersion, info.KernelArch))
	if runtime.GOOS != "windows" {
		c.Level = Warn
		c.Detail += " (most catalog installers are built for Windows)"
	}
	return c
}

func checkJava(_ context.Context, opts Options) Check {
	c := Check{Name: "java"}
	if !opts.Java {
		c.Level, c.Detail = Skip, "not required"
		return c
	}
	if missing := system.CheckPackages([]string{"java"}); len(missing) > 0 {
		c.Level, c.Detail = Warn, "java not found on PATH; some programs bundle their own runtime"
		return c
	}
	c.Detail = "found on PATH"
	return c
}

func checkDisk(ctx context.Context, opts Options) Check {
	c := Check{Name: "disk space"}
	dir := opts.Layout.Installers
	if _, err := os.Stat(dir); err != nil {
		dir = opts.Layout.Base
	}
	usage, err := disk.UsageWithContext(ctx, dir)
	if err != nil {
		c.Level, c.Detail = Warn, err.Error()
		return c
	}
	c.Detail = fmt.Sprintf("%s free on %s", humanize.Bytes(usage.Free), usage.Path)
	if need := opts.MinFreeMB * 1024 * 1024; usage.Free < need {
		c.Level = Fail
		c.Detail += fmt.Sprintf(", need at least %s", humanize.Bytes(need))
	}
	return c
}

func checkInternet(ctx context.Context, opts Options) Check {
	c := Check{Name: "internet"}
	if opts.ProbeURL == "" || opts.Prober == nil {
		c.Level, c.Detail = Skip, "no probe URL configured"
		return c
	}
	if err := opts.Prober.Reachable(ctx, opts.ProbeURL); err != nil {
		c.Level, c.Detail = Fail, err.Error()
		return c
	}
	c.Detail = opts.ProbeURL + " reachable"
	return c
}

func checkFolders(_ context.Context, opts Options) Check {
	c := Check{Name: "folders"}
	var problems []string
	for _, dir := range opts.Layout.Dirs() {
		if err := system.CheckWritable(dir); err != nil {
			problems = append(problems, dir)
		}
	}
	if len(problems) > 0 {
		c.Level, c.Detail = Fail, "not writable: "+strings.Join(problems, ", ")
		return c
	}
	c.Detail = "all writable"
	return c
}

// checkRunningInstallers warns when a downloaded installer is still running,
// since downloading it again would fail to replace the file.
func checkRunningInstallers(ctx context.Context, opts Options) Check {
	c := Check{Name: "running installers"}
	entries, err := os.ReadDir(opts.Layout.Installers)
	if err != nil {
		c.Level, c.Detail = Skip, "no installers downloaded"
		return c
	}
	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names[strings.ToLower(e.Name())] = true
		}
	}

	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		c.Level, c.Detail = Warn, err.Error()
		return c
	}
	var running []string
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		if names[strings.ToLower(name)] {
			running = append(running, name)
		}
	}
	if len(running) > 0 {
		c.Level, c.Detail = Warn, "still running: "+strings.Join(running, ", ")
		return c
	}
	c.Detail = "none"
	return c
}
