// Package launcher opens installed programs through their shortcuts.
package launcher

import (
	"errors"

	"github.com/hashicorp/go-hclog"

	"github.com/HenriqueAssisDev/TCC-II/internal/apperr"
	"github.com/HenriqueAssisDev/TCC-II/internal/shortcut"
	"github.com/HenriqueAssisDev/TCC-II/internal/system"
)

// Dispatcher resolves a shortcut again at the moment of launch, so a status
// computed earlier is never trusted.
type Dispatcher struct {
	resolver shortcut.Resolver
	opener   system.Opener
	logger   hclog.Logger
}

func New(resolver shortcut.Resolver, opener system.Opener, logger hclog.Logger) *Dispatcher {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Dispatcher{resolver: resolver, opener: opener, logger: logger}
}

// Launch opens the target of the shortcut called name and returns the
// evidence it acted on.
func (d *Dispatcher) Launch(name string) (shortcut.Evidence, error) {
	ev := d.resolver.Resolve(name)
	switch {
	case !ev.Exists:
		return ev, d.fail(&apperr.LaunchError{Path: name, Reason: "shortcut not found"})
	case ev.Target == "":
		return ev, d.fail(&apperr.LaunchError{Path: ev.Path, Reason: ev.Reason})
	}

	if err := d.opener.Open(ev.Target); err != nil {
		var le *apperr.LaunchError
		if !errors.As(err, &le) {
			err = &apperr.LaunchError{Path: ev.Target, Reason: "the system could not open the file", Err: err}
		}
		return ev, d.fail(err)
	}
	d.logger.Info("program opened", "shortcut", ev.Path, "target", ev.Target, "kind", ev.Kind)
	return ev, nil
}

func (d *Dispatcher) fail(err error) error {
	d.logger.Error("launch failed", "error", err)
	return err
}
