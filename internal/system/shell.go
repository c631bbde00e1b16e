package system

import (
	"os/exec"

	"github.com/HenriqueAssisDev/TCC-II/internal/apperr"
)

// Opener asks the OS to open a file the way a double click would.
type Opener interface {
	Open(path string) error
}

// Executor starts a downloaded installer. It returns as soon as the process
// has been handed to the OS and never waits for it to finish.
type Executor interface {
	Execute(path string) error
}

// Shell is the Opener and Executor backed by the host operating system.
type Shell struct{}

func (Shell) Open(path string) error {
	if err := openFile(path); err != nil {
		return &apperr.LaunchError{Path: path, Reason: "the system could not open the file", Err: err}
	}
	return nil
}

func (Shell) Execute(path string) error {
	if err := executeFile(path); err != nil {
		return &apperr.LaunchError{Path: path, Reason: "the system could not start the installer", Installer: true, Err: err}
	}
	return nil
}

// detach starts cmd and reaps it in the background.
func detach(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}
