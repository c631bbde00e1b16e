package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/HenriqueAssisDev/TCC-II/tui"
)

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive program list (the default)",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
}

// runTUI starts the interface even when the catalog failed to load, so the
// user can see the error and reload after fixing the file.
func runTUI(cmd *cobra.Command, _ []string) error {
	a, err := setup(false)
	if err != nil {
		return err
	}
	defer a.Close()

	model := tui.New(cmd.Context(), tui.Deps{
		Registry: a.reg,
		Probe:    a.probe,
		LoadErr:  a.loadErr,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		a.log.Error("interface stopped", "error", err)
		return fmt.Errorf("run interface: %w", err)
	}
	return nil
}
