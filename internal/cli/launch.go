package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HenriqueAssisDev/TCC-II/internal/apperr"
)

func newLaunchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "launch KEY",
		Short: "Open an installed program through its shortcut",
		Args:  cobra.ExactArgs(1),
		RunE:  runLaunch,
	}
}

func runLaunch(cmd *cobra.Command, args []string) error {
	a, err := mustLoad(true)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.reg.Launch(args[0]); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), apperr.Explain(err))
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Opened %s.\n", args[0])
	return nil
}

func newLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link KEY TARGET",
		Short: "Create the program's shortcut in the shortcuts folder",
		Long: "Create the program's shortcut in the shortcuts folder, pointing at TARGET.\n\n" +
			"Use this when an installer did not leave a shortcut where it is expected.",
		Args: cobra.ExactArgs(2),
		RunE: runLink,
	}
}

func runLink(cmd *cobra.Command, args []string) error {
	a, err := mustLoad(true)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.reg.CreateShortcut(args[0], args[1]); err != nil {
		return err
	}
	p, _ := a.reg.Program(args[0])
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s -> %s\n", p.ShortcutName, args[1])
	return nil
}
