package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/HenriqueAssisDev/TCC-II/internal/status"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every catalog program and its install status",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
}

type statusRow struct {
	Key       string `json:"key" yaml:"key"`
	Name      string `json:"name" yaml:"name"`
	Status    string `json:"status" yaml:"status"`
	Available string `json:"available_version,omitempty" yaml:"available_version,omitempty"`
	Installed string `json:"installed_version,omitempty" yaml:"installed_version,omitempty"`
	Shortcut  string `json:"shortcut" yaml:"shortcut"`
	Target    string `json:"target,omitempty" yaml:"target,omitempty"`
	Reason    string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

func rowFor(s status.ProgramStatus) statusRow {
	return statusRow{
		Key:       s.Program.Key,
		Name:      s.Program.DisplayName(),
		Status:    s.Status.String(),
		Available: s.Program.Version,
		Installed: s.InstalledVersion,
		Shortcut:  s.Program.ShortcutName,
		Target:    s.Evidence.Target,
		Reason:    s.Evidence.Reason,
	}
}

func runList(cmd *cobra.Command, _ []string) error {
	a, err := mustLoad(true)
	if err != nil {
		return err
	}
	defer a.Close()

	statuses := a.reg.ListStatuses()
	rows := make([]statusRow, 0, len(statuses))
	for _, s := range statuses {
		rows = append(rows, rowFor(s))
	}
	if done, err := writeStructured(cmd.OutOrStdout(), rows); done {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tNAME\tSTATUS\tAVAILABLE\tINSTALLED\tSHORTCUT")
	for _, s := range statuses {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			s.Program.Key,
			s.Program.DisplayName(),
			styleStatus(s.Status),
			nonEmptyOrDash(s.Program.Version),
			nonEmptyOrDash(s.InstalledVersion),
			s.Program.ShortcutName,
		)
	}
	w.Flush()

	for _, rej := range a.reg.Rejected() {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s\n", rej.Error())
	}
	return nil
}

func styleStatus(s status.Status) string {
	switch s {
	case status.Installed:
		return green.Render(s.String())
	case status.InstalledStale:
		return yellow.Render(s.String())
	case status.InstalledBrokenShortcut:
		return red.Render(s.String())
	default:
		return faint.Render(s.String())
	}
}

func newUpdatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "updates",
		Short: "List installed programs with a newer version in the catalog",
		Long: "List installed programs with a newer version in the catalog.\n\n" +
			"Only downloads made by this process are known, so a fresh run reports nothing\n" +
			"until a program has been downloaded and the catalog reloaded.",
		Args: cobra.NoArgs,
		RunE: runUpdates,
	}
}

type updateRow struct {
	Key       string `json:"key" yaml:"key"`
	Name      string `json:"name" yaml:"name"`
	Installed string `json:"installed_version" yaml:"installed_version"`
	Available string `json:"available_version" yaml:"available_version"`
}

func runUpdates(cmd *cobra.Command, _ []string) error {
	a, err := mustLoad(true)
	if err != nil {
		return err
	}
	defer a.Close()

	updates := a.reg.CheckUpdates()
	rows := make([]updateRow, 0, len(updates))
	for _, u := range updates {
		rows = append(rows, updateRow{
			Key:       u.Program.Key,
			Name:      u.Program.DisplayName(),
			Installed: u.Installed,
			Available: u.Available,
		})
	}
	if done, err := writeStructured(cmd.OutOrStdout(), rows); done {
		return err
	}

	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "All programs are up to date.")
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tNAME\tINSTALLED\tAVAILABLE")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Key, r.Name, r.Installed, yellow.Render(r.Available))
	}
	return w.Flush()
}
