package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/HenriqueAssisDev/TCC-II/internal/apperr"
	"github.com/HenriqueAssisDev/TCC-II/internal/installer"
)

func newInstallCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "install KEY",
		Short: "Download a program's installer and start it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, args[0], yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Download without asking for confirmation")
	return cmd
}

func runInstall(cmd *cobra.Command, key string, yes bool) error {
	a, err := mustLoad(true)
	if err != nil {
		return err
	}
	defer a.Close()

	p, ok := a.reg.Program(key)
	if !ok {
		return fmt.Errorf("%w: %s", apperr.ErrUnknownProgram, key)
	}

	if !yes {
		if !detectInteractive(cmd.OutOrStdout()) {
			return errors.New("refusing to download without confirmation; pass --yes")
		}
		size := "unknown size"
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		if info, err := a.probe.Head(ctx, p.DownloadURL); err == nil && info.Size > 0 {
			size = humanize.Bytes(uint64(info.Size))
		}
		cancel()

		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Download %s %s (%s)?", p.DisplayName(), p.Version, size)).
			Description("The installer is saved in " + a.layout.Installers + " and started right away.").
			Affirmative("Download").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
	}

	out := cmd.OutOrStdout()
	res, err := a.reg.FetchAndLaunch(cmd.Context(), key, printProgress(out))
	fmt.Fprintln(out)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), apperr.Explain(err))
		return err
	}
	fmt.Fprintf(out, "Downloaded %s and asked the system to run %s.\n", res.Path, res.Launched)
	fmt.Fprintln(out, "Run `integrador list` once the installer has finished.")
	return nil
}

func printProgress(out io.Writer) func(installer.ProgressMsg) {
	return func(m installer.ProgressMsg) {
		switch m.State {
		case installer.StateDownloading:
			if m.Written == 0 {
				fmt.Fprintf(out, "Downloading %s...", m.Program)
				return
			}
			total := "?"
			if m.Total > 0 {
				total = humanize.Bytes(uint64(m.Total))
			}
			fmt.Fprintf(out, "\rDownloading %s... %s / %s", m.Program, humanize.Bytes(uint64(m.Written)), total)
		case installer.StateExtracting:
			fmt.Fprintf(out, "\nUnpacking %s...", m.Program)
		case installer.StateLaunching:
			fmt.Fprintf(out, "\nStarting installer...")
		}
	}
}

func detectInteractive(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice == 0 {
		return false
	}
	if runtime.GOOS != "windows" {
		term := os.Getenv("TERM")
		if term == "" || strings.EqualFold(term, "dumb") {
			return false
		}
	}
	return true
}
