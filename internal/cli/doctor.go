package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HenriqueAssisDev/TCC-II/internal/doctor"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that this computer can download and run the installers",
		Args:  cobra.NoArgs,
		RunE:  runDoctor,
	}
}

type checkRow struct {
	Name   string `json:"name" yaml:"name"`
	Status string `json:"status" yaml:"status"`
	Detail string `json:"detail" yaml:"detail"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	a, err := setup(true)
	if err != nil {
		return err
	}
	defer a.Close()

	report := doctor.Run(cmd.Context(), doctor.Options{
		Layout:    a.layout,
		MinFreeMB: a.cfg.Doctor.MinFreeMB,
		ProbeURL:  a.cfg.Doctor.ProbeURL,
		Java:      a.cfg.Doctor.Java,
		Prober:    a.probe,
	})
	for _, c := range report.Checks {
		a.log.Info("doctor check", "check", c.Name, "result", c.Level, "detail", c.Detail)
	}

	rows := make([]checkRow, 0, len(report.Checks)+1)
	for _, c := range report.Checks {
		rows = append(rows, checkRow{Name: c.Name, Status: c.Level.String(), Detail: c.Detail})
	}
	catalogRow := checkRow{Name: "catalog", Status: "ok", Detail: fmt.Sprintf("%d programs", len(a.reg.Programs()))}
	if a.loadErr != nil {
		catalogRow.Status, catalogRow.Detail = "failed", a.loadErr.Error()
	} else if n := len(a.reg.Rejected()); n > 0 {
		catalogRow.Status = "warning"
		catalogRow.Detail += fmt.Sprintf(", %d skipped", n)
	}
	rows = append(rows, catalogRow)

	if done, err := writeStructured(cmd.OutOrStdout(), rows); done {
		if err != nil {
			return err
		}
	} else {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, bold.Render("ENVIRONMENT:")+" "+a.layout.Base)
		for _, r := range rows {
			var statusStr string
			switch r.Status {
			case "ok":
				statusStr = green.Render("OK  ")
			case "warning":
				statusStr = yellow.Render("WARN")
			case "failed":
				statusStr = red.Render("FAIL")
			default:
				statusStr = faint.Render("SKIP")
			}
			fmt.Fprintf(out, "  %-20s %s  %s\n", r.Name+":", statusStr, r.Detail)
		}
	}

	if !report.OK() || a.loadErr != nil {
		return errors.New("environment check failed")
	}
	return nil
}
