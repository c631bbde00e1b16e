package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

var (
	bold   = lipgloss.NewStyle().Bold(true).Inline(true)
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Inline(true)
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Inline(true)
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Inline(true)
	faint  = lipgloss.NewStyle().Faint(true).Inline(true)
)

// writeStructured prints v as JSON or YAML and reports whether it did.
func writeStructured(out io.Writer, v interface{}) (bool, error) {
	switch strings.ToLower(outputFormat) {
	case "", "table":
		return false, nil
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, err
		}
		fmt.Fprintln(out, string(data))
		return true, nil
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	default:
		return true, fmt.Errorf("unknown output format %q (want table, json or yaml)", outputFormat)
	}
}

func nonEmptyOrDash(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}
	return value
}
