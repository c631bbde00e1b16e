package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"

	"github.com/HenriqueAssisDev/TCC-II/internal/catalog"
	"github.com/HenriqueAssisDev/TCC-II/internal/probe"
)

// sizeMsg carries the result of asking the server about a download.
type sizeMsg struct {
	key  string
	info probe.Info
	err  error
}

func probeSize(ctx context.Context, client *probe.Client, p catalog.Program) tea.Cmd {
	return func() tea.Msg {
		if client == nil {
			return sizeMsg{key: p.Key, info: probe.Info{Size: -1}}
		}
		info, err := client.Head(ctx, p.DownloadURL)
		return sizeMsg{key: p.Key, info: info, err: err}
	}
}

// confirmModel asks before a download starts, showing the size the server
// announced.
type confirmModel struct {
	program catalog.Program
	loading bool
	spin    spinner.Model
	form    *huh.Form
	accept  *bool

	done      bool
	cancelled bool
}

func newConfirmModel(p catalog.Program) confirmModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return confirmModel{program: p, loading: true, spin: sp, accept: new(bool)}
}

func (m confirmModel) buildForm(info probe.Info, err error) *huh.Form {
	var desc strings.Builder
	fmt.Fprintf(&desc, "Version %s from %s\n", dash(m.program.Version), m.program.DownloadURL)
	switch {
	case err != nil:
		fmt.Fprintf(&desc, "The server could not be asked about this file: %v", err)
	case info.Size > 0:
		fmt.Fprintf(&desc, "Download size: %s", humanize.Bytes(uint64(info.Size)))
	default:
		desc.WriteString("Download size unknown")
	}
	*m.accept = err == nil

	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Download and run the %s installer?", m.program.DisplayName())).
				Description(desc.String()).
				Affirmative("Download").
				Negative("Cancel").
				Value(m.accept),
		),
	).WithTheme(huhTheme).WithShowHelp(false)
}

func (m confirmModel) Update(msg tea.Msg) (confirmModel, tea.Cmd) {
	switch msg := msg.(type) {
	case sizeMsg:
		if msg.key != m.program.Key || !m.loading {
			return m, nil
		}
		m.loading = false
		m.form = m.buildForm(msg.info, msg.err)
		return m, m.form.Init()
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if m.loading {
			if msg.String() == "esc" {
				m.cancelled = true
			}
			return m, nil
		}
	}

	if m.form == nil {
		return m, nil
	}
	f, cmd := m.form.Update(msg)
	if form, ok := f.(*huh.Form); ok {
		m.form = form
	}
	switch m.form.State {
	case huh.StateCompleted:
		if *m.accept {
			m.done = true
		} else {
			m.cancelled = true
		}
	case huh.StateAborted:
		m.cancelled = true
	}
	return m, cmd
}

func (m confirmModel) View() string {
	if m.loading {
		return fmt.Sprintf("\n  %s Checking %s on the server…\n\n%s",
			m.spin.View(), m.program.DisplayName(), styleHint.Render("  esc: cancel"))
	}
	if m.form == nil {
		return ""
	}
	return m.form.View()
}
