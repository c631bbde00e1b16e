package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/HenriqueAssisDev/TCC-II/internal/apperr"
	"github.com/HenriqueAssisDev/TCC-II/internal/installer"
)

// progressDoneMsg is sent once the orchestrator closes its channel.
type progressDoneMsg struct{}

type progressEntry struct {
	key     string
	name    string
	state   installer.State
	version string
	written int64
	total   int64
	err     error
}

type progressModel struct {
	entries map[string]*progressEntry
	order   []string
	ch      <-chan installer.ProgressMsg
	bar     progress.Model
	spin    spinner.Model
	done    bool
	// back is set when the user dismisses the finished queue.
	back bool
}

func waitForProgress(ch <-chan installer.ProgressMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return progressDoneMsg{}
		}
		return msg
	}
}

// newProgressModel tracks keys in order. names maps keys to display names.
func newProgressModel(keys []string, names map[string]string, ch <-chan installer.ProgressMsg) progressModel {
	entries := make(map[string]*progressEntry, len(keys))
	for _, key := range keys {
		name := names[key]
		if name == "" {
			name = key
		}
		entries[key] = &progressEntry{key: key, name: name, state: installer.StatePending, total: -1}
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return progressModel{
		entries: entries,
		order:   keys,
		ch:      ch,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		spin:    sp,
	}
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(waitForProgress(m.ch), m.spin.Tick)
}

func (m progressModel) Update(msg tea.Msg) (progressModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.done {
			m.back = true
		}
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case installer.ProgressMsg:
		if e, ok := m.entries[msg.Program]; ok {
			e.state = msg.State
			if msg.Version != "" {
				e.version = msg.Version
			}
			e.written, e.total = msg.Written, msg.Total
			e.err = msg.Err
		}
		return m, waitForProgress(m.ch)
	case progressDoneMsg:
		m.done = true
	}
	return m, nil
}

func (m progressModel) counts() (done, failed int) {
	for _, e := range m.entries {
		switch e.state {
		case installer.StateDone:
			done++
		case installer.StateError:
			failed++
		}
	}
	return done, failed
}

func (m progressModel) View() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(styleTitle.Render("Downloading installers"))
	sb.WriteString("\n\n")

	for _, key := range m.order {
		e := m.entries[key]
		var line string
		switch e.state {
		case installer.StateDone:
			line = styleDone.Render(fmt.Sprintf("  ✓ %-28s %s installer opened", e.name, e.version))
		case installer.StateError:
			line = styleError.Render(fmt.Sprintf("  ✗ %-28s %s", e.name, apperr.Explain(e.err)))
		case installer.StatePending:
			line = stylePending.Render(fmt.Sprintf("  · %-28s pending", e.name))
		case installer.StateDownloading:
			line = fmt.Sprintf("  %s %-28s %s", m.spin.View(), e.name, transferred(e.written, e.total))
			if e.total > 0 {
				line += "\n      " + m.bar.ViewAs(float64(e.written)/float64(e.total))
			}
		default:
			line = fmt.Sprintf("  %s %-28s %s", m.spin.View(), e.name, e.state)
		}
		sb.WriteString(line + "\n")
	}

	if m.done {
		done, failed := m.counts()
		fmt.Fprintf(&sb, "\n  %d handed to the installer, %d failed\n", done, failed)
		sb.WriteString(styleHint.Render("\n  Finish the installation in the installer window, then press any key to refresh"))
		sb.WriteString("\n")
	}
	return sb.String()
}

func transferred(written, total int64) string {
	if total > 0 {
		return humanize.Bytes(uint64(written)) + " / " + humanize.Bytes(uint64(total))
	}
	return humanize.Bytes(uint64(written))
}
