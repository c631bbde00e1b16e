package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/HenriqueAssisDev/TCC-II/internal/status"
)

// listAction is what the list asks the root model to do next.
type listAction int

const (
	actionNone listAction = iota
	actionDownload
	actionLaunch
	actionLink
	actionRefresh
	actionReload
	actionUpdates
)

type listModel struct {
	statuses []status.ProgramStatus
	visible  []int
	cursor   int

	filter    textinput.Model
	filtering bool

	message    string
	messageErr bool

	action    listAction
	actionKey string
	quit      bool

	width  int
	height int
}

func newListModel() listModel {
	ti := textinput.New()
	ti.Placeholder = "filter by name or key"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	return listModel{filter: ti}
}

// setStatuses replaces the rows, keeping the cursor on the same program.
func (m *listModel) setStatuses(statuses []status.ProgramStatus) {
	current := m.selectedKey()
	m.statuses = statuses
	m.applyFilter()
	for i, idx := range m.visible {
		if m.statuses[idx].Program.Key == current {
			m.cursor = i
			return
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}

func (m *listModel) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = nil
	for i, s := range m.statuses {
		if q == "" ||
			strings.Contains(strings.ToLower(s.Program.Key), q) ||
			strings.Contains(strings.ToLower(s.Program.DisplayName()), q) {
			m.visible = append(m.visible, i)
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}

func (m listModel) selected() (status.ProgramStatus, bool) {
	if len(m.visible) == 0 {
		return status.ProgramStatus{}, false
	}
	return m.statuses[m.visible[m.cursor]], true
}

func (m listModel) selectedKey() string {
	s, ok := m.selected()
	if !ok {
		return ""
	}
	return s.Program.Key
}

func (m *listModel) setMessage(msg string, isErr bool) {
	m.message, m.messageErr = msg, isErr
}

func (m listModel) Update(msg tea.Msg) (listModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.filtering {
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.filtering {
		switch key.String() {
		case "esc":
			m.filtering = false
			m.filter.Blur()
			m.filter.SetValue("")
			m.applyFilter()
		case "enter":
			m.filtering = false
			m.filter.Blur()
		default:
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.applyFilter()
			return m, cmd
		}
		return m, nil
	}

	switch key.String() {
	case "q":
		m.quit = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case "/":
		m.filtering = true
		m.filter.Focus()
		return m, textinput.Blink
	case "esc":
		m.filter.SetValue("")
		m.applyFilter()
	case "enter":
		s, ok := m.selected()
		if !ok {
			break
		}
		m.actionKey = s.Program.Key
		if s.Status == status.Installed {
			m.action = actionLaunch
		} else {
			m.action = actionDownload
		}
	case "d":
		if s, ok := m.selected(); ok {
			m.action, m.actionKey = actionDownload, s.Program.Key
		}
	case "l":
		if s, ok := m.selected(); ok {
			m.action, m.actionKey = actionLink, s.Program.Key
		}
	case "r":
		m.action = actionRefresh
	case "R":
		m.action = actionReload
	case "u":
		m.action = actionUpdates
	}
	return m, nil
}

func (m listModel) View() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Programs"))
	b.WriteString("\n\n")

	if len(m.statuses) == 0 {
		b.WriteString(stylePending.Render("  No programs loaded. Fix the catalog and press R to reload."))
		b.WriteString("\n")
	}

	visibleLines := m.height - 9
	if visibleLines < 3 {
		visibleLines = 3
	}
	start := 0
	if m.cursor >= visibleLines {
		start = m.cursor - visibleLines + 1
	}
	end := min(start+visibleLines, len(m.visible))

	for i := start; i < end; i++ {
		s := m.statuses[m.visible[i]]
		line := fmt.Sprintf("%-28s %-10s %-18s", truncate(s.Program.DisplayName(), 28), dash(s.Program.Version), s.Status)
		line = styleFor(s.Status).Render(line)
		if i == m.cursor {
			b.WriteString(styleCursor.Render(" ❯ ") + line)
		} else {
			b.WriteString("   " + line)
		}
		b.WriteString("\n")
	}

	if s, ok := m.selected(); ok {
		b.WriteString("\n")
		b.WriteString(styleHint.Render("  " + detail(s)))
		b.WriteString("\n")
	}

	if m.filtering || m.filter.Value() != "" {
		b.WriteString("\n  " + m.filter.View() + "\n")
	}
	if m.message != "" {
		b.WriteString("\n")
		if m.messageErr {
			b.WriteString(styleError.Render("  " + m.message))
		} else {
			b.WriteString(styleDone.Render("  " + m.message))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styleHint.Render("  enter: open/download   d: download   l: link shortcut   u: updates   r: refresh   R: reload catalog   /: filter   q: quit"))
	return b.String()
}

func detail(s status.ProgramStatus) string {
	switch {
	case s.Evidence.Resolvable():
		line := s.Program.ShortcutName + " → " + s.Evidence.Target
		if s.InstalledVersion != "" {
			line += "  (downloaded " + s.InstalledVersion + ")"
		}
		return line
	case s.Evidence.Exists:
		return s.Program.ShortcutName + ": " + s.Evidence.Reason
	case s.Program.Description != "":
		return s.Program.Description
	}
	return "expects shortcut " + s.Program.ShortcutName
}

func styleFor(s status.Status) lipgloss.Style {
	switch s {
	case status.Installed:
		return styleDone
	case status.InstalledStale:
		return styleStale
	case status.InstalledBrokenShortcut:
		return styleError
	}
	return stylePending
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
