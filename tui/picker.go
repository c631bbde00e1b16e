package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	pickerDirStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	pickerFileStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	pickerPathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Italic(true)
)

type fileEntry struct {
	name  string
	path  string
	isDir bool
}

type pickerPhase int

const (
	phaseBrowse pickerPhase = iota
	phaseConfirm
)

// pickerModel lets the user browse to an installed executable and confirm it
// as the target of a program's shortcut.
type pickerModel struct {
	programKey   string
	shortcutName string
	currentDir   string

	entries []fileEntry
	cursor  int
	err     error

	phase    pickerPhase
	selected string

	done bool
	quit bool

	width  int
	height int
}

func newPickerModel(programKey, shortcutName, startDir string) pickerModel {
	m := pickerModel{
		programKey:   programKey,
		shortcutName: shortcutName,
		currentDir:   startDir,
	}
	m.loadDir()
	return m
}

// loadDir reads currentDir into m.entries and resets cursor to 0.
func (m *pickerModel) loadDir() {
	m.entries = nil
	m.cursor = 0
	m.err = nil

	if parent := filepath.Dir(m.currentDir); parent != m.currentDir {
		m.entries = append(m.entries, fileEntry{name: "..", path: parent, isDir: true})
	}

	raw, err := os.ReadDir(m.currentDir)
	if err != nil {
		m.err = err
	}

	var dirs, files []fileEntry
	for _, e := range raw {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		fe := fileEntry{
			name:  e.Name(),
			path:  filepath.Join(m.currentDir, e.Name()),
			isDir: e.IsDir(),
		}
		if e.IsDir() {
			dirs = append(dirs, fe)
		} else {
			files = append(files, fe)
		}
	}
	sort.Slice(dirs, func(i, j int) bool { return strings.ToLower(dirs[i].name) < strings.ToLower(dirs[j].name) })
	sort.Slice(files, func(i, j int) bool { return strings.ToLower(files[i].name) < strings.ToLower(files[j].name) })

	m.entries = append(m.entries, dirs...)
	m.entries = append(m.entries, files...)
}

func (m pickerModel) Update(msg tea.Msg) (pickerModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.phase == phaseConfirm {
		switch key.String() {
		case "enter", "y":
			m.done = true
		case "esc", "n":
			m.phase = phaseBrowse
			m.selected = ""
		}
		return m, nil
	}

	switch key.String() {
	case "esc", "q":
		m.quit = true
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "enter", "right", "l":
		if len(m.entries) == 0 {
			break
		}
		e := m.entries[m.cursor]
		if e.isDir {
			m.currentDir = e.path
			m.loadDir()
		} else {
			m.selected = e.path
			m.phase = phaseConfirm
		}
	case "left", "h", "backspace":
		if parent := filepath.Dir(m.currentDir); parent != m.currentDir {
			m.currentDir = parent
			m.loadDir()
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	if m.phase == phaseConfirm {
		var b strings.Builder
		b.WriteString("\n")
		fmt.Fprintf(&b, "  Point %s at\n\n", styleCursor.Render(m.shortcutName))
		b.WriteString("  " + pickerPathStyle.Render(m.selected) + "\n\n")
		b.WriteString(styleHint.Render("  enter/y: create shortcut   esc/n: back"))
		return styleBox.Render(b.String())
	}

	var b strings.Builder
	b.WriteString(styleTitle.Render(fmt.Sprintf("Select the executable for %q", m.programKey)))
	b.WriteString("\n")
	b.WriteString(styleHint.Render("  " + m.currentDir))
	b.WriteString("\n\n")

	visibleLines := m.height - 7
	if visibleLines < 3 {
		visibleLines = 3
	}
	start := 0
	if m.cursor >= visibleLines {
		start = m.cursor - visibleLines + 1
	}
	end := min(start+visibleLines, len(m.entries))

	if m.err != nil {
		b.WriteString(styleError.Render("  " + m.err.Error()))
		b.WriteString("\n")
	} else if len(m.entries) == 0 {
		b.WriteString(styleHint.Render("  (empty directory)"))
		b.WriteString("\n")
	}

	for i := start; i < end; i++ {
		e := m.entries[i]
		var line string
		if e.isDir {
			line = pickerDirStyle.Render(e.name + "/")
		} else {
			line = pickerFileStyle.Render(e.name)
		}
		if i == m.cursor {
			b.WriteString(styleCursor.Render(" ❯ ") + line)
		} else {
			b.WriteString("   " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styleHint.Render("  ↑↓/jk: move   enter: open/select   ←/h: parent   esc: cancel"))
	return b.String()
}
