// Package tui is the interactive front end: a program list with status,
// download confirmation, live progress and a shortcut picker.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/HenriqueAssisDev/TCC-II/internal/apperr"
	"github.com/HenriqueAssisDev/TCC-II/internal/probe"
	"github.com/HenriqueAssisDev/TCC-II/internal/registry"
)

type screen int

const (
	screenList screen = iota
	screenConfirm
	screenProgress
	screenPicker
	screenUpdates
)

// Deps is what the interface drives.
type Deps struct {
	Registry *registry.Registry
	// Probe asks the server for download sizes. It may be nil.
	Probe *probe.Client
	// BrowseDir is where the shortcut picker starts when the program has
	// no shortcut yet. Defaults to the user's home directory.
	BrowseDir string
	// LoadErr is shown on the first screen when the catalog failed to load.
	LoadErr error
}

type launchedMsg struct {
	key string
	err error
}

// RootModel switches between the list and the screens it opens.
type RootModel struct {
	ctx    context.Context
	deps   Deps
	screen screen

	list     listModel
	confirm  confirmModel
	progress progressModel
	picker   pickerModel
	updates  updatesModel

	width  int
	height int
}

// New builds the root model and takes the first status snapshot.
func New(ctx context.Context, deps Deps) RootModel {
	m := RootModel{ctx: ctx, deps: deps, list: newListModel()}
	m.list.setStatuses(deps.Registry.ListStatuses())
	if deps.LoadErr != nil {
		m.list.setMessage("catalog not loaded: "+deps.LoadErr.Error(), true)
	} else if n := len(deps.Registry.Rejected()); n > 0 {
		m.list.setMessage(fmt.Sprintf("%d catalog entries were skipped; see logs/app.log", n), true)
	}
	return m
}

func (m RootModel) Init() tea.Cmd {
	return nil
}

func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.width, m.list.height = msg.Width, msg.Height
		m.picker.width, m.picker.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case launchedMsg:
		if msg.err != nil {
			m.list.setMessage(apperr.Explain(msg.err), true)
		} else {
			m.list.setMessage("Opened "+m.displayName(msg.key), false)
		}
		m.refresh()
		return m, nil
	}

	switch m.screen {
	case screenList:
		return m.updateList(msg)
	case screenConfirm:
		return m.updateConfirm(msg)
	case screenProgress:
		return m.updateProgress(msg)
	case screenPicker:
		return m.updatePicker(msg)
	case screenUpdates:
		return m.updateUpdates(msg)
	}
	return m, nil
}

func (m RootModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	if m.list.quit {
		return m, tea.Quit
	}

	action, key := m.list.action, m.list.actionKey
	m.list.action, m.list.actionKey = actionNone, ""
	reg := m.deps.Registry

	switch action {
	case actionDownload:
		p, ok := reg.Program(key)
		if !ok {
			break
		}
		m.confirm = newConfirmModel(p)
		m.screen = screenConfirm
		return m, tea.Batch(m.confirm.spin.Tick, probeSize(m.ctx, m.deps.Probe, p))

	case actionLaunch:
		return m, func() tea.Msg {
			return launchedMsg{key: key, err: reg.Launch(key)}
		}

	case actionLink:
		p, ok := reg.Program(key)
		if !ok {
			break
		}
		m.picker = newPickerModel(p.Key, p.ShortcutName, m.browseStart())
		m.picker.width, m.picker.height = m.width, m.height
		m.screen = screenPicker

	case actionRefresh:
		m.refresh()
		m.list.setMessage("Status refreshed", false)

	case actionReload:
		if err := reg.ReloadCatalog(); err != nil {
			m.list.setMessage("catalog not reloaded, keeping the previous one: "+err.Error(), true)
		} else {
			text := fmt.Sprintf("Catalog reloaded: %d programs", len(reg.Programs()))
			if n := len(reg.Rejected()); n > 0 {
				text += fmt.Sprintf(", %d entries skipped", n)
			}
			m.list.setMessage(text, false)
		}
		m.refresh()

	case actionUpdates:
		updates := reg.CheckUpdates()
		if len(updates) == 0 {
			m.list.setMessage("All installed programs are up to date", false)
			break
		}
		m.updates = newUpdatesModel(updates)
		m.screen = screenUpdates
		return m, m.updates.Init()
	}
	return m, cmd
}

func (m RootModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.screen = screenList
		return m, nil
	}
	var cmd tea.Cmd
	m.confirm, cmd = m.confirm.Update(msg)
	switch {
	case m.confirm.done:
		return m.startDownloads([]string{m.confirm.program.Key})
	case m.confirm.cancelled:
		m.screen = screenList
		return m, nil
	}
	return m, cmd
}

func (m RootModel) updateUpdates(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.screen = screenList
		return m, nil
	}
	var cmd tea.Cmd
	m.updates, cmd = m.updates.Update(msg)
	switch {
	case m.updates.done:
		return m.startDownloads(m.updates.keys())
	case m.updates.cancelled:
		m.screen = screenList
		return m, nil
	}
	return m, cmd
}

func (m RootModel) startDownloads(keys []string) (tea.Model, tea.Cmd) {
	names := make(map[string]string, len(keys))
	for _, key := range keys {
		if p, ok := m.deps.Registry.Program(key); ok {
			names[key] = p.DisplayName()
		}
	}
	ch := m.deps.Registry.Install(m.ctx, keys...)
	m.progress = newProgressModel(keys, names, ch)
	m.screen = screenProgress
	return m, m.progress.Init()
}

func (m RootModel) updateProgress(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.progress, cmd = m.progress.Update(msg)
	if m.progress.back {
		done, failed := m.progress.counts()
		if failed > 0 {
			m.list.setMessage(fmt.Sprintf("%d of %d downloads failed; see logs/app.log", failed, done+failed), true)
		} else {
			m.list.setMessage("Press r after the installer finishes to refresh the status", false)
		}
		m.refresh()
		m.screen = screenList
		return m, nil
	}
	return m, cmd
}

func (m RootModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	switch {
	case m.picker.done:
		if err := m.deps.Registry.CreateShortcut(m.picker.programKey, m.picker.selected); err != nil {
			m.list.setMessage(err.Error(), true)
		} else {
			m.list.setMessage(fmt.Sprintf("%s now points to %s", m.picker.shortcutName, m.picker.selected), false)
		}
		m.refresh()
		m.screen = screenList
		return m, nil
	case m.picker.quit:
		m.screen = screenList
		return m, nil
	}
	return m, cmd
}

func (m *RootModel) refresh() {
	m.list.setStatuses(m.deps.Registry.ListStatuses())
}

func (m RootModel) displayName(key string) string {
	if p, ok := m.deps.Registry.Program(key); ok {
		return p.DisplayName()
	}
	return key
}

// browseStart is the folder of the current target when the selected program
// has one, else BrowseDir, else the home directory.
func (m RootModel) browseStart() string {
	if s, ok := m.list.selected(); ok && s.Evidence.Target != "" {
		return filepath.Dir(s.Evidence.Target)
	}
	if m.deps.BrowseDir != "" {
		return m.deps.BrowseDir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

func (m RootModel) View() string {
	switch m.screen {
	case screenConfirm:
		return m.confirm.View()
	case screenProgress:
		return m.progress.View()
	case screenPicker:
		return m.picker.View()
	case screenUpdates:
		return m.updates.View()
	}
	return m.list.View()
}
