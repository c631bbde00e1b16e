package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/HenriqueAssisDev/TCC-II/internal/status"
)

// updatesModel lets the user pick which stale programs to download again.
type updatesModel struct {
	form     *huh.Form
	selected *[]string

	done      bool
	cancelled bool
}

func newUpdatesModel(updates []status.Update) updatesModel {
	options := make([]huh.Option[string], 0, len(updates))
	for _, u := range updates {
		label := fmt.Sprintf("%s  %s → %s", u.Program.DisplayName(), dash(u.Installed), u.Available)
		options = append(options, huh.NewOption(label, u.Program.Key).Selected(true))
	}

	selected := new([]string)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Updates available").
				Description("Selected installers are downloaded and run one after another").
				Options(options...).
				Value(selected),
		),
	).WithTheme(huhTheme)

	return updatesModel{form: form, selected: selected}
}

func (m updatesModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m updatesModel) Update(msg tea.Msg) (updatesModel, tea.Cmd) {
	f, cmd := m.form.Update(msg)
	if form, ok := f.(*huh.Form); ok {
		m.form = form
	}
	switch m.form.State {
	case huh.StateCompleted:
		if len(*m.selected) == 0 {
			m.cancelled = true
		} else {
			m.done = true
		}
	case huh.StateAborted:
		m.cancelled = true
	}
	return m, cmd
}

func (m updatesModel) keys() []string {
	return append([]string(nil), *m.selected...)
}

func (m updatesModel) View() string {
	return m.form.View()
}
