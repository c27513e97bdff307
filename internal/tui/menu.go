package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// menuAction identifies a menu entry.
type menuAction int

const (
	actionNone menuAction = iota
	actionExportPDF
	actionExportXLSX
	actionExportPlot
	actionSaveHistory
	actionViewHistory
	actionClearHistory
	actionClearPlot
	actionAbout
	actionQuit
)

type item struct {
	title, desc string
	action      menuAction
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title }

type MenuModel struct {
	list   list.Model
	active bool
}

func NewMenuModel() MenuModel {
	items := []list.Item{
		item{title: "Export history to PDF", desc: "Write the integral report", action: actionExportPDF},
		item{title: "Export history to XLSX", desc: "Write the history as a spreadsheet", action: actionExportXLSX},
		item{title: "Export plot to PNG", desc: "Save the current plot at 300 DPI", action: actionExportPlot},
		item{title: "Save history", desc: "Write the history file", action: actionSaveHistory},
		item{title: "View saved history", desc: "Show the history file", action: actionViewHistory},
		item{title: "Clear history", desc: "Forget every calculation and delete the file", action: actionClearHistory},
		item{title: "Clear plot", desc: "Reset the chart", action: actionClearPlot},
		item{title: "About", desc: "About this calculator", action: actionAbout},
		item{title: "Quit", desc: "Exit the application", action: actionQuit},
	}

	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = lipgloss.NewStyle().Foreground(Highlight).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(Highlight).PaddingLeft(1)
	d.Styles.SelectedDesc = d.Styles.SelectedTitle.Foreground(Muted)

	l := list.New(items, d, 48, 20)
	l.Title = "Menu"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = TitleStyle

	return MenuModel{list: l}
}

func (m *MenuModel) open() {
	m.active = true
	m.list.ResetSelected()
}

// Update handles a key while the menu is open. It returns the chosen action
// once Enter is pressed.
func (m MenuModel) Update(msg tea.Msg) (MenuModel, menuAction, tea.Cmd) {
	if !m.active {
		return m, actionNone, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "f2", "ctrl+o":
			m.active = false
			return m, actionNone, nil
		case "enter":
			m.active = false
			if it, ok := m.list.SelectedItem().(item); ok {
				return m, it.action, nil
			}
			return m, actionNone, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, actionNone, cmd
}

func (m MenuModel) View() string {
	if !m.active {
		return ""
	}
	return PanelStyle.Render(m.list.View())
}
