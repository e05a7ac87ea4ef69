package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/stampwall/internal/config"
)

// ErrAborted is returned when the picker is closed without a selection.
var ErrAborted = errors.New("source selection aborted")

// sourceItem implements list.Item for source display
type sourceItem struct {
	source   config.Source
	selected bool
}

func (i sourceItem) Title() string {
	mark := "[ ]"
	if i.selected {
		mark = "[x]"
	}
	return mark + " " + i.source.Name
}

func (i sourceItem) Description() string {
	n := len(i.source.URLs)
	if n == 0 {
		return "no urls"
	}

	noun := "url"
	if n > 1 {
		noun = "urls"
	}
	return fmt.Sprintf("%d %s | %s", n, noun, truncateURL(i.source.URLs[0], 50))
}

func (i sourceItem) FilterValue() string {
	return i.source.Name
}

func truncateURL(url string, maxLen int) string {
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
)

// Model is the bubbletea model for the source picker
type Model struct {
	list     list.Model
	chosen   []string
	aborted  bool
	quitting bool
	width    int
	height   int
}

// NewPicker creates a picker over the complete sources.
func NewPicker(sources []config.Source) Model {
	var items []list.Item
	for _, src := range sources {
		if !src.Complete() {
			continue
		}
		items = append(items, sourceItem{source: src})
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	l := list.New(items, delegate, 80, 20)
	l.Title = "stampwall - Select Sources"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return Model{list: l}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case " ":
			idx := m.list.Index()
			if item, ok := m.list.SelectedItem().(sourceItem); ok {
				item.selected = !item.selected
				cmd := m.list.SetItem(idx, item)
				return m, cmd
			}
			return m, nil

		case "a":
			m.toggleAll()
			return m, nil

		case "enter":
			m.chosen = m.selectedNames()
			if len(m.chosen) == 0 {
				if item, ok := m.list.SelectedItem().(sourceItem); ok {
					m.chosen = []string{item.source.Name}
				}
			}
			m.aborted = len(m.chosen) == 0
			m.quitting = true
			return m, tea.Quit

		case "q", "esc":
			m.chosen = nil
			m.aborted = true
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// toggleAll selects every source, or clears the selection when all are
// already selected.
func (m *Model) toggleAll() {
	items := m.list.Items()
	all := len(items) > 0
	for _, it := range items {
		if si, ok := it.(sourceItem); ok && !si.selected {
			all = false
			break
		}
	}

	for i, it := range items {
		if si, ok := it.(sourceItem); ok {
			si.selected = !all
			items[i] = si
		}
	}
	m.list.SetItems(items)
}

func (m Model) selectedNames() []string {
	var names []string
	for _, it := range m.list.Items() {
		if si, ok := it.(sourceItem); ok && si.selected {
			names = append(names, si.source.Name)
		}
	}
	return names
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	help := helpStyle.Render("[space] Toggle  [a] All  [enter] Render  [/] Filter  [q] Quit")

	return m.list.View() + "\n" + help
}

// Selected returns the names chosen when the picker was confirmed.
func (m Model) Selected() []string {
	return m.chosen
}

// RunSourcePicker runs the interactive source picker and returns the chosen
// source names in document order.
func RunSourcePicker(sources []config.Source) ([]string, error) {
	m := NewPicker(sources)
	if len(m.list.Items()) == 0 {
		return nil, nil
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	final := finalModel.(Model)
	if final.aborted {
		return nil, ErrAborted
	}
	return final.Selected(), nil
}

// SimplePicker is a non-interactive listing of the sources a picker would offer
func SimplePicker(sources []config.Source) string {
	var sb strings.Builder

	sb.WriteString("stampwall - Sources\n")
	sb.WriteString(strings.Repeat("─", 60) + "\n\n")

	n := 0
	for _, src := range sources {
		if !src.Complete() {
			continue
		}
		n++
		sb.WriteString(fmt.Sprintf("%d. %s\n", n, src.Name))
		for _, u := range src.URLs {
			sb.WriteString(fmt.Sprintf("   %s\n", u))
		}
		sb.WriteString("\n")
	}

	if n == 0 {
		sb.WriteString("No complete sources found.\n")
		sb.WriteString("Each [sources.<name>] table needs urls and minisign_key.\n")
	}

	return sb.String()
}
