// Package tui provides interactive terminal UI components.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/openshelf/openshelf/internal/openlibrary"
)

const (
	defaultListWidth  = 72
	defaultListHeight = 20
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m).Run()
}

// SelectionAction represents the user's action in the selection UI.
type SelectionAction int

const (
	// ActionNone indicates no action was taken.
	ActionNone SelectionAction = iota
	// ActionSelected indicates the user selected a book.
	ActionSelected
	// ActionCancelled indicates the user left without selecting.
	ActionCancelled
)

// SelectionResult holds the result of a TUI selection.
type SelectionResult struct {
	Action    SelectionAction
	Selection *openlibrary.Doc
}

type bookItem struct {
	openlibrary.Doc
}

func (i bookItem) FilterValue() string {
	return i.Doc.Title
}

type itemStyles struct {
	normal     lipgloss.Style
	selected   lipgloss.Style
	titleStyle lipgloss.Style
	metaStyle  lipgloss.Style
	keyStyle   lipgloss.Style
}

func newItemStyles() itemStyles {
	asciiBorder := lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	container := lipgloss.NewStyle().
		Border(asciiBorder).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Foreground(lipgloss.Color("252"))

	selected := container.Copy().
		BorderForeground(lipgloss.Color("214")).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("237"))

	return itemStyles{
		normal:   container,
		selected: selected,
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		metaStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Faint(true),
		keyStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("110")),
	}
}

type bookDelegate struct {
	styles itemStyles
}

func newDelegate() bookDelegate {
	return bookDelegate{styles: newItemStyles()}
}

func (d bookDelegate) Height() int                         { return 4 }
func (d bookDelegate) Spacing() int                        { return 1 }
func (d bookDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d bookDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	book, ok := item.(bookItem)
	if !ok {
		return
	}

	titleLine := d.styles.titleStyle.Render(strings.ToUpper(book.Doc.Title))
	metaLine := d.styles.metaStyle.Render(truncate(book.Subtitle(), m.Width()-4))
	keyLine := d.styles.keyStyle.Render(book.Key)

	content := lipgloss.JoinVertical(lipgloss.Left, titleLine, metaLine, keyLine)

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(content))
}

type model struct {
	list        list.Model
	searchTerm  string
	result      SelectionResult
}

func newModel(term string, items []bookItem) *model {
	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = item
	}

	delegate := newDelegate()
	l := list.New(listItems, delegate, defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle()

	return &model{
		list:       l,
		searchTerm: term,
		result: SelectionResult{
			Action: ActionNone,
		},
	}
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if selected, ok := m.list.SelectedItem().(bookItem); ok {
				doc := selected.Doc
				m.result = SelectionResult{
					Action:    ActionSelected,
					Selection: &doc,
				}
				return m, tea.Quit
			}
		case "ctrl+c", "q", "esc":
			m.result = SelectionResult{Action: ActionCancelled}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		width := clamp(defaultListWidth, msg.Width-4, 40)
		height := clamp(defaultListHeight, msg.Height-6, 5)
		m.list.SetSize(width, height)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	header := headerStyle.Render(fmt.Sprintf("Results for: %s", m.searchTerm))
	listView := m.list.View()
	help := helpStyle.Render("Up/Down navigate | Enter open in browser | q quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, listView, help)
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

// Select presents an interactive selection UI for book search results.
func Select(term string, docs []openlibrary.Doc) (SelectionResult, error) {
	if len(docs) == 0 {
		return SelectionResult{Action: ActionCancelled}, nil
	}

	items := make([]bookItem, len(docs))
	for i, doc := range docs {
		items[i] = bookItem{Doc: doc}
	}

	m := newModel(term, items)
	final, err := runProgram(m)
	if err != nil {
		return SelectionResult{}, fmt.Errorf("running selection UI: %w", err)
	}

	if result, ok := final.(*model); ok {
		return result.result, nil
	}
	return SelectionResult{Action: ActionCancelled}, nil
}

func truncate(s string, max int) string {
	if max <= 3 || runewidth.StringWidth(s) <= max {
		return s
	}
	return runewidth.Truncate(s, max, "...")
}

func clamp(preferred, available, minimum int) int {
	if available < minimum {
		return minimum
	}
	if available < preferred {
		return available
	}
	return preferred
}
