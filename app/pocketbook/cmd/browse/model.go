// Package browse is the full-screen pager used by "pocketbook browse".
package browse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pocketbook/pocketbook/app/core/paginator"
)

type keyMap struct {
	Next key.Binding
	Prev key.Binding
	Up   key.Binding
	Down key.Binding
	Help key.Binding
	Quit key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.Up, k.Down},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	Next: key.NewBinding(key.WithKeys("n", " ", "right"), key.WithHelp("n/space", "next page")),
	Prev: key.NewBinding(key.WithKeys("b", "left"), key.WithHelp("b", "previous page")),
	Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
	Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
	Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
	Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model is the bubbletea model of the pager. Pages come from a paginator,
// which only moves forward, so rendered pages are kept to allow going back.
type Model struct {
	title    string
	pager    *paginator.Paginator
	pages    []string
	current  int
	finished bool

	viewport viewport.Model
	help     help.Model
	width    int
	height   int
}

// NewModel builds a pager over p and renders its first page.
func NewModel(title string, p *paginator.Paginator) Model {
	m := Model{
		title:    title,
		pager:    p,
		viewport: viewport.New(80, 20),
		help:     help.New(),
	}
	if !m.fetch() {
		m.pages = append(m.pages, "Nothing to show.")
	}
	m.viewport.SetContent(m.pages[0])
	return m
}

// fetch renders the next page from the paginator. It reports false once the
// paginator is exhausted.
func (m *Model) fetch() bool {
	if m.finished {
		return false
	}
	page, err := m.pager.Next()
	if errors.Is(err, paginator.ErrEndOfSequence) {
		m.finished = true
		return false
	}
	m.pages = append(m.pages, page)
	return true
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = max(msg.Width-4, 10)
		m.viewport.Height = max(msg.Height-8, 3)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, keys.Next):
			m.next()
			return m, nil
		case key.Matches(msg, keys.Prev):
			m.prev()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) next() {
	if m.current == len(m.pages)-1 && !m.fetch() {
		return
	}
	m.current++
	m.viewport.SetContent(m.pages[m.current])
	m.viewport.GotoTop()
}

func (m *Model) prev() {
	if m.current == 0 {
		return
	}
	m.current--
	m.viewport.SetContent(m.pages[m.current])
	m.viewport.GotoTop()
}

// AtEnd reports whether the last page is shown and no more pages exist.
func (m Model) AtEnd() bool {
	return m.current == len(m.pages)-1 && (m.finished || !m.pager.HasNext())
}

// Page returns the text of the page on screen.
func (m Model) Page() string {
	return m.pages[m.current]
}

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render(m.title),
		pageStyle.Render(fmt.Sprintf("%d/%d", m.current+1, max(m.pager.PageCount(), 1))),
	)
	sb.WriteString(header)
	sb.WriteString("\n")
	sb.WriteString(panelStyle.Render(m.viewport.View()))
	if m.AtEnd() {
		sb.WriteString("\n")
		sb.WriteString(endStyle.Render("No more pages."))
	}
	sb.WriteString(helpStyle.Render(m.help.View(keys)))
	return sb.String()
}
