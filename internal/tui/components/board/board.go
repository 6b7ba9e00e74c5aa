package board

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			MarginTop(1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Row is one record on the board. Title and Detail are pre-rendered text;
// the styles only add color.
type Row struct {
	ID          int64
	Title       string
	Detail      string
	TitleStyle  lipgloss.Style
	DetailStyle lipgloss.Style
}

type Section struct {
	Title string
	Empty string
	Rows  []Row
}

type KeyMap struct {
	Up   key.Binding
	Down key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// Model renders status sections into a scrolling viewport with a single
// cursor that moves across all of them.
type Model struct {
	viewport viewport.Model
	keys     KeyMap
	sections []Section
	cursor   int
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{
		viewport: viewport.New(width, height),
		keys:     DefaultKeyMap(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.Move(-1)
			return m, nil
		case key.Matches(msg, m.keys.Down):
			m.Move(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetSections replaces the board contents. The cursor stays on the same
// record when it is still present.
func (m *Model) SetSections(sections []Section) {
	selected, hadSelection := m.Selected()
	m.sections = sections

	m.cursor = min(m.cursor, max(m.count()-1, 0))
	if hadSelection {
		i := 0
		for _, s := range sections {
			for _, r := range s.Rows {
				if r.ID == selected.ID {
					m.cursor = i
				}
				i++
			}
		}
	}
	m.Render()
}

// Selected returns the row under the cursor.
func (m Model) Selected() (Row, bool) {
	i := 0
	for _, s := range m.sections {
		for _, r := range s.Rows {
			if i == m.cursor {
				return r, true
			}
			i++
		}
	}
	return Row{}, false
}

func (m *Model) Move(delta int) {
	n := m.count()
	if n == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), n-1)
	m.Render()
}

func (m Model) count() int {
	n := 0
	for _, s := range m.sections {
		n += len(s.Rows)
	}
	return n
}

func (m *Model) Render() {
	var b strings.Builder
	line, cursorLine := 0, 0
	i := 0
	for _, s := range m.sections {
		b.WriteString(sectionStyle.Render(fmt.Sprintf("%s (%d)", s.Title, len(s.Rows))))
		b.WriteString("\n")
		line += 2
		if len(s.Rows) == 0 {
			b.WriteString("  " + emptyStyle.Render(s.Empty) + "\n")
			line++
			continue
		}
		for _, r := range s.Rows {
			marker := "  "
			if i == m.cursor {
				marker = cursorStyle.Render("› ")
				cursorLine = line
			}
			fmt.Fprintf(&b, "%s%s  %s\n", marker, r.TitleStyle.Render(r.Title), r.DetailStyle.Render(r.Detail))
			line++
			i++
		}
	}
	m.viewport.SetContent(b.String())

	if m.viewport.Height > 0 {
		if cursorLine < m.viewport.YOffset {
			m.viewport.SetYOffset(cursorLine)
		} else if cursorLine >= m.viewport.YOffset+m.viewport.Height {
			m.viewport.SetYOffset(cursorLine - m.viewport.Height + 1)
		}
	}
}
