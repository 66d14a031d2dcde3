package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/bootorder/pkg/dag"
	"github.com/matzehuels/bootorder/pkg/pipeline"
	"github.com/matzehuels/bootorder/pkg/schedule"
)

// barWidth is the width of the timeline column in cells.
const barWidth = 40

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	barStyle     = lipgloss.NewStyle().Foreground(colorCyan)
	barStopStyle = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// planModel - Interactive plan browser
// =============================================================================

// planModel is the bubbletea model for browsing a computed plan. It shows
// one timeline row per component and the neighbors of the selected one.
type planModel struct {
	res     *pipeline.Result
	graph   *dag.Graph
	entries []schedule.Entry
	unit    string

	cursor   int
	offset   int
	height   int
	shutdown bool // show the shutdown timeline instead of startup
}

func newPlanModel(res *pipeline.Result, g *dag.Graph, unit string) planModel {
	return planModel{
		res:     res,
		graph:   g,
		entries: res.Schedule.Entries(),
		unit:    unit,
		height:  15,
	}
}

func (m planModel) Init() tea.Cmd {
	return nil
}

func (m planModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "tab", "s":
			m.shutdown = !m.shutdown
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-14, 5)
	}
	return m, nil
}

func (m planModel) View() string {
	var b strings.Builder

	title := "Startup timeline"
	if m.shutdown {
		title = "Shutdown timeline"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  tab startup/shutdown  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.entries))
	span := m.res.Stats.StartupMakespan
	if m.shutdown {
		span = m.res.Stats.ShutdownMakespan
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		e := m.entries[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		begin, finish := e.StartupBegin, e.StartupEnd
		if m.shutdown {
			begin, finish = e.ShutdownBegin, e.ShutdownEnd
		}
		rows = append(rows, []string{
			cursor,
			e.ID,
			fmtTime(begin, m.unit) + " " + iconArrow + " " + fmtTime(finish, m.unit),
			timelineBar(begin, finish, span, barWidth),
		})
	}

	bar := barStyle
	if m.shutdown {
		bar = barStopStyle
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Component", "Window", "Timeline").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			current := m.offset+row == m.cursor
			switch {
			case col == 3:
				return bar
			case current:
				return StyleValue.Bold(true)
			}
			return StyleDim
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	if len(m.entries) > 0 {
		b.WriteString(m.details(m.entries[m.cursor].ID))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.entries))))

	return b.String()
}

// details lists the requirements and dependents of id, and any removed
// dependency that touched it.
func (m planModel) details(id string) string {
	var b strings.Builder
	line := func(label string, ids []string) {
		value := "—"
		if len(ids) > 0 {
			value = strings.Join(ids, ", ")
		}
		fmt.Fprintf(&b, "  %s %s\n", listDimStyle.Render(fmt.Sprintf("%-12s", label)), StyleValue.Render(value))
	}
	line("requires", m.graph.Predecessors(id))
	line("required by", m.graph.Successors(id))

	var removed []string
	for _, e := range m.res.Removed {
		if e.Requirement == id || e.Component == id {
			removed = append(removed, e.Requirement+" "+iconArrow+" "+e.Component)
		}
	}
	if len(removed) > 0 {
		fmt.Fprintf(&b, "  %s %s\n", listDimStyle.Render(fmt.Sprintf("%-12s", "removed")), styleRemoved.Render(strings.Join(removed, ", ")))
	}
	return b.String()
}

// timelineBar draws [begin, finish) scaled to width cells of a span-long
// axis. Zero-length windows still get one cell.
func timelineBar(begin, finish, span float64, width int) string {
	if span <= 0 {
		return strings.Repeat("·", width)
	}
	from := int(begin / span * float64(width))
	to := int(finish / span * float64(width))
	from = min(from, width-1)
	to = min(max(to, from+1), width)
	return strings.Repeat("·", from) + strings.Repeat("█", to-from) + strings.Repeat("·", width-to)
}
