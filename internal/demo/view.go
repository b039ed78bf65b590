package demo

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	columnStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(colWidth)
	itemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	draggedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	itemTitler = cases.Title(language.English)
)

// View implements tea.Model.
func (m *Model) View() string {
	rendered := make([]string, len(m.cols))
	for i, col := range m.cols {
		rendered[i] = m.renderColumn(col)
	}
	board := lipgloss.JoinHorizontal(lipgloss.Top, interleave(rendered, strings.Repeat(" ", colGap))...)

	var b strings.Builder
	b.WriteString(titleStyle.Render("drag the items - q quits"))
	b.WriteString("\n\n")
	b.WriteString(board)
	b.WriteString("\n")
	if m.lastNote != "" {
		b.WriteString(statusStyle.Render(m.lastNote))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderColumn(col *column) string {
	var rows []string
	rows = append(rows, titleStyle.Render(itemTitler.String(col.title)))
	if len(col.values) == 0 {
		rows = append(rows, emptyStyle.Render("(drop here)"))
	}
	for _, v := range col.values {
		label, _ := v.(string)
		style := itemStyle
		if m.isDragged(label) {
			style = draggedStyle
		}
		rows = append(rows, style.Render(itemTitler.String(label)))
	}
	return columnStyle.Render(strings.Join(rows, "\n"))
}

// isDragged reports whether the label belongs to the live session's dragged
// set.
func (m *Model) isDragged(label string) bool {
	s := m.eng.Session()
	if s == nil {
		return false
	}
	for _, n := range s.DraggedNodes {
		if v, _ := n.Value.(string); v == label {
			return true
		}
	}
	return false
}

// interleave joins the rendered columns with the gap spacer.
func interleave(cols []string, gap string) []string {
	out := make([]string, 0, len(cols)*2)
	for i, c := range cols {
		if i > 0 {
			out = append(out, gap)
		}
		out = append(out, c)
	}
	return out
}
