package demo

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
}

func labels(col *column) []string {
	out := make([]string, len(col.values))
	for i, v := range col.values {
		out[i], _ = v.(string)
	}
	return out
}

func TestMouseDragReordersWithinColumn(t *testing.T) {
	m := NewModel()
	first := m.cols[0]
	require.Len(t, first.values, 4)
	start := labels(first)

	// Row of item i in column 0 is headerRows+i; drag row 0 onto row 3.
	x := int(first.x) + 1
	m.handleMouse(press(x, headerRows))
	require.NotNil(t, m.eng.Session())
	m.handleMouse(motion(x, headerRows+3))
	m.handleMouse(release(x, headerRows+3))

	require.Nil(t, m.eng.Session())
	got := labels(first)
	assert.ElementsMatch(t, start, got)
	assert.Equal(t, start[0], got[3], "dragged item lands at the bottom")
}

func TestMouseDragTransfersBetweenColumns(t *testing.T) {
	m := NewModel()
	first, second := m.cols[0], m.cols[1]
	moved, _ := first.values[0].(string)

	fromX := int(first.x) + 1
	toX := int(second.x) + 1
	m.handleMouse(press(fromX, headerRows))
	m.handleMouse(motion(toX, headerRows))
	m.handleMouse(release(toX, headerRows))

	assert.Len(t, first.values, 3)
	assert.Len(t, second.values, 3)
	assert.Contains(t, labels(second), moved)
	assert.Contains(t, m.lastNote, "moved to")
}

func TestPressOnEmptySpaceIsIgnored(t *testing.T) {
	m := NewModel()

	m.handleMouse(press(500, 500))
	assert.Nil(t, m.eng.Session())
}

func TestViewRendersColumns(t *testing.T) {
	m := NewModel()
	view := m.View()

	assert.True(t, strings.Contains(view, "Backlog"), "column titles render title-cased")
	assert.True(t, strings.Contains(view, "In Progress"))
}

func TestQuitKeys(t *testing.T) {
	m := NewModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
}
