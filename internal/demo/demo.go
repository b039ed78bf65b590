// Package demo is a terminal playground for the drag engine: two lists
// rendered side by side, items dragged between them with the mouse. Every
// gesture goes through the same normalizer and resolvers a host framework
// would use; the TUI only renders the resulting collections.
package demo

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/RHellenes/drag-and-drop/internal/dom"
	"github.com/RHellenes/drag-and-drop/internal/engine"
	"github.com/RHellenes/drag-and-drop/internal/registry"
)

// Column geometry in terminal cells. Each item occupies one row; the DOM
// rects mirror the rendered layout so hit-testing works in cell space.
const (
	colWidth   = 22
	colGap     = 3
	headerRows = 2
)

// column is one rendered list backed by a slice of labels.
type column struct {
	title  string
	values []any
	el     *dom.Element
	x      float64
}

// Model is the bubbletea model for the demo.
type Model struct {
	doc      *dom.Document
	eng      *engine.Engine
	cols     []*column
	lastNote string
	lastY    int
	width    int
	height   int
}

// NewModel builds the demo with its default board.
func NewModel() *Model {
	m := &Model{doc: dom.NewDocument()}
	m.eng = engine.New(m.doc)

	m.addColumn("backlog", []any{"design review", "fix flaky test", "update docs", "refactor parser"})
	m.addColumn("in progress", []any{"wire metrics", "ship demo"})
	m.layout()
	return m
}

func (m *Model) addColumn(title string, values []any) {
	i := len(m.cols)
	col := &column{
		title:  title,
		values: values,
		x:      float64(1 + i*(colWidth+colGap)),
	}
	col.el = m.doc.CreateElement("ul")
	for range values {
		col.el.AppendChild(m.doc.CreateElement("li"))
	}
	m.doc.Mount(col.el)
	m.doc.Flush()

	cfg := registry.Config{
		Name:     title,
		Group:    "board",
		Sortable: true,
		DropZone: true,
		Layout:   registry.AxisVertical,
		OnSort: func(ev registry.SortEvent) {
			m.lastNote = "sorted " + ev.Parent.Config.Name
		},
		OnTransfer: func(ev registry.TransferEvent) {
			m.lastNote = "moved to " + ev.To.Config.Name
		},
	}
	get := func(*dom.Element) []any { return append([]any(nil), col.values...) }
	set := func(values []any, _ *dom.Element) { col.values = append([]any(nil), values...) }
	if _, err := m.eng.RegisterParent(col.el, get, set, cfg); err != nil {
		// Static configs validate; a failure here is a programming error.
		panic(err)
	}
	m.cols = append(m.cols, col)
}

// layout places every column and item rect to match the rendered cells.
// Called after any change to the child lists.
func (m *Model) layout() {
	for _, col := range m.cols {
		children := col.el.Children()
		col.el.SetRect(dom.Rect{
			X:      col.x,
			Y:      headerRows,
			Width:  colWidth,
			Height: float64(max(len(children), 1)),
		})
		for i, child := range children {
			child.SetRect(dom.Rect{
				X:      col.x,
				Y:      headerRows + float64(i),
				Width:  colWidth,
				Height: 1,
			})
		}
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Mouse input maps one-to-one onto the
// engine's native drag surface.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionMotion && msg.Action != tea.MouseActionRelease {
		return
	}
	pos := m.cellPoint(msg)
	el := m.doc.ElementAt(pos)

	switch msg.Action {
	case tea.MouseActionPress:
		m.lastY = msg.Y
		if el == nil {
			return
		}
		if err := m.eng.DragStart(el, pos); err != nil {
			if engine.IsDragError(err, engine.ErrCodeSessionActive) {
				return
			}
			m.lastNote = err.Error()
		}
	case tea.MouseActionMotion:
		m.eng.DragOver(el, pos)
		m.lastY = msg.Y
	case tea.MouseActionRelease:
		m.eng.DragEnd(pos)
	}

	m.doc.Flush()
	m.layout()
}

// cellPoint maps a mouse cell to a point inside the item row. Terminal
// cells are too coarse for center-split direction resolution, so the Y
// offset leans toward the side the cursor came from: moving down reads as
// entering the row from below, moving up as entering from above.
func (m *Model) cellPoint(msg tea.MouseMsg) dom.Point {
	offset := 0.5
	if msg.Action == tea.MouseActionMotion {
		switch {
		case msg.Y > m.lastY:
			offset = 0.75
		case msg.Y < m.lastY:
			offset = 0.25
		}
	}
	return dom.Point{X: float64(msg.X) + 0.5, Y: float64(msg.Y) + offset}
}
