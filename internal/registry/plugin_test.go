package registry

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RHellenes/drag-and-drop/internal/dom"
)

// recordingPlugin appends lifecycle calls to a shared log.
type recordingPlugin struct {
	Base
	name string
	log  *[]string
}

func (p *recordingPlugin) Setup(*Parent)    { *p.log = append(*p.log, p.name+".setup") }
func (p *recordingPlugin) TearDown(*Parent) { *p.log = append(*p.log, p.name+".teardown") }
func (p *recordingPlugin) SetupNode(n *Node, _ *Parent) {
	*p.log = append(*p.log, fmt.Sprintf("%s.setupNode(%s)", p.name, n.El.Attr("id")))
}
func (p *recordingPlugin) TearDownNode(n *Node, _ *Parent) {
	*p.log = append(*p.log, fmt.Sprintf("%s.tearDownNode(%s)", p.name, n.El.Attr("id")))
}

func TestPlugins_SetupOrderAndNodeHooks(t *testing.T) {
	doc := dom.NewDocument()
	ul, get, set, _ := listFixture(doc, "a")

	var log []string
	r := New(nil)
	_, err := r.Register(ul, get, set, Config{
		Plugins: []Plugin{
			&recordingPlugin{name: "first", log: &log},
			&recordingPlugin{name: "second", log: &log},
		},
		SetupNode: func(n *Node, _ *Parent) {
			log = append(log, "config.setupNode("+n.El.Attr("id")+")")
		},
	})
	require.NoError(t, err)

	// Setup runs in declaration order before any node exists; node hooks run
	// in declaration order with the config hook last.
	assert.Equal(t, []string{
		"first.setup",
		"second.setup",
		"first.setupNode(a)",
		"second.setupNode(a)",
		"config.setupNode(a)",
	}, log)
}

func TestPlugins_TearDownReverseOrder(t *testing.T) {
	doc := dom.NewDocument()
	ul, get, set, _ := listFixture(doc, "a")

	var log []string
	r := New(nil)
	_, err := r.Register(ul, get, set, Config{
		Plugins: []Plugin{
			&recordingPlugin{name: "first", log: &log},
			&recordingPlugin{name: "second", log: &log},
		},
	})
	require.NoError(t, err)

	log = nil
	r.Deregister(ul)

	assert.Equal(t, []string{
		"second.tearDownNode(a)",
		"first.tearDownNode(a)",
		"second.teardown",
		"first.teardown",
	}, log)
}

func TestPlugins_BaseIsNoOp(t *testing.T) {
	doc := dom.NewDocument()
	ul, get, set, _ := listFixture(doc, "a")

	r := New(nil)
	_, err := r.Register(ul, get, set, Config{Plugins: []Plugin{Base{}}})
	assert.NoError(t, err)
}
