package registry

// Plugin is an ordered capability provider attached to a parent.
//
// Plugins observe lifecycle points; they read registry state but have no
// access to the live drag session. Setup runs once after the parent is
// registered and before any drag is possible; SetupNode runs immediately
// after a node joins the parent's node list. TearDown and TearDownNode run
// on removal.
//
// Implementations embed Base and override only the hooks they need.
type Plugin interface {
	Setup(p *Parent)
	TearDown(p *Parent)
	SetupNode(n *Node, p *Parent)
	TearDownNode(n *Node, p *Parent)
}

// Base is a no-op Plugin for embedding.
type Base struct{}

func (Base) Setup(*Parent)               {}
func (Base) TearDown(*Parent)            {}
func (Base) SetupNode(*Node, *Parent)    {}
func (Base) TearDownNode(*Node, *Parent) {}

// setupPlugins runs Setup in declaration order.
func setupPlugins(p *Parent) {
	for _, pl := range p.Config.Plugins {
		pl.Setup(p)
	}
}

// tearDownPlugins runs TearDown in reverse declaration order, so later
// plugins release resources layered on earlier ones first.
func tearDownPlugins(p *Parent) {
	for i := len(p.Config.Plugins) - 1; i >= 0; i-- {
		p.Config.Plugins[i].TearDown(p)
	}
}

func setupNodePlugins(n *Node, p *Parent) {
	for _, pl := range p.Config.Plugins {
		pl.SetupNode(n, p)
	}
	if p.Config.SetupNode != nil {
		p.Config.SetupNode(n, p)
	}
}

func tearDownNodePlugins(n *Node, p *Parent) {
	for i := len(p.Config.Plugins) - 1; i >= 0; i-- {
		p.Config.Plugins[i].TearDownNode(n, p)
	}
	if p.Config.TearDownNode != nil {
		p.Config.TearDownNode(n, p)
	}
}
