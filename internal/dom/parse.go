package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseFragment parses an HTML fragment into detached elements owned by doc.
// Only element nodes survive; text and comments are dropped, since the drag
// engine operates purely on element structure. id and class attributes map
// onto element identity helpers, all other attributes are kept verbatim.
//
// This is a fixture loader: the harness and tests describe container markup
// as HTML instead of hand-assembling trees.
func (d *Document) ParseFragment(fragment string) ([]*Element, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}

	var out []*Element
	for _, n := range nodes {
		if el := d.convert(n); el != nil {
			out = append(out, el)
		}
	}
	return out, nil
}

// convert maps one html.Node subtree onto Elements.
func (d *Document) convert(n *html.Node) *Element {
	if n.Type != html.ElementNode {
		return nil
	}
	el := d.CreateElement(n.Data)
	for _, a := range n.Attr {
		if a.Key == "class" {
			el.AddClass(strings.Fields(a.Val)...)
			continue
		}
		el.SetAttr(a.Key, a.Val)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if child := d.convert(c); child != nil {
			el.AppendChild(child)
		}
	}
	return el
}
