package htmldoc

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// element creates an element node. attrs are key, value pairs.
func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func setStyle(n *html.Node, d declarations) {
	if len(d) > 0 {
		setAttr(n, "style", d.String())
	}
}

func appendText(n *html.Node, s string) {
	if s == "" {
		return
	}
	if last := n.LastChild; last != nil && last.Type == html.TextNode {
		last.Data += s
		return
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}

// hasVisibleContent reports whether n holds text or an element other than
// an empty anchor.
func hasVisibleContent(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode && c.Data != "":
			return true
		case c.Type != html.ElementNode:
		case c.DataAtom == atom.A && c.FirstChild == nil:
		case c.DataAtom == atom.Span && !hasVisibleContent(c):
		default:
			return true
		}
	}
	return false
}
