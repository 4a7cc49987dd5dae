// Package xmlnode provides a small generic element tree for OOXML parts.
//
// Element and attribute names keep their conventional namespace prefix
// ("w:p", "r:id", "wp:inline") regardless of the prefix the producing
// application declared, so callers can match on stable names.
package xmlnode

import (
	"strings"
)

// Node is either an *Element or a Text.
type Node interface {
	isNode()
}

// Text is character data between elements.
type Text string

func (Text) isNode() {}

// Element is an XML element with prefixed name, attributes and ordered children.
type Element struct {
	Name       string
	Attributes map[string]string
	Children   []Node
}

func (*Element) isNode() {}

// empty is returned by FirstOrEmpty when nothing matches. It has no
// children and no attributes, so chained lookups keep returning empty.
var empty = &Element{Attributes: map[string]string{}}

// NewElement creates an element. A nil attribute map is replaced by an empty one.
func NewElement(name string, attrs map[string]string, children ...Node) *Element {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return &Element{Name: name, Attributes: attrs, Children: children}
}

// Attr returns the named attribute, or "" when absent.
func (e *Element) Attr(name string) string {
	if e == nil {
		return ""
	}
	return e.Attributes[name]
}

// HasAttr reports whether the named attribute is present.
func (e *Element) HasAttr(name string) bool {
	if e == nil {
		return false
	}
	_, ok := e.Attributes[name]
	return ok
}

// First returns the first direct child element with the given name, or nil.
func (e *Element) First(name string) *Element {
	if e == nil {
		return nil
	}
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok && el.Name == name {
			return el
		}
	}
	return nil
}

// FirstOrEmpty is First, but returns an empty element instead of nil.
func (e *Element) FirstOrEmpty(name string) *Element {
	if el := e.First(name); el != nil {
		return el
	}
	return empty
}

// IsEmpty reports whether e is nil or the shared empty element.
func (e *Element) IsEmpty() bool {
	return e == nil || e == empty
}

// ChildElements returns the direct children that are elements.
func (e *Element) ChildElements() []*Element {
	if e == nil {
		return nil
	}
	out := make([]*Element, 0, len(e.Children))
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// ElementsByTagName returns all descendant elements with the given name in
// document order. The receiver itself is not included.
func (e *Element) ElementsByTagName(name string) Elements {
	var out Elements
	if e == nil {
		return out
	}
	var walk func(*Element)
	walk = func(el *Element) {
		for _, c := range el.Children {
			child, ok := c.(*Element)
			if !ok {
				continue
			}
			if child.Name == name {
				out = append(out, child)
			}
			walk(child)
		}
	}
	walk(e)
	return out
}

// Text returns the concatenated character data of all descendants.
func (e *Element) Text() string {
	if e == nil {
		return ""
	}
	var sb strings.Builder
	e.writeText(&sb)
	return sb.String()
}

func (e *Element) writeText(sb *strings.Builder) {
	for _, c := range e.Children {
		switch n := c.(type) {
		case Text:
			sb.WriteString(string(n))
		case *Element:
			n.writeText(sb)
		}
	}
}

// Elements is an ordered element list supporting chained lookups.
type Elements []*Element

// ElementsByTagName returns matching descendants of every element in order.
func (es Elements) ElementsByTagName(name string) Elements {
	var out Elements
	for _, e := range es {
		out = append(out, e.ElementsByTagName(name)...)
	}
	return out
}

// Nodes converts the list to a Node slice.
func (es Elements) Nodes() []Node {
	out := make([]Node, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}
