package model

import "strings"

// NodeType identifies the kind of a node.
type NodeType int

const (
	NodeUnknown NodeType = iota
	NodeDocument
	NodeParagraph
	NodeRun
	NodeText
	NodeTab
	NodeBreak
	NodeHyperlink
	NodeImage
	NodeTable
	NodeTableRow
	NodeTableCell
	NodeNoteReference
	NodeNote
	NodeComment
	NodeCommentReference
	NodeCommentRangeStart
	NodeCommentRangeEnd
	NodeBookmarkStart
	NodeSymbol
	NodeSectionProperties
)

var nodeTypeNames = map[NodeType]string{
	NodeDocument:          "Document",
	NodeParagraph:         "Paragraph",
	NodeRun:               "Run",
	NodeText:              "Text",
	NodeTab:               "Tab",
	NodeBreak:             "Break",
	NodeHyperlink:         "Hyperlink",
	NodeImage:             "Image",
	NodeTable:             "Table",
	NodeTableRow:          "TableRow",
	NodeTableCell:         "TableCell",
	NodeNoteReference:     "NoteReference",
	NodeNote:              "Note",
	NodeComment:           "Comment",
	NodeCommentReference:  "CommentReference",
	NodeCommentRangeStart: "CommentRangeStart",
	NodeCommentRangeEnd:   "CommentRangeEnd",
	NodeBookmarkStart:     "BookmarkStart",
	NodeSymbol:            "Symbol",
	NodeSectionProperties: "SectionProperties",
}

func (t NodeType) String() string {
	if name, ok := nodeTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Node is the interface for all document tree nodes
type Node interface {
	Type() NodeType
}

// Container is a node with children.
type Container interface {
	Node
	GetChildren() []Node
}

// Paragraph is a paragraph with fully resolved properties.
type Paragraph struct {
	Children   []Node
	Properties ParagraphProperties
	// Numbering is the resolved list level, nil when the paragraph is not
	// part of a list.
	Numbering *NumberingLevel
	// Section is set on the last paragraph of a section.
	Section *SectionProperties
}

func (*Paragraph) Type() NodeType         { return NodeParagraph }
func (p *Paragraph) GetChildren() []Node { return p.Children }

// Run is a span of uniformly formatted content.
type Run struct {
	Children   []Node
	Properties RunProperties
	// PageBreakBefore is set when the saving application started a new page
	// at this run.
	PageBreakBefore bool
}

func (*Run) Type() NodeType         { return NodeRun }
func (r *Run) GetChildren() []Node { return r.Children }

// Text is literal text.
type Text struct {
	Value string
}

func (*Text) Type() NodeType { return NodeText }

// Tab is a tab character.
type Tab struct{}

func (*Tab) Type() NodeType { return NodeTab }

// BreakType distinguishes line, page and column breaks.
type BreakType uint8

const (
	BreakLine BreakType = iota
	BreakPage
	BreakColumn
)

func (b BreakType) String() string {
	switch b {
	case BreakPage:
		return "page"
	case BreakColumn:
		return "column"
	default:
		return "line"
	}
}

// Break is an explicit break.
type Break struct {
	BreakType BreakType
}

func (*Break) Type() NodeType { return NodeBreak }

// Hyperlink wraps content linking to Href or to the bookmark Anchor.
type Hyperlink struct {
	Children    []Node
	Href        string
	Anchor      string
	TargetFrame string
}

func (*Hyperlink) Type() NodeType         { return NodeHyperlink }
func (h *Hyperlink) GetChildren() []Node { return h.Children }

// Image is an embedded picture.
type Image struct {
	Path        string // part name inside the package
	ContentType string
	AltText     string
	Title       string
	Width       float64 // points, 0 when unknown
	Height      float64
	PixelWidth  int
	PixelHeight int
	Data        []byte
}

func (*Image) Type() NodeType { return NodeImage }

// NoteType distinguishes footnotes from endnotes.
type NoteType uint8

const (
	Footnote NoteType = iota
	Endnote
)

func (n NoteType) String() string {
	if n == Endnote {
		return "endnote"
	}
	return "footnote"
}

// NoteReference marks where a note is referenced from the body.
type NoteReference struct {
	NoteType NoteType
	NoteID   string
}

func (*NoteReference) Type() NodeType { return NodeNoteReference }

// CommentReference marks where a comment is anchored.
type CommentReference struct {
	CommentID string
}

func (*CommentReference) Type() NodeType { return NodeCommentReference }

// CommentRangeStart opens the text range a comment applies to.
type CommentRangeStart struct {
	CommentID string
}

func (*CommentRangeStart) Type() NodeType { return NodeCommentRangeStart }

// CommentRangeEnd closes the text range a comment applies to.
type CommentRangeEnd struct {
	CommentID string
}

func (*CommentRangeEnd) Type() NodeType { return NodeCommentRangeEnd }

// BookmarkStart is a named anchor.
type BookmarkStart struct {
	Name string
}

func (*BookmarkStart) Type() NodeType { return NodeBookmarkStart }

// Symbol is a character drawn from a symbol font.
type Symbol struct {
	Font string
	Char rune
}

func (*Symbol) Type() NodeType { return NodeSymbol }

// TextOf returns the plain text under n. Tabs become '\t', line breaks '\n'.
func TextOf(n Node) string {
	var sb strings.Builder
	writeText(&sb, n)
	return sb.String()
}

// TextOfAll is TextOf over a node list.
func TextOfAll(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		writeText(&sb, n)
	}
	return sb.String()
}

func writeText(sb *strings.Builder, n Node) {
	switch v := n.(type) {
	case *Text:
		sb.WriteString(v.Value)
	case *Tab:
		sb.WriteByte('\t')
	case *Break:
		if v.BreakType == BreakLine {
			sb.WriteByte('\n')
		}
	case *Symbol:
		sb.WriteRune(v.Char)
	case *Paragraph:
		for _, c := range v.Children {
			writeText(sb, c)
		}
		sb.WriteByte('\n')
	case Container:
		for _, c := range v.GetChildren() {
			writeText(sb, c)
		}
	}
}
