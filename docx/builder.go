package docx

import (
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/tsawler/folio/diag"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/numbering"
	"github.com/tsawler/folio/styles"
	"github.com/tsawler/folio/xmlnode"
)

// ImageDescriber produces alternative text for an image that has none.
type ImageDescriber interface {
	Describe(data []byte) (string, error)
}

// Config holds the collaborators of a Builder. Nil catalogs are replaced
// by empty ones, so a Builder can read content without any styles or
// numbering parts.
type Config struct {
	Styles        *styles.Catalog
	Numbering     *numbering.Catalog
	Relationships *Relationships
	Archive       Archive
	// PartDir is the directory of the part being read. Image targets are
	// resolved against it. Defaults to "word".
	PartDir        string
	ImageDescriber ImageDescriber
	Logger         *slog.Logger
}

// Builder turns the element tree of one part into document nodes. A
// Builder carries complex-field state between runs, so use one Builder per
// part.
type Builder struct {
	styles    *styles.Catalog
	numbering *numbering.Catalog
	rels      *Relationships
	archive   Archive
	partDir   string
	describer ImageDescriber
	logger    *slog.Logger

	fields fieldStack
	// paragraphRun is the run base of the paragraph being read.
	paragraphRun model.RunProperties
	// region holds the table-style properties selected for the cell being
	// read. Paragraphs and runs inside the cell start from it.
	region model.RegionProperties
	table  *tableContext
}

// NewBuilder creates a Builder.
func NewBuilder(cfg Config) *Builder {
	b := &Builder{
		styles:    cfg.Styles,
		numbering: cfg.Numbering,
		rels:      cfg.Relationships,
		archive:   cfg.Archive,
		partDir:   cfg.PartDir,
		describer: cfg.ImageDescriber,
		logger:    cfg.Logger,
	}
	if b.styles == nil {
		b.styles = styles.Default()
	}
	if b.numbering == nil {
		b.numbering = numbering.Default()
	}
	if b.partDir == "" {
		b.partDir = "word"
	}
	if b.logger == nil {
		b.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	b.paragraphRun = b.styles.DefaultRun()
	return b
}

// ReadElement builds the nodes for one element.
func (b *Builder) ReadElement(el *xmlnode.Element) diag.Result[[]model.Node] {
	return b.readElement(el).result()
}

// ReadElements builds the nodes for a list of sibling nodes. Nodes that
// surfaced from deep inside content but found no paragraph to attach to
// are appended at the end.
func (b *Builder) ReadElements(nodes []xmlnode.Node) diag.Result[[]model.Node] {
	return b.readChildren(nodes).result()
}

// readResult is the outcome of reading one element: the nodes it produced,
// nodes that must surface to the enclosing paragraph, and warnings.
type readResult struct {
	nodes    []model.Node
	extra    []model.Node
	warnings []diag.Warning
}

func nodeResult(nodes ...model.Node) readResult {
	return readResult{nodes: nodes}
}

func warningResult(w diag.Warning) readResult {
	return readResult{warnings: []diag.Warning{w}}
}

func (r readResult) result() diag.Result[[]model.Node] {
	nodes := r.nodes
	if len(r.extra) > 0 {
		nodes = append(append([]model.Node(nil), nodes...), r.extra...)
	}
	if nodes == nil {
		nodes = []model.Node{}
	}
	return diag.WithWarnings(nodes, r.warnings...)
}

// append concatenates other onto r, preserving order.
func (r *readResult) append(other readResult) {
	r.nodes = append(r.nodes, other.nodes...)
	r.extra = append(r.extra, other.extra...)
	r.warnings = append(r.warnings, other.warnings...)
}

// toExtra moves the produced nodes into the extra list.
func (r readResult) toExtra() readResult {
	return readResult{extra: append(r.extra, r.nodes...), warnings: r.warnings}
}

func (b *Builder) readChildren(nodes []xmlnode.Node) readResult {
	var out readResult
	for _, n := range nodes {
		if el, ok := n.(*xmlnode.Element); ok {
			out.append(b.readElement(el))
		}
	}
	return out
}

// readChildrenExcept reads the children of el except the named property
// element, which the caller handles itself.
func (b *Builder) readChildrenExcept(el *xmlnode.Element, skip string) readResult {
	var out readResult
	for _, c := range el.ChildElements() {
		if c.Name != skip {
			out.append(b.readElement(c))
		}
	}
	return out
}

func (b *Builder) readElement(el *xmlnode.Element) readResult {
	kind, ok := elementKinds[el.Name]
	if !ok {
		return warningResult(diag.Warnf("An unrecognised element was ignored: %s", el.Name))
	}
	if kind == kindIgnored {
		return readResult{}
	}
	return handlers[kind](b, el)
}

// ============================================================================
// Element dispatch
// ============================================================================

type elementKind uint8

const (
	kindIgnored elementKind = iota
	kindParagraph
	kindRun
	kindText
	kindTab
	kindNoBreakHyphen
	kindSoftHyphen
	kindCarriageReturn
	kindBreak
	kindFieldChar
	kindInstrText
	kindHyperlink
	kindSimpleField
	kindTable
	kindTableRow
	kindTableCell
	kindFootnoteReference
	kindEndnoteReference
	kindCommentReference
	kindCommentRangeStart
	kindCommentRangeEnd
	kindBookmarkStart
	kindAlternateContent
	kindStructuredTag
	kindTransparent
	kindDrawing
	kindDrawingObject
	kindPicture
	kindImageData
	kindRenderedPageBreak
	kindSection
	kindSymbol
	kindCount
)

type handler func(b *Builder, el *xmlnode.Element) readResult

var elementKinds = map[string]elementKind{
	"w:p":                     kindParagraph,
	"w:r":                     kindRun,
	"w:t":                     kindText,
	"w:tab":                   kindTab,
	"w:noBreakHyphen":         kindNoBreakHyphen,
	"w:softHyphen":            kindSoftHyphen,
	"w:cr":                    kindCarriageReturn,
	"w:br":                    kindBreak,
	"w:fldChar":               kindFieldChar,
	"w:instrText":             kindInstrText,
	"w:hyperlink":             kindHyperlink,
	"w:fldSimple":             kindSimpleField,
	"w:tbl":                   kindTable,
	"w:tr":                    kindTableRow,
	"w:tc":                    kindTableCell,
	"w:footnoteReference":     kindFootnoteReference,
	"w:endnoteReference":      kindEndnoteReference,
	"w:commentReference":      kindCommentReference,
	"w:commentRangeStart":     kindCommentRangeStart,
	"w:commentRangeEnd":       kindCommentRangeEnd,
	"w:bookmarkStart":         kindBookmarkStart,
	"mc:AlternateContent":     kindAlternateContent,
	"w:sdt":                   kindStructuredTag,
	"w:ins":                   kindTransparent,
	"w:object":                kindTransparent,
	"w:smartTag":              kindTransparent,
	"w:customXml":             kindTransparent,
	"v:roundrect":             kindTransparent,
	"v:shape":                 kindTransparent,
	"v:textbox":               kindTransparent,
	"w:txbxContent":           kindTransparent,
	"v:group":                 kindTransparent,
	"v:rect":                  kindTransparent,
	"w:drawing":               kindDrawing,
	"wp:inline":               kindDrawingObject,
	"wp:anchor":               kindDrawingObject,
	"w:pict":                  kindPicture,
	"v:imagedata":             kindImageData,
	"w:lastRenderedPageBreak": kindRenderedPageBreak,
	"w:sectPr":                kindSection,
	"w:sym":                   kindSymbol,

	"w:pPr":                   kindIgnored,
	"w:rPr":                   kindIgnored,
	"w:tblPr":                 kindIgnored,
	"w:tblGrid":               kindIgnored,
	"w:trPr":                  kindIgnored,
	"w:tcPr":                  kindIgnored,
	"w:bookmarkEnd":           kindIgnored,
	"w:proofErr":              kindIgnored,
	"w:permStart":             kindIgnored,
	"w:permEnd":               kindIgnored,
	"w:del":                   kindIgnored,
	"w:moveFrom":              kindIgnored,
	"w:annotationRef":         kindIgnored,
	"w:footnoteRef":           kindIgnored,
	"w:endnoteRef":            kindIgnored,
	"w:separator":             kindIgnored,
	"w:continuationSeparator": kindIgnored,
	"w:sdtPr":                 kindIgnored,
	"w:sdtEndPr":              kindIgnored,
	"v:shadow":                kindIgnored,
	"v:shapetype":             kindIgnored,
	"v:stroke":                kindIgnored,
	"v:fill":                  kindIgnored,
	"v:path":                  kindIgnored,
	"v:formulas":              kindIgnored,
	"o:lock":                  kindIgnored,
	"office-word:wrap":        kindIgnored,
	"m:oMath":                 kindIgnored,
	"m:oMathPara":             kindIgnored,
}

var handlers [kindCount]handler

func init() {
	handlers = [kindCount]handler{
		kindParagraph:         (*Builder).readParagraph,
		kindRun:               (*Builder).readRun,
		kindText:              readText,
		kindTab:               func(*Builder, *xmlnode.Element) readResult { return nodeResult(&model.Tab{}) },
		kindNoBreakHyphen:     func(*Builder, *xmlnode.Element) readResult { return nodeResult(&model.Text{Value: "\u2011"}) },
		kindSoftHyphen:        func(*Builder, *xmlnode.Element) readResult { return nodeResult(&model.Text{Value: "\u00ad"}) },
		kindCarriageReturn:    func(*Builder, *xmlnode.Element) readResult { return nodeResult(&model.Break{BreakType: model.BreakLine}) },
		kindBreak:             readBreak,
		kindFieldChar:         (*Builder).readFieldChar,
		kindInstrText:         (*Builder).readInstrText,
		kindHyperlink:         (*Builder).readHyperlink,
		kindSimpleField:       (*Builder).readSimpleField,
		kindTable:             (*Builder).readTable,
		kindTableRow:          (*Builder).readTableRow,
		kindTableCell:         (*Builder).readTableCell,
		kindFootnoteReference: noteReference(model.Footnote),
		kindEndnoteReference:  noteReference(model.Endnote),
		kindCommentReference: func(_ *Builder, el *xmlnode.Element) readResult {
			return nodeResult(&model.CommentReference{CommentID: el.Attr("w:id")})
		},
		kindCommentRangeStart: func(_ *Builder, el *xmlnode.Element) readResult {
			return nodeResult(&model.CommentRangeStart{CommentID: el.Attr("w:id")})
		},
		kindCommentRangeEnd: func(_ *Builder, el *xmlnode.Element) readResult {
			return nodeResult(&model.CommentRangeEnd{CommentID: el.Attr("w:id")})
		},
		kindBookmarkStart: readBookmark,
		kindAlternateContent: func(b *Builder, el *xmlnode.Element) readResult {
			return b.readChildren(el.FirstOrEmpty("mc:Fallback").Children)
		},
		kindStructuredTag: func(b *Builder, el *xmlnode.Element) readResult {
			return b.readChildren(el.FirstOrEmpty("w:sdtContent").Children)
		},
		kindTransparent: func(b *Builder, el *xmlnode.Element) readResult {
			return b.readChildren(el.Children)
		},
		kindDrawing: func(b *Builder, el *xmlnode.Element) readResult {
			return b.readChildren(el.Children)
		},
		kindDrawingObject: (*Builder).readDrawingObject,
		kindPicture: func(b *Builder, el *xmlnode.Element) readResult {
			return b.readChildren(el.Children).toExtra()
		},
		kindImageData: (*Builder).readImageData,
		kindRenderedPageBreak: func(*Builder, *xmlnode.Element) readResult {
			return nodeResult(renderedPageBreak{})
		},
		kindSection: func(_ *Builder, el *xmlnode.Element) readResult {
			s := ReadSection(el)
			return nodeResult(&s)
		},
		kindSymbol: readSymbol,
	}
}

// renderedPageBreak marks where the saving application started a new page.
// Runs consume it into Run.PageBreakBefore.
type renderedPageBreak struct{}

func (renderedPageBreak) Type() model.NodeType { return model.NodeUnknown }

// ============================================================================
// Paragraphs and runs
// ============================================================================

func (b *Builder) readParagraph(el *xmlnode.Element) readResult {
	pPr := el.FirstOrEmpty("w:pPr")
	props, level, warnings := b.paragraphProperties(pPr)

	saved := b.paragraphRun
	b.paragraphRun = props.Run
	children := b.readChildrenExcept(el, "w:pPr")
	b.paragraphRun = saved

	p := &model.Paragraph{
		Children:   append(children.nodes, children.extra...),
		Properties: props,
		Numbering:  level,
	}
	if p.Children == nil {
		p.Children = []model.Node{}
	}
	if sect := pPr.First("w:sectPr"); sect != nil {
		s := ReadSection(sect)
		p.Section = &s
	}
	return readResult{
		nodes:    []model.Node{p},
		warnings: append(warnings, children.warnings...),
	}
}

// paragraphProperties resolves the effective properties of a paragraph:
// document defaults, the table region of the enclosing cell, the named
// style, the numbering level's indentation and finally the inline
// properties. Its Run is the base for runs in the paragraph.
func (b *Builder) paragraphProperties(pPr *xmlnode.Element) (model.ParagraphProperties, *model.NumberingLevel, []diag.Warning) {
	inline := styles.ReadParagraphProperties(pPr)
	style := b.styles.ParagraphStyle(inline.StyleID)
	warnings := style.Warnings

	props := b.styles.DefaultParagraph().
		Merge(b.region.Paragraph).
		Merge(style.Value.Paragraph).
		Merge(inline)
	props.StyleID = style.Value.ID
	props.StyleName = style.Value.Name

	var level *model.NumberingLevel
	if ref, ok := props.Numbering.Value, props.Numbering.Set; ok && ref.NumID != "0" {
		lvl, found := b.numbering.FindLevel(ref.NumID, ref.Level)
		if found {
			level = &lvl
			props.Indent = b.styles.DefaultParagraph().Indent.
				Merge(b.region.Paragraph.Indent).
				Merge(style.Value.Paragraph.Indent).
				Merge(lvl.Indent).
				Merge(inline.Indent)
		} else {
			warnings = append(warnings, diag.Warnf("numbering level %d of list %q is not defined", ref.Level, ref.NumID))
		}
	}

	props.Run = b.styles.DefaultRun().
		Merge(b.region.Run).
		Merge(props.Run)
	props.Run.StyleID = ""
	props.Run.StyleName = ""
	return props, level, warnings
}

func (b *Builder) readRun(el *xmlnode.Element) readResult {
	inline := styles.ReadRunProperties(el.FirstOrEmpty("w:rPr"))
	style := b.styles.CharacterStyle(inline.StyleID)

	props := b.paragraphRun.Merge(style.Value.Run).Merge(inline)
	props.StyleID = style.Value.ID
	props.StyleName = style.Value.Name

	children := b.readChildrenExcept(el, "w:rPr")
	run := &model.Run{Properties: props, Children: make([]model.Node, 0, len(children.nodes))}
	for _, n := range children.nodes {
		if _, ok := n.(renderedPageBreak); ok {
			run.PageBreakBefore = true
			continue
		}
		run.Children = append(run.Children, n)
	}

	if href, ok := b.fields.currentHyperlink(); ok && len(run.Children) > 0 {
		run.Children = []model.Node{&model.Hyperlink{Children: run.Children, Href: href}}
	}

	return readResult{
		nodes:    []model.Node{run},
		extra:    children.extra,
		warnings: append(style.Warnings, children.warnings...),
	}
}

func readText(_ *Builder, el *xmlnode.Element) readResult {
	return nodeResult(&model.Text{Value: el.Text()})
}

func readBreak(_ *Builder, el *xmlnode.Element) readResult {
	switch t := el.Attr("w:type"); t {
	case "", "textWrapping":
		return nodeResult(&model.Break{BreakType: model.BreakLine})
	case "page":
		return nodeResult(&model.Break{BreakType: model.BreakPage})
	case "column":
		return nodeResult(&model.Break{BreakType: model.BreakColumn})
	default:
		return warningResult(diag.Warnf("Unsupported break type: %s", t))
	}
}

func readBookmark(_ *Builder, el *xmlnode.Element) readResult {
	name := el.Attr("w:name")
	if name == "_GoBack" {
		return readResult{}
	}
	return nodeResult(&model.BookmarkStart{Name: name})
}

func readSymbol(_ *Builder, el *xmlnode.Element) readResult {
	code, err := strconv.ParseUint(el.Attr("w:char"), 16, 32)
	if err != nil {
		return warningResult(diag.Warnf("A w:sym element with an unsupported character was ignored: %s", el.Attr("w:char")))
	}
	return nodeResult(&model.Symbol{Font: el.Attr("w:font"), Char: rune(code)})
}

func noteReference(t model.NoteType) handler {
	return func(_ *Builder, el *xmlnode.Element) readResult {
		return nodeResult(&model.NoteReference{NoteType: t, NoteID: el.Attr("w:id")})
	}
}

// ============================================================================
// Hyperlinks and fields
// ============================================================================

func (b *Builder) readHyperlink(el *xmlnode.Element) readResult {
	children := b.readChildren(el.Children)
	relID := el.Attr("r:id")
	anchor := el.Attr("w:anchor")

	link := &model.Hyperlink{TargetFrame: el.Attr("w:tgtFrame")}
	switch {
	case relID != "":
		href := b.rels.FindTargetByRelationshipID(relID)
		if anchor != "" {
			if i := strings.IndexByte(href, '#'); i >= 0 {
				href = href[:i]
			}
			href += "#" + anchor
		}
		link.Href = href
	case anchor != "":
		link.Anchor = anchor
	default:
		return children
	}
	link.Children = children.nodes
	if link.Children == nil {
		link.Children = []model.Node{}
	}
	return readResult{nodes: []model.Node{link}, extra: children.extra, warnings: children.warnings}
}

func (b *Builder) readFieldChar(el *xmlnode.Element) readResult {
	switch el.Attr("w:fldCharType") {
	case "begin":
		b.fields.begin()
	case "separate":
		b.fields.separate()
	case "end":
		b.fields.end()
	}
	return readResult{}
}

func (b *Builder) readInstrText(el *xmlnode.Element) readResult {
	b.fields.instruction(el.Text())
	return readResult{}
}

// readSimpleField reads w:fldSimple, which carries its instruction inline.
// A HYPERLINK instruction wraps the field result.
func (b *Builder) readSimpleField(el *xmlnode.Element) readResult {
	children := b.readChildren(el.Children)
	href, ok := parseHyperlinkInstruction(el.Attr("w:instr"))
	if !ok {
		return children
	}
	return readResult{
		nodes:    []model.Node{&model.Hyperlink{Href: href, Children: children.nodes}},
		extra:    children.extra,
		warnings: children.warnings,
	}
}
