// Package styles resolves the named styles of a word-processing document.
//
// A Catalog is built once from the styles part. Every style's basedOn chain
// is merged eagerly at construction, so lookups are plain map reads that
// return independent copies. Styles carry only what their chain declares;
// document defaults are exposed separately by DefaultParagraph and
// DefaultRun and belong underneath every style.
package styles

import (
	"github.com/tsawler/folio/diag"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/xmlnode"
)

// MaxChainDepth bounds basedOn and numStyleLink chains.
const MaxChainDepth = 16

// Kind is the kind of a style. Ids are unique per kind.
type Kind uint8

const (
	Paragraph Kind = iota
	Character
	Table
	Numbering
	kindCount
)

func (k Kind) String() string {
	switch k {
	case Paragraph:
		return "paragraph"
	case Character:
		return "character"
	case Table:
		return "table"
	case Numbering:
		return "numbering"
	default:
		return "unknown"
	}
}

func parseKind(s string) (Kind, bool) {
	switch s {
	case "paragraph":
		return Paragraph, true
	case "character":
		return Character, true
	case "table":
		return Table, true
	case "numbering":
		return Numbering, true
	}
	return 0, false
}

// Built-in style ids used when a document does not declare a default.
const (
	DefaultParagraphStyleID = "a"
	DefaultCharacterStyleID = "a0"
	DefaultTableStyleID     = "TableNormal"
	DefaultNumberingStyleID = "NoList"
)

// Style is a resolved style. Only the bag matching Kind is populated, except
// for paragraph styles which carry their run properties in both Paragraph.Run
// and Run.
type Style struct {
	Kind    Kind
	ID      string
	Name    string
	BasedOn string
	Link    string
	Default bool

	Paragraph model.ParagraphProperties
	Run       model.RunProperties
	Table     model.TableStyle
	NumID     string
}

// builtinParagraph is Word's paragraph default when docDefaults say nothing.
var builtinParagraph = model.ParagraphProperties{
	Alignment: "left",
	Spacing: model.Spacing{
		Before: model.Some(0.0),
		After:  model.Some(8.0),
	},
}

// builtinRun is Word's run default when docDefaults say nothing.
var builtinRun = model.RunProperties{
	Font:     "Calibri",
	FontSize: 11,
}

// Catalog holds the resolved styles of one document.
type Catalog struct {
	styles     [kindCount]map[string]Style
	defaults   [kindCount]string
	paragraph  model.ParagraphProperties
	defaultRun model.RunProperties
}

func newCatalog() *Catalog {
	c := &Catalog{
		paragraph:  builtinParagraph,
		defaultRun: builtinRun,
	}
	for i := range c.styles {
		c.styles[i] = make(map[string]Style)
	}
	return c
}

// Default returns an empty catalog with built-in defaults.
func Default() *Catalog {
	return newCatalog()
}

// New builds a catalog from the root element of the styles part. A nil root
// yields the default catalog.
func New(root *xmlnode.Element) diag.Result[*Catalog] {
	c := newCatalog()
	if root == nil {
		return diag.Ok(c)
	}

	defaults := root.FirstOrEmpty("w:docDefaults")
	c.paragraph = c.paragraph.Merge(ReadParagraphProperties(
		defaults.FirstOrEmpty("w:pPrDefault").FirstOrEmpty("w:pPr")))
	c.paragraph.Run = model.RunProperties{}
	c.defaultRun = c.defaultRun.Merge(ReadRunProperties(
		defaults.FirstOrEmpty("w:rPrDefault").FirstOrEmpty("w:rPr")))

	var declared [kindCount]map[string]Style
	var order [kindCount][]string
	for i := range declared {
		declared[i] = make(map[string]Style)
	}
	for _, el := range root.ElementsByTagName("w:style") {
		s, ok := readStyle(el)
		if !ok {
			continue
		}
		if _, dup := declared[s.Kind][s.ID]; !dup {
			order[s.Kind] = append(order[s.Kind], s.ID)
		}
		declared[s.Kind][s.ID] = s
		if s.Default && c.defaults[s.Kind] == "" {
			c.defaults[s.Kind] = s.ID
		}
	}

	var warnings []diag.Warning
	for kind := range declared {
		for _, id := range order[kind] {
			resolved, w := c.resolve(declared[kind], id)
			c.styles[kind][id] = resolved
			warnings = append(warnings, w...)
		}
	}

	if id := c.defaults[Character]; id != "" {
		c.defaultRun = c.defaultRun.Merge(c.styles[Character][id].Run)
	}

	return diag.WithWarnings(c, warnings...)
}

func readStyle(el *xmlnode.Element) (Style, bool) {
	kind, ok := parseKind(el.Attr("w:type"))
	if !ok {
		kind = Paragraph
		if el.HasAttr("w:type") {
			return Style{}, false
		}
	}
	id := el.Attr("w:styleId")
	if id == "" {
		return Style{}, false
	}

	s := Style{
		Kind:    kind,
		ID:      id,
		Name:    val(el, "w:name"),
		BasedOn: val(el, "w:basedOn"),
		Link:    val(el, "w:link"),
	}
	switch el.Attr("w:default") {
	case "1", "true", "on":
		s.Default = true
	}

	switch kind {
	case Paragraph:
		s.Paragraph = ReadParagraphProperties(el.FirstOrEmpty("w:pPr"))
		s.Paragraph.StyleID = id
		s.Paragraph.StyleName = s.Name
		s.Paragraph.RunStyleID = s.Link
		s.Run = ReadRunProperties(el.FirstOrEmpty("w:rPr"))
		s.Paragraph.Run = s.Run
	case Character:
		s.Run = ReadRunProperties(el.FirstOrEmpty("w:rPr"))
		s.Run.StyleID = id
		s.Run.StyleName = s.Name
	case Table:
		s.Table = readTableStyle(el)
		s.Table.Base.Table.StyleID = id
	case Numbering:
		s.NumID = val(el.FirstOrEmpty("w:pPr").FirstOrEmpty("w:numPr"), "w:numId")
	}
	return s, true
}

func readTableStyle(el *xmlnode.Element) model.TableStyle {
	style := model.TableStyle{Base: ReadRegionProperties(el)}
	for _, child := range el.ChildElements() {
		if child.Name != "w:tblStylePr" {
			continue
		}
		region, ok := model.ParseRegion(child.Attr("w:type"))
		if !ok {
			continue
		}
		style = style.WithRegion(region, ReadRegionProperties(child))
	}
	return style
}

// resolve merges the basedOn chain of id, base first. The chain stops at a
// missing base; a revisited id or a chain longer than MaxChainDepth is cut
// at the deepest style reached and reported.
func (c *Catalog) resolve(declared map[string]Style, id string) (Style, []diag.Warning) {
	var chain []Style
	var warnings []diag.Warning
	seen := make(map[string]bool)
	for cur := id; cur != ""; {
		s, ok := declared[cur]
		if !ok {
			break
		}
		if seen[cur] || len(chain) >= MaxChainDepth {
			warnings = append(warnings, diag.Warnf("style chain for %q is cyclic or too deep", id))
			break
		}
		seen[cur] = true
		chain = append(chain, s)
		cur = s.BasedOn
	}

	out := Style{Kind: chain[0].Kind}
	for i := len(chain) - 1; i >= 0; i-- {
		out = mergeStyle(out, chain[i])
	}
	return out, warnings
}

func mergeStyle(base, derived Style) Style {
	out := derived
	switch derived.Kind {
	case Paragraph:
		out.Paragraph = base.Paragraph.Merge(derived.Paragraph)
		out.Run = base.Run.Merge(derived.Run)
		out.Paragraph.Run = out.Run
	case Character:
		out.Run = base.Run.Merge(derived.Run)
	case Table:
		out.Table = base.Table.Merge(derived.Table)
	case Numbering:
		if out.NumID == "" {
			out.NumID = base.NumID
		}
	}
	return out
}

// Lookup returns the resolved style of the given kind and id.
func (c *Catalog) Lookup(kind Kind, id string) (Style, bool) {
	if kind >= kindCount {
		return Style{}, false
	}
	s, ok := c.styles[kind][id]
	return s, ok
}

// Default returns the default style of a kind: the style marked
// w:default="1", or a built-in one.
func (c *Catalog) Default(kind Kind) Style {
	if kind >= kindCount {
		return Style{}
	}
	if id := c.defaults[kind]; id != "" {
		if s, ok := c.styles[kind][id]; ok {
			return s
		}
	}
	return c.builtin(kind)
}

func (c *Catalog) builtin(kind Kind) Style {
	switch kind {
	case Paragraph:
		s := Style{Kind: Paragraph, ID: DefaultParagraphStyleID, Name: "Normal", Default: true}
		s.Paragraph.StyleID = s.ID
		s.Paragraph.StyleName = s.Name
		return s
	case Character:
		s := Style{Kind: Character, ID: DefaultCharacterStyleID, Name: "Default Paragraph Font", Default: true}
		s.Run.StyleID = s.ID
		s.Run.StyleName = s.Name
		return s
	case Table:
		return Style{Kind: Table, ID: DefaultTableStyleID, Name: "Normal Table", Default: true}
	default:
		return Style{Kind: Numbering, ID: DefaultNumberingStyleID, Name: "No List", Default: true}
	}
}

func (c *Catalog) find(kind Kind, id string) diag.Result[Style] {
	if s, ok := c.Lookup(kind, id); ok {
		return diag.Ok(s)
	}
	def := c.Default(kind)
	if id == "" || id == def.ID || id == c.builtin(kind).ID {
		return diag.Ok(def)
	}
	return diag.WithWarnings(def, diag.Warnf("style referenced but not defined: %s style %q", kind, id))
}

// ParagraphStyle resolves a paragraph style. An empty id returns the default
// paragraph style; an unknown id returns it with a warning.
func (c *Catalog) ParagraphStyle(id string) diag.Result[Style] {
	return c.find(Paragraph, id)
}

// CharacterStyle resolves a character style like ParagraphStyle.
func (c *Catalog) CharacterStyle(id string) diag.Result[Style] {
	return c.find(Character, id)
}

// TableStyle resolves a table style like ParagraphStyle.
func (c *Catalog) TableStyle(id string) diag.Result[Style] {
	return c.find(Table, id)
}

// NumberingStyle resolves a numbering style like ParagraphStyle.
func (c *Catalog) NumberingStyle(id string) diag.Result[Style] {
	return c.find(Numbering, id)
}

// DefaultRun returns the run properties every run starts from: document
// defaults with the default character style applied.
func (c *Catalog) DefaultRun() model.RunProperties {
	return c.defaultRun
}

// DefaultParagraph returns the paragraph properties every paragraph style
// starts from.
func (c *Catalog) DefaultParagraph() model.ParagraphProperties {
	return c.paragraph
}

// Count returns the number of styles of a kind.
func (c *Catalog) Count(kind Kind) int {
	if kind >= kindCount {
		return 0
	}
	return len(c.styles[kind])
}
