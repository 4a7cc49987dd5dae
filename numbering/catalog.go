// Package numbering resolves list definitions from the numbering part and
// produces list labels.
//
// A Catalog maps (numId, level) to a resolved model.NumberingLevel. Labels
// are produced by Counters, which hold the only mutable state and belong to
// a single render pass.
package numbering

import (
	"strconv"

	"github.com/tsawler/folio/diag"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/styles"
	"github.com/tsawler/folio/xmlnode"
)

type abstractNum struct {
	id           string
	levels       map[int]model.NumberingLevel
	numStyleLink string
}

type num struct {
	abstractID string
	overrides  map[int]levelOverride
}

type levelOverride struct {
	start    int
	hasStart bool
	level    *model.NumberingLevel
}

type list struct {
	levels [model.MaxListLevels]model.NumberingLevel
	has    [model.MaxListLevels]bool
}

// Catalog holds the resolved lists of one document.
type Catalog struct {
	lists map[string]*list // by numId
}

// Default returns an empty catalog.
func Default() *Catalog {
	return &Catalog{lists: make(map[string]*list)}
}

// New builds a catalog from the root element of the numbering part.
// numStyleLink indirections are followed through the numbering styles of st.
// A nil root yields an empty catalog; a nil st is treated as an empty style
// catalog.
func New(root *xmlnode.Element, st *styles.Catalog) diag.Result[*Catalog] {
	c := Default()
	if root == nil {
		return diag.Ok(c)
	}
	if st == nil {
		st = styles.Default()
	}

	abstracts := make(map[string]*abstractNum)
	for _, el := range root.ElementsByTagName("w:abstractNum") {
		a := readAbstractNum(el)
		abstracts[a.id] = a
	}
	nums := make(map[string]num)
	var order []string
	for _, el := range root.ElementsByTagName("w:num") {
		id := el.Attr("w:numId")
		if id == "" {
			continue
		}
		if _, dup := nums[id]; !dup {
			order = append(order, id)
		}
		nums[id] = readNum(el)
	}

	var warnings []diag.Warning
	for _, numID := range order {
		abs, w := resolveAbstract(numID, nums, abstracts, st)
		warnings = append(warnings, w...)
		if abs == nil {
			continue
		}
		c.lists[numID] = buildList(numID, abs, nums[numID])
	}
	return diag.WithWarnings(c, warnings...)
}

// resolveAbstract follows numId -> abstractNum and then any numStyleLink
// chain to the abstract definition that carries the levels.
func resolveAbstract(numID string, nums map[string]num, abstracts map[string]*abstractNum, st *styles.Catalog) (*abstractNum, []diag.Warning) {
	var warnings []diag.Warning
	seen := make(map[string]bool)
	cur := numID
	for depth := 0; ; depth++ {
		n, ok := nums[cur]
		if !ok {
			return nil, warnings
		}
		abs, ok := abstracts[n.abstractID]
		if !ok {
			return nil, append(warnings, diag.Warnf("numbering definition %q references missing abstract list %q", cur, n.abstractID))
		}
		if abs.numStyleLink == "" {
			return abs, warnings
		}
		if seen[abs.id] || depth >= styles.MaxChainDepth {
			return nil, append(warnings, diag.Warnf("numbering style link for list %q is cyclic or too deep", numID))
		}
		seen[abs.id] = true

		res := st.NumberingStyle(abs.numStyleLink)
		warnings = append(warnings, res.Warnings...)
		if res.Value.NumID == "" {
			return nil, warnings
		}
		cur = res.Value.NumID
	}
}

func buildList(numID string, abs *abstractNum, n num) *list {
	l := &list{}
	var formats [model.MaxListLevels]string
	var starts [model.MaxListLevels]int
	for i := 0; i < model.MaxListLevels; i++ {
		lvl, ok := abs.levels[i]
		if o, has := n.overrides[i]; has {
			if o.level != nil {
				lvl, ok = *o.level, true
			}
			if o.hasStart && ok {
				lvl.Start = o.start
			}
		}
		if !ok {
			starts[i] = 1
			continue
		}
		lvl.ListID = abs.id
		lvl.NumID = numID
		lvl.Level = i
		l.levels[i] = lvl
		l.has[i] = true
		formats[i] = lvl.Format
		starts[i] = lvl.Start
	}
	for i := range l.levels {
		if l.has[i] {
			l.levels[i].Formats = formats
			l.levels[i].Starts = starts
		}
	}
	return l
}

// FindLevel returns the resolved level of a list.
func (c *Catalog) FindLevel(numID string, level int) (model.NumberingLevel, bool) {
	if level < 0 || level >= model.MaxListLevels {
		return model.NumberingLevel{}, false
	}
	l, ok := c.lists[numID]
	if !ok || !l.has[level] {
		return model.NumberingLevel{}, false
	}
	return l.levels[level], true
}

// Len returns the number of resolvable lists.
func (c *Catalog) Len() int {
	return len(c.lists)
}

func readAbstractNum(el *xmlnode.Element) *abstractNum {
	a := &abstractNum{
		id:           el.Attr("w:abstractNumId"),
		levels:       make(map[int]model.NumberingLevel),
		numStyleLink: el.FirstOrEmpty("w:numStyleLink").Attr("w:val"),
	}
	for _, child := range el.ChildElements() {
		if child.Name != "w:lvl" {
			continue
		}
		if lvl, ok := readLevel(child); ok {
			a.levels[lvl.Level] = lvl
		}
	}
	return a
}

func readNum(el *xmlnode.Element) num {
	n := num{
		abstractID: el.FirstOrEmpty("w:abstractNumId").Attr("w:val"),
		overrides:  make(map[int]levelOverride),
	}
	for _, child := range el.ChildElements() {
		if child.Name != "w:lvlOverride" {
			continue
		}
		ilvl, err := strconv.Atoi(child.Attr("w:ilvl"))
		if err != nil {
			continue
		}
		var o levelOverride
		if so := child.First("w:startOverride"); so != nil {
			if v, err := strconv.Atoi(so.Attr("w:val")); err == nil {
				o.start, o.hasStart = v, true
			}
		}
		if lvlEl := child.First("w:lvl"); lvlEl != nil {
			if lvl, ok := readLevel(lvlEl); ok {
				lvl.Level = ilvl
				o.level = &lvl
			}
		}
		n.overrides[ilvl] = o
	}
	return n
}

func readLevel(el *xmlnode.Element) (model.NumberingLevel, bool) {
	ilvl, err := strconv.Atoi(el.Attr("w:ilvl"))
	if err != nil || ilvl < 0 || ilvl >= model.MaxListLevels {
		return model.NumberingLevel{}, false
	}
	attr := func(name string) string {
		return el.FirstOrEmpty(name).Attr("w:val")
	}

	lvl := model.NumberingLevel{
		Level:         ilvl,
		Start:         1,
		Format:        attr("w:numFmt"),
		Text:          attr("w:lvlText"),
		Justification: attr("w:lvlJc"),
		Suffix:        readSuffix(attr("w:suff")),
	}
	if lvl.Format == "" {
		lvl.Format = "decimal"
	}
	lvl.Ordered = lvl.Format != "bullet"
	if v, err := strconv.Atoi(attr("w:start")); err == nil {
		lvl.Start = v
	}

	pPr := el.FirstOrEmpty("w:pPr")
	lvl.Indent = styles.ReadIndent(pPr.FirstOrEmpty("w:ind"))
	lvl.Spacing = styles.ReadSpacing(pPr.FirstOrEmpty("w:spacing"))
	lvl.Font = styles.ReadRunProperties(el.FirstOrEmpty("w:rPr")).Font
	return lvl, true
}

// readSuffix treats a missing w:suff as a space.
func readSuffix(s string) model.Suffix {
	switch s {
	case "tab":
		return model.SuffixTab
	case "nothing":
		return model.SuffixNone
	default:
		return model.SuffixSpace
	}
}
