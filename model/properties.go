package model

// Opt is a value that is either set or inherited.
type Opt[T comparable] struct {
	Value T
	Set   bool
}

// Some returns a set Opt.
func Some[T comparable](v T) Opt[T] {
	return Opt[T]{Value: v, Set: true}
}

// Or returns the value when set, def otherwise.
func (o Opt[T]) Or(def T) T {
	if o.Set {
		return o.Value
	}
	return def
}

// Override returns over when it is set, o otherwise.
func (o Opt[T]) Override(over Opt[T]) Opt[T] {
	if over.Set {
		return over
	}
	return o
}

// Toggle is a three-valued boolean property.
//
// Off differs from Inherit: it cancels an inherited On and renders
// explicitly (for example as font-weight: normal).
type Toggle uint8

const (
	Inherit Toggle = iota
	On
	Off
)

// ToggleOf converts a bool to On or Off.
func ToggleOf(b bool) Toggle {
	if b {
		return On
	}
	return Off
}

// Enabled reports whether the toggle is On.
func (t Toggle) Enabled() bool { return t == On }

// Override returns over unless it is Inherit.
func (t Toggle) Override(over Toggle) Toggle {
	if over != Inherit {
		return over
	}
	return t
}

func (t Toggle) String() string {
	switch t {
	case On:
		return "on"
	case Off:
		return "off"
	default:
		return "inherit"
	}
}

// RunProperties are character formatting properties. Empty strings and a
// zero FontSize inherit.
type RunProperties struct {
	StyleID   string
	StyleName string

	Bold         Toggle
	Italic       Toggle
	Strike       Toggle
	DoubleStrike Toggle
	Caps         Toggle
	SmallCaps    Toggle
	Hidden       Toggle

	Underline      string // single, double, none, ...
	UnderlineColor string
	Font           string
	FontSize       float64 // points
	Color          string
	Highlight      string
	Shading        string
	VerticalAlign  string // baseline, superscript, subscript
}

// Merge returns r with every property set in over applied on top.
func (r RunProperties) Merge(over RunProperties) RunProperties {
	out := r
	out.StyleID = pick(r.StyleID, over.StyleID)
	out.StyleName = pick(r.StyleName, over.StyleName)
	out.Bold = r.Bold.Override(over.Bold)
	out.Italic = r.Italic.Override(over.Italic)
	out.Strike = r.Strike.Override(over.Strike)
	out.DoubleStrike = r.DoubleStrike.Override(over.DoubleStrike)
	out.Caps = r.Caps.Override(over.Caps)
	out.SmallCaps = r.SmallCaps.Override(over.SmallCaps)
	out.Hidden = r.Hidden.Override(over.Hidden)
	out.Underline = pick(r.Underline, over.Underline)
	out.UnderlineColor = pick(r.UnderlineColor, over.UnderlineColor)
	out.Font = pick(r.Font, over.Font)
	if over.FontSize != 0 {
		out.FontSize = over.FontSize
	}
	out.Color = pick(r.Color, over.Color)
	out.Highlight = pick(r.Highlight, over.Highlight)
	out.Shading = pick(r.Shading, over.Shading)
	out.VerticalAlign = pick(r.VerticalAlign, over.VerticalAlign)
	return out
}

// IsZero reports whether no property is set.
func (r RunProperties) IsZero() bool { return r == RunProperties{} }

// Indent is paragraph indentation in points.
type Indent struct {
	Left      Opt[float64]
	Right     Opt[float64]
	FirstLine Opt[float64]
	Hanging   Opt[float64]
}

// Merge applies the set fields of over.
func (i Indent) Merge(over Indent) Indent {
	return Indent{
		Left:      i.Left.Override(over.Left),
		Right:     i.Right.Override(over.Right),
		FirstLine: i.FirstLine.Override(over.FirstLine),
		Hanging:   i.Hanging.Override(over.Hanging),
	}
}

// Spacing is paragraph spacing. Before and After are points; Line is in
// points for exact/atLeast rules and a multiple of single spacing for auto.
type Spacing struct {
	Before   Opt[float64]
	After    Opt[float64]
	Line     Opt[float64]
	LineRule string
}

// Merge applies the set fields of over.
func (s Spacing) Merge(over Spacing) Spacing {
	return Spacing{
		Before:   s.Before.Override(over.Before),
		After:    s.After.Override(over.After),
		Line:     s.Line.Override(over.Line),
		LineRule: pick(s.LineRule, over.LineRule),
	}
}

// NumberingRef points a paragraph at a list level.
type NumberingRef struct {
	NumID string
	Level int
}

// ParagraphProperties are paragraph formatting properties.
type ParagraphProperties struct {
	StyleID   string
	StyleName string

	Alignment    string // left, center, right, both
	Indent       Indent
	Spacing      Spacing
	Numbering    Opt[NumberingRef]
	OutlineLevel Opt[int]
	Shading      string

	KeepLines       Toggle
	KeepNext        Toggle
	PageBreakBefore Toggle

	// Run holds the run properties declared under the paragraph's
	// properties. They apply to runs that declare nothing themselves.
	Run RunProperties
	// RunStyleID is the linked character style of a paragraph style.
	RunStyleID string
}

// Merge returns p with every property set in over applied on top.
func (p ParagraphProperties) Merge(over ParagraphProperties) ParagraphProperties {
	out := p
	out.StyleID = pick(p.StyleID, over.StyleID)
	out.StyleName = pick(p.StyleName, over.StyleName)
	out.Alignment = pick(p.Alignment, over.Alignment)
	out.Indent = p.Indent.Merge(over.Indent)
	out.Spacing = p.Spacing.Merge(over.Spacing)
	out.Numbering = p.Numbering.Override(over.Numbering)
	out.OutlineLevel = p.OutlineLevel.Override(over.OutlineLevel)
	out.Shading = pick(p.Shading, over.Shading)
	out.KeepLines = p.KeepLines.Override(over.KeepLines)
	out.KeepNext = p.KeepNext.Override(over.KeepNext)
	out.PageBreakBefore = p.PageBreakBefore.Override(over.PageBreakBefore)
	out.Run = p.Run.Merge(over.Run)
	out.RunStyleID = pick(p.RunStyleID, over.RunStyleID)
	return out
}

func pick(base, over string) string {
	if over != "" {
		return over
	}
	return base
}
