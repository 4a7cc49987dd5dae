package htmldoc

import (
	"math"
	"strconv"
	"strings"

	"github.com/tsawler/folio/model"
)

// declarations is an inline CSS declaration list.
type declarations []string

func (d *declarations) add(property, value string) {
	*d = append(*d, property+": "+value)
}

func (d declarations) String() string {
	return strings.Join(d, "; ")
}

// pt formats a length in points, rounded to hundredths.
func pt(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + "pt"
}

// color turns a hex color from the document into a CSS color. Named
// colors pass through.
func color(c string) string {
	if len(c) == 6 && isHex(c) {
		return "#" + strings.ToUpper(c)
	}
	return c
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// highlightColors maps w:highlight values to CSS colors.
var highlightColors = map[string]string{
	"black":       "#000000",
	"blue":        "#0000FF",
	"cyan":        "#00FFFF",
	"green":       "#00FF00",
	"magenta":     "#FF00FF",
	"red":         "#FF0000",
	"yellow":      "#FFFF00",
	"white":       "#FFFFFF",
	"darkBlue":    "#000080",
	"darkCyan":    "#008080",
	"darkGreen":   "#008000",
	"darkMagenta": "#800080",
	"darkRed":     "#800000",
	"darkYellow":  "#808000",
	"darkGray":    "#808080",
	"lightGray":   "#C0C0C0",
}

var alignments = map[string]string{
	"left":       "left",
	"start":      "left",
	"center":     "center",
	"right":      "right",
	"end":        "right",
	"both":       "justify",
	"distribute": "justify",
}

func paragraphStyle(p model.ParagraphProperties) declarations {
	var d declarations
	if a, ok := alignments[p.Alignment]; ok {
		d.add("text-align", a)
	}

	ind := p.Indent
	if ind.Left.Value != 0 {
		d.add("padding-left", pt(ind.Left.Value))
	}
	if ind.Right.Value != 0 {
		d.add("padding-right", pt(ind.Right.Value))
	}
	// A first-line indent wins over a hanging one.
	switch {
	case ind.FirstLine.Value != 0:
		d.add("text-indent", pt(ind.FirstLine.Value))
	case ind.Hanging.Value != 0:
		d.add("text-indent", pt(-ind.Hanging.Value))
	}

	sp := p.Spacing
	if sp.Before.Set {
		d.add("margin-top", pt(sp.Before.Value))
	}
	if sp.After.Set {
		d.add("margin-bottom", pt(sp.After.Value))
	}
	if sp.Line.Set && sp.Line.Value > 0 {
		if sp.LineRule == "" || sp.LineRule == "auto" {
			d.add("line-height", strconv.FormatFloat(math.Round(sp.Line.Value*100)/100, 'f', -1, 64))
		} else {
			d.add("line-height", pt(sp.Line.Value))
		}
	}
	if p.Shading != "" {
		d.add("background-color", color(p.Shading))
	}
	return d
}

func runStyle(r model.RunProperties) declarations {
	var d declarations
	if r.Font != "" {
		d.add("font-family", "'"+r.Font+"'")
	}
	if r.FontSize > 0 {
		d.add("font-size", pt(r.FontSize))
	}
	if r.Color != "" {
		d.add("color", color(r.Color))
	}
	switch r.Bold {
	case model.On:
		d.add("font-weight", "bold")
	case model.Off:
		d.add("font-weight", "normal")
	}
	switch r.Italic {
	case model.On:
		d.add("font-style", "italic")
	case model.Off:
		d.add("font-style", "normal")
	}
	switch r.SmallCaps {
	case model.On:
		d.add("font-variant", "small-caps")
	case model.Off:
		d.add("font-variant", "normal")
	}
	decoration(&d, r)

	switch {
	case r.Highlight != "" && r.Highlight != "none":
		if c, ok := highlightColors[r.Highlight]; ok {
			d.add("background-color", c)
		}
	case r.Shading != "":
		d.add("background-color", color(r.Shading))
	}
	return d
}

// decoration adds underline and strikethrough. An explicit "none" or Off
// cancels decoration inherited from an enclosing element.
func decoration(d *declarations, r model.RunProperties) {
	var lines []string
	underline := r.Underline != "" && r.Underline != "none"
	if underline {
		lines = append(lines, "underline")
	}
	if r.Strike == model.On || r.DoubleStrike == model.On {
		lines = append(lines, "line-through")
	}
	if len(lines) == 0 {
		if r.Underline == "none" || r.Strike == model.Off || r.DoubleStrike == model.Off {
			d.add("text-decoration-line", "none")
		}
		return
	}
	d.add("text-decoration-line", strings.Join(lines, " "))

	switch {
	case r.DoubleStrike == model.On, r.Underline == "double":
		d.add("text-decoration-style", "double")
	case !underline:
	case strings.HasPrefix(r.Underline, "dotted"), strings.HasPrefix(r.Underline, "dotDot"):
		d.add("text-decoration-style", "dotted")
	case strings.HasPrefix(r.Underline, "dash"):
		d.add("text-decoration-style", "dashed")
	case strings.HasPrefix(r.Underline, "wav"):
		d.add("text-decoration-style", "wavy")
	}
	if underline && r.UnderlineColor != "" {
		d.add("text-decoration-color", color(r.UnderlineColor))
	}
}

func borderStyle(b model.Border) string {
	if b.Style == "none" || b.Style == "" {
		return "none"
	}
	width := b.Width
	if width <= 0 {
		width = 0.5
	}
	return pt(width) + " " + b.Style + " " + color(b.Color)
}

func cellStyle(c *model.TableCell) declarations {
	var d declarations
	p := c.Properties
	edges := []struct {
		side string
		b    model.Opt[model.Border]
	}{
		{"top", p.Borders.Top},
		{"right", p.Borders.Right},
		{"bottom", p.Borders.Bottom},
		{"left", p.Borders.Left},
	}
	for _, e := range edges {
		if e.b.Set {
			d.add("border-"+e.side, borderStyle(e.b.Value))
		}
	}

	m := p.Margins
	for _, side := range []struct {
		name string
		v    model.Opt[float64]
	}{{"top", m.Top}, {"right", m.Right}, {"bottom", m.Bottom}, {"left", m.Left}} {
		if side.v.Set {
			d.add("padding-"+side.name, pt(side.v.Value))
		}
	}

	switch p.VerticalAlign {
	case "top":
		d.add("vertical-align", "top")
	case "center":
		d.add("vertical-align", "middle")
	case "bottom":
		d.add("vertical-align", "bottom")
	}
	if w, ok := width(p.Width); ok {
		d.add("width", w)
	}
	if p.Shading != "" {
		d.add("background-color", color(p.Shading))
	}
	if p.NoWrap == model.On {
		d.add("white-space", "nowrap")
	}
	return d
}

func tableStyle(t *model.Table) declarations {
	var d declarations
	p := t.Properties
	if p.CellSpacing.Set && p.CellSpacing.Value > 0 {
		d.add("border-collapse", "separate")
		d.add("border-spacing", pt(p.CellSpacing.Value))
	} else {
		d.add("border-collapse", "collapse")
	}
	switch p.Alignment {
	case "center":
		d.add("margin-left", "auto")
		d.add("margin-right", "auto")
	case "right", "end":
		d.add("margin-left", "auto")
	default:
		if p.Indent.Value != 0 {
			d.add("margin-left", pt(p.Indent.Value))
		}
	}
	if w, ok := width(p.Width); ok {
		d.add("width", w)
	}
	if p.Shading != "" {
		d.add("background-color", color(p.Shading))
	}
	return d
}

func width(w model.Opt[model.Width]) (string, bool) {
	if !w.Set || w.Value.Value <= 0 {
		return "", false
	}
	switch w.Value.Type {
	case "pct":
		return strconv.FormatFloat(math.Round(w.Value.Value*100)/100, 'f', -1, 64) + "%", true
	case "dxa", "":
		return pt(w.Value.Value), true
	}
	return "", false
}

func pageStyle(s *model.SectionProperties) declarations {
	var d declarations
	m := s.Margins
	d.add("width", pt(s.PageWidth))
	d.add("min-height", pt(s.PageHeight))
	d.add("padding", pt(m.Top)+" "+pt(m.Right)+" "+pt(m.Bottom)+" "+pt(m.Left+m.Gutter))
	if s.Columns > 1 {
		d.add("column-count", strconv.Itoa(s.Columns))
	}
	return d
}
