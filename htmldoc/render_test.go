package htmldoc

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/tsawler/folio/model"
)

// ============================================================================
// Helpers
// ============================================================================

func render(t *testing.T, pages []*model.Page, parts Parts, opts Options) *html.Node {
	t.Helper()
	var buf bytes.Buffer
	if err := Render(&buf, pages, parts, opts); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	doc, err := html.Parse(&buf)
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}
	return doc
}

func onePage(nodes ...model.Node) []*model.Page {
	p := model.NewPage(0)
	for _, n := range nodes {
		p.AddNode(n)
	}
	return []*model.Page{p}
}

func text(s string, props model.RunProperties) *model.Run {
	return &model.Run{Children: []model.Node{&model.Text{Value: s}}, Properties: props}
}

func para(children ...model.Node) *model.Paragraph {
	return &model.Paragraph{Children: children}
}

// getAttr returns the value of an attribute on a node, or empty string if not found.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// findElement finds the first element with the given tag name.
func findElement(n *html.Node, tagName string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tagName {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, tagName); result != nil {
			return result
		}
	}
	return nil
}

// findAll returns every element with the tag name, in document order.
func findAll(n *html.Node, tagName string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tagName {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// findClass returns every element carrying the class, in document order.
func findClass(n *html.Node, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, c := range strings.Fields(getAttr(n, "class")) {
				if c == class {
					out = append(out, n)
					break
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// getTextContent extracts all text content from a node and its descendants.
func getTextContent(n *html.Node) string {
	var result strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			result.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return result.String()
}

// spanStyles returns the style attribute of every span without a class.
func spanStyles(n *html.Node) []string {
	var out []string
	for _, s := range findAll(n, "span") {
		if getAttr(s, "class") == "" {
			out = append(out, getAttr(s, "style"))
		}
	}
	return out
}

// ============================================================================
// Document structure
// ============================================================================

func TestRender_Document(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, onePage(para(text("hello", model.RunProperties{}))), Parts{}, Options{Title: "Report"})
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Errorf("output does not start with a doctype: %.40q", out)
	}
	if !strings.Contains(out, "<title>Report</title>") {
		t.Error("missing title")
	}
	if !strings.Contains(out, "hello") {
		t.Error("missing body text")
	}
}

func TestRender_Fragment(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, onePage(para(text("x", model.RunProperties{}))), Parts{}, Options{Fragment: true})
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, `<div class="page"`) {
		t.Errorf("fragment starts with %.40q", out)
	}
	if strings.Contains(out, "<html") || strings.Contains(out, "<style") {
		t.Error("fragment contains document elements")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRender_WriteError(t *testing.T) {
	err := Render(failingWriter{}, onePage(para()), Parts{}, Options{})
	if err == nil {
		t.Fatal("Render() expected error from writer")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("error = %v, want the writer's error wrapped", err)
	}
}

func TestRender_PageGeometry(t *testing.T) {
	landscape := &model.SectionProperties{
		PageWidth:  842,
		PageHeight: 595,
		Margins:    model.PageMargins{Top: 36, Right: 54, Bottom: 36, Left: 54, Gutter: 18},
		Columns:    2,
	}
	first := model.NewPage(0)
	first.AddNode(para(text("a", model.RunProperties{})))
	first.Section = landscape
	second := model.NewPage(1)
	second.AddNode(para(text("b", model.RunProperties{})))

	doc := render(t, []*model.Page{first, second}, Parts{}, Options{})
	divs := findClass(doc, "page")
	if len(divs) != 2 {
		t.Fatalf("got %d pages, want 2", len(divs))
	}

	style := getAttr(divs[0], "style")
	for _, want := range []string{"width: 842pt", "min-height: 595pt", "padding: 36pt 54pt 36pt 72pt", "column-count: 2"} {
		if !strings.Contains(style, want) {
			t.Errorf("page 1 style %q missing %q", style, want)
		}
	}
	// A page outside any section falls back to Letter.
	style = getAttr(divs[1], "style")
	if !strings.Contains(style, "width: 612pt") || !strings.Contains(style, "min-height: 792pt") {
		t.Errorf("page 2 style = %q, want Letter geometry", style)
	}
	if got := getAttr(divs[1], "data-page"); got != "2" {
		t.Errorf("data-page = %q, want 2", got)
	}
}

func TestRender_HeaderFooterSelection(t *testing.T) {
	sec := &model.SectionProperties{
		PageWidth: 612, PageHeight: 792,
		Margins: model.PageMargins{Header: 30, Footer: 20, Left: 72, Right: 72},
		Headers: model.HeaderFooterRefs{Default: "rIdH", First: "rIdH1"},
		Footers: model.HeaderFooterRefs{Default: "rIdF"},
	}
	var pages []*model.Page
	for i := 0; i < 2; i++ {
		p := model.NewPage(i)
		p.AddNode(para(text("body", model.RunProperties{})))
		p.Section = sec
		pages = append(pages, p)
	}
	parts := Parts{
		Headers: map[string][]model.Node{
			"rIdH":  {para(text("default header", model.RunProperties{}))},
			"rIdH1": {para(text("first header", model.RunProperties{}))},
		},
		Footers: map[string][]model.Node{
			"rIdF": {para(text("footer", model.RunProperties{}))},
		},
	}

	doc := render(t, pages, parts, Options{})
	headers := findClass(doc, "header")
	if len(headers) != 2 {
		t.Fatalf("got %d headers, want 2", len(headers))
	}
	if got := getTextContent(headers[0]); got != "first header" {
		t.Errorf("page 1 header = %q", got)
	}
	if got := getTextContent(headers[1]); got != "default header" {
		t.Errorf("page 2 header = %q", got)
	}
	if !strings.Contains(getAttr(headers[0], "style"), "top: 30pt") {
		t.Errorf("header style = %q", getAttr(headers[0], "style"))
	}

	footers := findClass(doc, "footer")
	if len(footers) != 2 {
		t.Fatalf("got %d footers, want 2", len(footers))
	}
	for i, f := range footers {
		if got := getTextContent(f); got != "footer" {
			t.Errorf("page %d footer = %q", i+1, got)
		}
		if !strings.Contains(getAttr(f, "style"), "bottom: 20pt") {
			t.Errorf("footer style = %q", getAttr(f, "style"))
		}
	}
}

// ============================================================================
// Paragraphs and runs
// ============================================================================

func TestRender_ParagraphStyle(t *testing.T) {
	p := para(text("x", model.RunProperties{}))
	p.Properties = model.ParagraphProperties{
		StyleID:   "Quote",
		Alignment: "both",
		Indent: model.Indent{
			Left:    model.Some(36.0),
			Hanging: model.Some(18.0),
		},
		Spacing: model.Spacing{
			Before:   model.Some(0.0),
			After:    model.Some(8.0),
			Line:     model.Some(1.15),
			LineRule: "auto",
		},
	}

	doc := render(t, onePage(p), Parts{}, Options{})
	div := findClass(doc, "page")[0].FirstChild
	if got := getAttr(div, "data-style"); got != "Quote" {
		t.Errorf("data-style = %q", got)
	}
	style := getAttr(div, "style")
	for _, want := range []string{
		"text-align: justify",
		"padding-left: 36pt",
		"text-indent: -18pt",
		"margin-top: 0pt",
		"margin-bottom: 8pt",
		"line-height: 1.15",
	} {
		if !strings.Contains(style, want) {
			t.Errorf("style %q missing %q", style, want)
		}
	}
}

func TestRender_FirstLineIndentWins(t *testing.T) {
	p := para(text("x", model.RunProperties{}))
	p.Properties.Indent = model.Indent{FirstLine: model.Some(12.0), Hanging: model.Some(18.0)}
	p.Properties.Spacing = model.Spacing{Line: model.Some(14.0), LineRule: "exact"}

	doc := render(t, onePage(p), Parts{}, Options{})
	style := getAttr(findClass(doc, "page")[0].FirstChild, "style")
	if !strings.Contains(style, "text-indent: 12pt") || strings.Contains(style, "-18pt") {
		t.Errorf("style = %q, want first-line indent only", style)
	}
	if !strings.Contains(style, "line-height: 14pt") {
		t.Errorf("style = %q, want exact line height", style)
	}
}

func TestRender_Headings(t *testing.T) {
	h := para(text("Title", model.RunProperties{}))
	h.Properties.StyleID = "Heading2"
	outline := para(text("Outline", model.RunProperties{}))
	outline.Properties.OutlineLevel = model.Some(0)

	doc := render(t, onePage(h, outline), Parts{}, Options{})
	if el := findElement(doc, "h2"); el == nil || getTextContent(el) != "Title" {
		t.Error("Heading2 paragraph not rendered as h2")
	}
	if el := findElement(doc, "h1"); el == nil || getTextContent(el) != "Outline" {
		t.Error("outline level 0 paragraph not rendered as h1")
	}
}

func TestRender_EmptyParagraph(t *testing.T) {
	doc := render(t, onePage(para(&model.BookmarkStart{Name: "top"})), Parts{}, Options{})
	div := findClass(doc, "page")[0].FirstChild
	if findElement(div, "br") == nil {
		t.Error("empty paragraph has no line break")
	}
	if a := findElement(div, "a"); a == nil || getAttr(a, "id") != "top" {
		t.Error("bookmark anchor missing")
	}
}

func TestRender_Toggles(t *testing.T) {
	tests := []struct {
		name  string
		props model.RunProperties
		want  []string
		not   []string
	}{
		{"bold", model.RunProperties{Bold: model.On}, []string{"font-weight: bold"}, nil},
		{"explicit off", model.RunProperties{Bold: model.Off, Italic: model.Off}, []string{"font-weight: normal", "font-style: normal"}, nil},
		{"inherit", model.RunProperties{}, nil, []string{"font-weight", "font-style"}},
		{"italic", model.RunProperties{Italic: model.On}, []string{"font-style: italic"}, nil},
		{"small caps", model.RunProperties{SmallCaps: model.On}, []string{"font-variant: small-caps"}, nil},
		{"font", model.RunProperties{Font: "Arial", FontSize: 10.5, Color: "ff0000"}, []string{"font-family: 'Arial'", "font-size: 10.5pt", "color: #FF0000"}, nil},
		{"highlight", model.RunProperties{Highlight: "yellow", Shading: "00FF00"}, []string{"background-color: #FFFF00"}, []string{"#00FF00"}},
		{"shading", model.RunProperties{Shading: "00ff00"}, []string{"background-color: #00FF00"}, nil},
		{"underline", model.RunProperties{Underline: "double", UnderlineColor: "0000FF"}, []string{"text-decoration-line: underline", "text-decoration-style: double", "text-decoration-color: #0000FF"}, nil},
		{"strike", model.RunProperties{Strike: model.On, Underline: "wave"}, []string{"text-decoration-line: underline line-through", "text-decoration-style: wavy"}, nil},
		{"no decoration", model.RunProperties{Underline: "none"}, []string{"text-decoration-line: none"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := render(t, onePage(para(text("x", tt.props))), Parts{}, Options{})
			styles := spanStyles(doc)
			if len(styles) != 1 {
				t.Fatalf("got %d spans, want 1", len(styles))
			}
			for _, w := range tt.want {
				if !strings.Contains(styles[0], w) {
					t.Errorf("style %q missing %q", styles[0], w)
				}
			}
			for _, n := range tt.not {
				if strings.Contains(styles[0], n) {
					t.Errorf("style %q should not contain %q", styles[0], n)
				}
			}
		})
	}
}

func TestRender_RunContent(t *testing.T) {
	run := &model.Run{
		Children: []model.Node{
			&model.Text{Value: "hello world"},
			&model.Tab{},
			&model.Break{BreakType: model.BreakLine},
			&model.Symbol{Font: "Wingdings", Char: 'J'},
			&model.Break{BreakType: model.BreakPage},
		},
		Properties: model.RunProperties{Caps: model.On},
	}
	hidden := text("secret", model.RunProperties{Hidden: model.On})
	sup := text("2", model.RunProperties{VerticalAlign: "superscript"})
	sub := text("i", model.RunProperties{VerticalAlign: "subscript"})

	doc := render(t, onePage(para(run, hidden, sup, sub)), Parts{}, Options{})
	page := findClass(doc, "page")[0]
	got := getTextContent(page)
	if !strings.HasPrefix(got, "HELLO WORLD\t") {
		t.Errorf("text = %q, want upper-cased text and tab", got)
	}
	if strings.Contains(got, "secret") {
		t.Error("hidden run rendered")
	}
	if tabs := findClass(page, "tab"); len(tabs) != 1 {
		t.Errorf("got %d tab spans, want 1", len(tabs))
	}
	if syms := findClass(page, "symbol"); len(syms) != 1 || !strings.Contains(getAttr(syms[0], "style"), "Wingdings") {
		t.Error("symbol span missing its font")
	}
	brs := findAll(page, "br")
	if len(brs) != 2 || getAttr(brs[1], "class") != "page-break" {
		t.Errorf("breaks = %d, want a line break and a page break", len(brs))
	}
	if el := findElement(page, "sup"); el == nil || getTextContent(el) != "2" {
		t.Error("superscript not wrapped in sup")
	}
	if el := findElement(page, "sub"); el == nil || getTextContent(el) != "i" {
		t.Error("subscript not wrapped in sub")
	}
}

// ============================================================================
// Lists
// ============================================================================

func level(lvl int, text string) *model.NumberingLevel {
	l := &model.NumberingLevel{
		ListID:  "1",
		NumID:   "1",
		Level:   lvl,
		Ordered: true,
		Start:   1,
		Format:  "decimal",
		Text:    text,
		Suffix:  model.SuffixTab,
	}
	for i := 0; i < model.MaxListLevels; i++ {
		l.Formats[i] = "decimal"
		l.Starts[i] = 1
	}
	return l
}

func listItem(lvl *model.NumberingLevel, s string) *model.Paragraph {
	p := para(text(s, model.RunProperties{}))
	p.Numbering = lvl
	p.Properties.Indent = model.Indent{Left: model.Some(36.0), Hanging: model.Some(18.0)}
	return p
}

func TestRender_NumberingLabels(t *testing.T) {
	first := model.NewPage(0)
	first.AddNode(listItem(level(0, "%1."), "one"))
	first.AddNode(listItem(level(1, "%1.%2."), "one.one"))
	second := model.NewPage(1)
	second.AddNode(listItem(level(0, "%1."), "two"))
	pages := []*model.Page{first, second}

	want := []string{"1.", "1.1.", "2."}
	// Counters belong to one call: rendering twice gives the same labels.
	for i := 0; i < 2; i++ {
		doc := render(t, pages, Parts{}, Options{})
		labels := findClass(doc, "list-label")
		if len(labels) != len(want) {
			t.Fatalf("got %d labels, want %d", len(labels), len(want))
		}
		for i, l := range labels {
			if got := getTextContent(l); got != want[i] {
				t.Errorf("label %d = %q, want %q", i, got, want[i])
			}
			if !strings.Contains(getAttr(l, "style"), "min-width: 18pt") {
				t.Errorf("label style = %q, want hanging width", getAttr(l, "style"))
			}
		}
	}
}

func TestRender_BulletLabel(t *testing.T) {
	lvl := level(0, "")
	lvl.Ordered = false
	lvl.Format = "bullet"
	lvl.Font = "Symbol"
	lvl.Suffix = model.SuffixSpace
	p := listItem(lvl, "item")
	p.Properties.Run = model.RunProperties{Bold: model.On}
	p.Properties.Indent = model.Indent{}

	doc := render(t, onePage(p), Parts{}, Options{})
	labels := findClass(doc, "list-label")
	if len(labels) != 1 {
		t.Fatalf("got %d labels, want 1", len(labels))
	}
	if got := getTextContent(labels[0]); got != "•\u00a0" {
		t.Errorf("label = %q", got)
	}
	style := getAttr(labels[0], "style")
	if !strings.Contains(style, "font-weight: bold") || strings.Contains(style, "Symbol") {
		t.Errorf("label style = %q", style)
	}
}

// ============================================================================
// Tables
// ============================================================================

func TestRender_Table(t *testing.T) {
	solid := model.Some(model.Border{Style: "solid", Width: 1, Color: "000000"})
	cell := func(s string, colSpan, rowSpan int) *model.TableCell {
		return &model.TableCell{
			Children: []model.Node{para(text(s, model.RunProperties{}))},
			Properties: model.CellProperties{
				Borders:       model.Borders{Top: solid, Left: model.Some(model.Border{Style: "none"})},
				Margins:       model.Margins{Left: model.Some(5.4), Right: model.Some(5.4)},
				VerticalAlign: "center",
				Shading:       "D9E2F3",
			},
			ColSpan: colSpan,
			RowSpan: rowSpan,
		}
	}
	table := &model.Table{
		Properties: model.TableProperties{
			Alignment: "center",
			Width:     model.Some(model.Width{Value: 50, Type: "pct"}),
			Caption:   "Totals",
		},
		Grid: []float64{100, 100, 100},
		Children: []model.Node{
			&model.TableRow{IsHeader: true, Children: []model.Node{cell("h", 3, 1)}},
			&model.TableRow{
				Properties: model.RowProperties{Height: model.Some(20.0)},
				Children:   []model.Node{cell("a", 2, 2), cell("b", 1, 1)},
			},
			&model.TableRow{Children: []model.Node{cell("c", 1, 1)}},
			&model.TableRow{Children: []model.Node{&model.TableCell{Children: []model.Node{}, ColSpan: 1, RowSpan: 1}}},
		},
	}

	doc := render(t, onePage(table), Parts{}, Options{})
	el := findElement(doc, "table")
	if el == nil {
		t.Fatal("no table rendered")
	}
	style := getAttr(el, "style")
	for _, want := range []string{"border-collapse: collapse", "margin-left: auto", "width: 50%"} {
		if !strings.Contains(style, want) {
			t.Errorf("table style %q missing %q", style, want)
		}
	}
	if c := findElement(el, "caption"); c == nil || getTextContent(c) != "Totals" {
		t.Error("caption missing")
	}
	if cols := findAll(el, "col"); len(cols) != 3 || getAttr(cols[0], "style") != "width: 100pt" {
		t.Errorf("got %d col elements", len(cols))
	}

	thead := findElement(el, "thead")
	if thead == nil || len(findAll(thead, "th")) != 1 {
		t.Fatal("header row not rendered in thead")
	}
	if got := getAttr(findElement(thead, "th"), "colspan"); got != "3" {
		t.Errorf("header colspan = %q, want 3", got)
	}

	tds := findAll(findElement(el, "tbody"), "td")
	if len(tds) != 4 {
		t.Fatalf("got %d body cells, want 4", len(tds))
	}
	if getAttr(tds[0], "colspan") != "2" || getAttr(tds[0], "rowspan") != "2" {
		t.Errorf("merged cell attrs = %v", tds[0].Attr)
	}
	if getAttr(tds[1], "colspan") != "" || getAttr(tds[1], "rowspan") != "" {
		t.Errorf("plain cell has span attributes: %v", tds[1].Attr)
	}
	cs := getAttr(tds[0], "style")
	for _, want := range []string{
		"border-top: 1pt solid #000000",
		"border-left: none",
		"padding-left: 5.4pt",
		"vertical-align: middle",
		"background-color: #D9E2F3",
	} {
		if !strings.Contains(cs, want) {
			t.Errorf("cell style %q missing %q", cs, want)
		}
	}
	if got := getTextContent(tds[3]); got != "\u00a0" {
		t.Errorf("empty cell text = %q, want a non-breaking space", got)
	}
	if tr := findAll(el, "tr")[1]; getAttr(tr, "style") != "height: 20pt" {
		t.Errorf("row style = %q", getAttr(tr, "style"))
	}
}

// ============================================================================
// Links, images, notes and comments
// ============================================================================

func TestRender_Hyperlinks(t *testing.T) {
	external := &model.Hyperlink{
		Href:        "https://example.com",
		TargetFrame: "_blank",
		Children:    []model.Node{text("site", model.RunProperties{})},
	}
	internal := &model.Hyperlink{
		Anchor:   "intro",
		Children: []model.Node{text("jump", model.RunProperties{})},
	}
	both := &model.Hyperlink{
		Href:     "https://example.com/doc",
		Anchor:   "part",
		Children: []model.Node{text("deep", model.RunProperties{})},
	}

	doc := render(t, onePage(para(external, internal, both)), Parts{}, Options{})
	links := findAll(findClass(doc, "page")[0], "a")
	if len(links) != 3 {
		t.Fatalf("got %d links, want 3", len(links))
	}
	tests := []struct {
		href, target, text string
	}{
		{"https://example.com", "_blank", "site"},
		{"#intro", "", "jump"},
		{"https://example.com/doc#part", "", "deep"},
	}
	for i, tt := range tests {
		if got := getAttr(links[i], "href"); got != tt.href {
			t.Errorf("link %d href = %q, want %q", i, got, tt.href)
		}
		if got := getAttr(links[i], "target"); got != tt.target {
			t.Errorf("link %d target = %q, want %q", i, got, tt.target)
		}
		if got := getTextContent(links[i]); got != tt.text {
			t.Errorf("link %d text = %q, want %q", i, got, tt.text)
		}
	}
}

func pngData(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encoding PNG: %v", err)
	}
	return buf.Bytes()
}

func TestRender_Images(t *testing.T) {
	data := pngData(t)
	img := &model.Image{
		Path:    "word/media/image1.png",
		AltText: "chart",
		Title:   "Sales",
		Width:   144,
		Height:  72,
		Data:    data,
	}
	tiff := &model.Image{Path: "word/media/image2.tif", ContentType: "image/tiff", Data: []byte("II*\x00")}
	page := onePage(para(&model.Run{Children: []model.Node{img, tiff}}))

	tests := []struct {
		name  string
		embed bool
		want  string
	}{
		{"path", false, "word/media/image1.png"},
		{"embedded", true, "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := render(t, page, Parts{}, Options{EmbedImages: tt.embed})
			imgs := findAll(doc, "img")
			if len(imgs) != 2 {
				t.Fatalf("got %d images, want 2", len(imgs))
			}
			if got := getAttr(imgs[0], "src"); got != tt.want {
				t.Errorf("src = %.60q, want %.60q", got, tt.want)
			}
			if getAttr(imgs[0], "alt") != "chart" || getAttr(imgs[0], "title") != "Sales" {
				t.Errorf("attrs = %v", imgs[0].Attr)
			}
			if got := getAttr(imgs[0], "style"); got != "width: 144pt; height: 72pt" {
				t.Errorf("style = %q", got)
			}
			// Browsers cannot show TIFF, so it is never embedded.
			if got := getAttr(imgs[1], "src"); got != "word/media/image2.tif" {
				t.Errorf("tiff src = %q", got)
			}
		})
	}
}

func TestRender_Notes(t *testing.T) {
	parts := Parts{Notes: []*model.Note{
		{NoteType: model.Footnote, ID: "5", Children: []model.Node{para(text("first note", model.RunProperties{}))}},
		{NoteType: model.Footnote, ID: "2", Children: []model.Node{para(text("second note", model.RunProperties{}))}},
		{NoteType: model.Endnote, ID: "1", Children: []model.Node{para(text("end note", model.RunProperties{}))}},
	}}
	body := para(
		text("a", model.RunProperties{}),
		&model.Run{Children: []model.Node{&model.NoteReference{NoteType: model.Footnote, NoteID: "5"}}},
		&model.NoteReference{NoteType: model.Endnote, NoteID: "1"},
		&model.NoteReference{NoteType: model.Footnote, NoteID: "2"},
		&model.NoteReference{NoteType: model.Footnote, NoteID: "missing"},
	)

	doc := render(t, onePage(body), parts, Options{})
	refs := findClass(doc, "note-ref")
	if len(refs) != 3 {
		t.Fatalf("got %d note references, want 3", len(refs))
	}
	wantRefs := []struct{ text, href string }{
		{"1", "#footnote-5"},
		{"1", "#endnote-1"},
		{"2", "#footnote-2"},
	}
	for i, w := range wantRefs {
		a := findElement(refs[i], "a")
		if getTextContent(a) != w.text || getAttr(a, "href") != w.href {
			t.Errorf("ref %d = %q -> %q, want %q -> %q", i, getTextContent(a), getAttr(a, "href"), w.text, w.href)
		}
	}

	footnotes := findClass(doc, "footnote")
	if len(footnotes) != 2 {
		t.Fatalf("got %d footnotes, want 2", len(footnotes))
	}
	if getAttr(footnotes[0], "id") != "footnote-5" || !strings.Contains(getTextContent(footnotes[0]), "first note") {
		t.Errorf("first footnote = %q", getTextContent(footnotes[0]))
	}
	if back := findClass(footnotes[1], "note-backref"); len(back) != 1 || getAttr(back[0], "href") != "#footnote-2-ref" {
		t.Error("footnote back reference missing")
	}
	if endnotes := findClass(doc, "endnote"); len(endnotes) != 1 {
		t.Errorf("got %d endnotes, want 1", len(endnotes))
	}
}

func TestRender_CommentRanges(t *testing.T) {
	parts := Parts{Comments: []*model.Comment{
		{ID: "0", Author: "Ann", Date: "2024-01-02", Children: []model.Node{para(text("check this", model.RunProperties{}))}},
	}}
	first := para(
		text("before ", model.RunProperties{}),
		&model.CommentRangeStart{CommentID: "0"},
		text("inside", model.RunProperties{}),
	)
	second := para(
		text("still", model.RunProperties{}),
		&model.CommentRangeEnd{CommentID: "0"},
		text(" after", model.RunProperties{}),
		&model.Run{Children: []model.Node{&model.CommentReference{CommentID: "0"}}},
	)

	doc := render(t, onePage(first, second), parts, Options{})
	spans := findClass(doc, "comment")
	if len(spans) != 2 {
		t.Fatalf("got %d comment spans, want 2", len(spans))
	}
	if got := getTextContent(spans[0]); got != "inside" {
		t.Errorf("first span = %q", got)
	}
	if got := getTextContent(spans[1]); got != "still" {
		t.Errorf("reopened span = %q", got)
	}
	if got := getAttr(spans[0], "title"); got != "Ann: check this" {
		t.Errorf("title = %q", got)
	}

	refs := findClass(doc, "comment-ref")
	if len(refs) != 1 || getTextContent(refs[0]) != "[1]" {
		t.Fatal("comment reference missing")
	}
	bodies := findClass(doc, "comment-body")
	if len(bodies) != 1 || getAttr(bodies[0], "id") != "comment-0" {
		t.Fatal("comment list missing")
	}
	if got := getTextContent(findClass(bodies[0], "comment-author")[0]); got != "[1] Ann (2024-01-02)" {
		t.Errorf("author line = %q", got)
	}
}

func TestRender_NestedCommentRanges(t *testing.T) {
	p := para(
		&model.CommentRangeStart{CommentID: "a"},
		text("x", model.RunProperties{}),
		&model.CommentRangeStart{CommentID: "b"},
		text("y", model.RunProperties{}),
		&model.CommentRangeEnd{CommentID: "a"},
		text("z", model.RunProperties{}),
		&model.CommentRangeEnd{CommentID: "b"},
		text("w", model.RunProperties{}),
	)

	doc := render(t, onePage(p), Parts{}, Options{})
	var got []string
	for _, s := range findClass(doc, "comment") {
		got = append(got, getAttr(s, "data-comment-id")+"="+getTextContent(s))
	}
	want := []string{"a=xy", "b=y", "b=z"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("comment spans = %v, want %v", got, want)
	}
	if page := findClass(doc, "page")[0]; getTextContent(page) != "xyzw" {
		t.Errorf("page text = %q", getTextContent(page))
	}
}
