package htmldoc

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/numbering"
)

// Options configure rendering.
type Options struct {
	// EmbedImages writes image data into the page as data URIs. Otherwise
	// images refer to their part name inside the package.
	EmbedImages bool
	// Title is the content of the title element.
	Title string
	// Fragment omits the doctype, html, head and body elements.
	Fragment bool
	Logger   *slog.Logger
}

// Parts is the content that pages refer to outside the body.
type Parts struct {
	// Headers and Footers are keyed by the relationship ids that section
	// properties use.
	Headers  map[string][]model.Node
	Footers  map[string][]model.Node
	Notes    []*model.Note
	Comments []*model.Comment
}

// DefaultSection is the geometry of pages outside any section: US Letter
// with one-inch margins.
var DefaultSection = model.SectionProperties{
	PageWidth:   612,
	PageHeight:  792,
	Orientation: "portrait",
	Margins: model.PageMargins{
		Top: 72, Bottom: 72, Left: 72, Right: 72,
		Header: 36, Footer: 36,
	},
	Columns: 1,
}

const stylesheet = `
body { background-color: #E8E8E8; margin: 0; padding: 10px 0; }
.page { position: relative; box-sizing: border-box; margin: 0 auto 10px; overflow: hidden; background-color: #FFFFFF; border: 1px solid #C8C8C8; font-family: 'Times New Roman', serif; }
.page h1, .page h2, .page h3, .page h4, .page h5, .page h6 { font-size: inherit; font-weight: inherit; margin: 0; }
.header, .footer { position: absolute; }
.list-label { display: inline-block; text-indent: 0; }
.comment { background-color: #FFF2A8; }
.notes, .comments { max-width: 612pt; margin: 0 auto 10px; padding: 12pt; background-color: #FFFFFF; border: 1px solid #C8C8C8; }
`

// Render writes pages as an HTML document. Numbering labels, note numbers
// and comment numbers start afresh on every call.
func Render(w io.Writer, pages []*model.Page, parts Parts, opts Options) error {
	r := newRenderer(parts, opts)
	if err := html.Render(w, r.document(pages)); err != nil {
		return fmt.Errorf("writing HTML: %w", err)
	}
	return nil
}

type noteKey struct {
	noteType model.NoteType
	id       string
}

// renderer holds the state of one Render call.
type renderer struct {
	parts  Parts
	opts   Options
	logger *slog.Logger

	counters *numbering.Counters
	upper    cases.Caser

	notes       map[noteKey]*model.Note
	noteNumbers map[noteKey]int
	noteOrder   []noteKey
	lastNote    map[model.NoteType]int

	comments       map[string]*model.Comment
	commentNumbers map[string]int

	// open lists comment ranges that are still open, outermost first.
	open []string
}

func newRenderer(parts Parts, opts Options) *renderer {
	r := &renderer{
		parts:          parts,
		opts:           opts,
		logger:         opts.Logger,
		counters:       numbering.NewCounters(),
		upper:          cases.Upper(language.Und),
		notes:          make(map[noteKey]*model.Note, len(parts.Notes)),
		noteNumbers:    make(map[noteKey]int),
		lastNote:       make(map[model.NoteType]int),
		comments:       make(map[string]*model.Comment, len(parts.Comments)),
		commentNumbers: make(map[string]int, len(parts.Comments)),
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	for _, n := range parts.Notes {
		r.notes[noteKey{n.NoteType, n.ID}] = n
	}
	for i, c := range parts.Comments {
		r.comments[c.ID] = c
		r.commentNumbers[c.ID] = i + 1
	}
	return r
}

func (r *renderer) document(pages []*model.Page) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	body := doc
	if !r.opts.Fragment {
		doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
		root := element(atom.Html)
		head := element(atom.Head)
		head.AppendChild(element(atom.Meta, "charset", "utf-8"))
		title := element(atom.Title)
		appendText(title, r.opts.Title)
		head.AppendChild(title)
		css := element(atom.Style)
		appendText(css, stylesheet)
		head.AppendChild(css)
		root.AppendChild(head)
		body = element(atom.Body)
		root.AppendChild(body)
		doc.AppendChild(root)
	}

	for _, p := range pages {
		body.AppendChild(r.page(p))
		r.logger.Debug("rendered page", "index", p.Index, "nodes", len(p.Children))
	}
	if notes := r.notesSection(); notes != nil {
		body.AppendChild(notes)
	}
	if comments := r.commentsSection(); comments != nil {
		body.AppendChild(comments)
	}
	return doc
}

// page renders one page. A page without section properties uses
// DefaultSection.
func (r *renderer) page(p *model.Page) *html.Node {
	sec := p.Section
	if sec == nil {
		sec = &DefaultSection
	}
	div := element(atom.Div, "class", "page", "data-page", strconv.Itoa(p.Index+1))
	setStyle(div, pageStyle(sec))

	if content, ok := r.parts.Headers[p.HeaderID()]; ok {
		header := element(atom.Div, "class", "header")
		setStyle(header, declarations{
			"top: " + pt(sec.Margins.Header),
			"left: " + pt(sec.Margins.Left),
			"right: " + pt(sec.Margins.Right),
		})
		r.blocks(header, content)
		div.AppendChild(header)
	}

	r.blocks(div, p.Children)

	if content, ok := r.parts.Footers[p.FooterID()]; ok {
		footer := element(atom.Div, "class", "footer")
		setStyle(footer, declarations{
			"bottom: " + pt(sec.Margins.Footer),
			"left: " + pt(sec.Margins.Left),
			"right: " + pt(sec.Margins.Right),
		})
		r.blocks(footer, content)
		div.AppendChild(footer)
	}
	return div
}

// notesSection lists every note referenced so far, footnotes before
// endnotes. Notes referenced from other notes are appended as they are
// found.
func (r *renderer) notesSection() *html.Node {
	if len(r.noteOrder) == 0 {
		return nil
	}
	lists := map[model.NoteType]*html.Node{
		model.Footnote: element(atom.Div, "class", "footnotes"),
		model.Endnote:  element(atom.Div, "class", "endnotes"),
	}
	for i := 0; i < len(r.noteOrder); i++ {
		key := r.noteOrder[i]
		note := r.notes[key]
		number := strconv.Itoa(r.noteNumbers[key])

		div := element(atom.Div, "class", key.noteType.String(), "id", noteAnchor(key))
		back := element(atom.A, "class", "note-backref", "href", "#"+noteAnchor(key)+"-ref")
		appendText(back, number)
		div.AppendChild(back)
		r.blocks(div, note.Children)
		lists[key.noteType].AppendChild(div)
	}

	section := element(atom.Section, "class", "notes")
	for _, t := range []model.NoteType{model.Footnote, model.Endnote} {
		if lists[t].FirstChild != nil {
			section.AppendChild(lists[t])
		}
	}
	return section
}

func (r *renderer) commentsSection() *html.Node {
	if len(r.parts.Comments) == 0 {
		return nil
	}
	section := element(atom.Section, "class", "comments")
	for _, c := range r.parts.Comments {
		div := element(atom.Div, "class", "comment-body", "id", "comment-"+c.ID)
		author := element(atom.Div, "class", "comment-author")
		label := "[" + strconv.Itoa(r.commentNumbers[c.ID]) + "]"
		if c.Author != "" {
			label += " " + c.Author
		}
		if c.Date != "" {
			label += " (" + c.Date + ")"
		}
		appendText(author, label)
		div.AppendChild(author)
		r.blocks(div, c.Children)
		section.AppendChild(div)
	}
	return section
}

func noteAnchor(k noteKey) string {
	return k.noteType.String() + "-" + k.id
}

// noteNumber returns the display number of a referenced note, assigning
// the next number of its type on first reference. It returns 0 for notes
// missing from Parts.
func (r *renderer) noteNumber(k noteKey) int {
	if n, ok := r.noteNumbers[k]; ok {
		return n
	}
	if _, ok := r.notes[k]; !ok {
		return 0
	}
	r.lastNote[k.noteType]++
	n := r.lastNote[k.noteType]
	r.noteNumbers[k] = n
	r.noteOrder = append(r.noteOrder, k)
	return n
}
