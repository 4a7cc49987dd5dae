package htmldoc

import (
	"encoding/base64"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/folio/internal/imaging"
	"github.com/tsawler/folio/model"
)

// inline renders paragraph content into el. Comment ranges wrap the
// content they cover in span.comment; a range still open at the end of a
// paragraph is reopened at the start of the next one.
func (r *renderer) inline(el *html.Node, nodes []model.Node) {
	target := el
	var ids []string
	var spans []*html.Node
	push := func(id string) {
		span := r.commentSpan(id)
		target.AppendChild(span)
		target = span
		ids = append(ids, id)
		spans = append(spans, span)
	}
	for _, id := range r.open {
		push(id)
	}

	for _, n := range nodes {
		switch v := n.(type) {
		case *model.CommentRangeStart:
			r.open = append(r.open, v.CommentID)
			push(v.CommentID)
		case *model.CommentRangeEnd:
			r.closeComment(v.CommentID)
			i := slices.Index(ids, v.CommentID)
			if i < 0 {
				continue
			}
			// Close the range and reopen the ranges nested inside it.
			reopen := slices.Clone(ids[i+1:])
			target = spans[i].Parent
			ids, spans = ids[:i], spans[:i]
			for _, id := range reopen {
				push(id)
			}
		default:
			r.inlineNode(target, n)
		}
	}
}

func (r *renderer) closeComment(id string) {
	if i := slices.Index(r.open, id); i >= 0 {
		r.open = slices.Delete(r.open, i, i+1)
	}
}

func (r *renderer) commentSpan(id string) *html.Node {
	span := element(atom.Span, "class", "comment", "data-comment-id", id)
	if c, ok := r.comments[id]; ok {
		title := model.TextOfAll(c.Children)
		if c.Author != "" {
			title = c.Author + ": " + title
		}
		setAttr(span, "title", strings.TrimRight(title, "\n"))
	}
	return span
}

// inlineNode renders one child of a paragraph or hyperlink.
func (r *renderer) inlineNode(parent *html.Node, n model.Node) {
	switch v := n.(type) {
	case *model.Run:
		r.run(parent, v)
	case *model.Hyperlink:
		parent.AppendChild(r.hyperlink(v))
	case *model.BookmarkStart:
		parent.AppendChild(element(atom.A, "id", v.Name))
	case *model.NoteReference:
		r.noteReference(parent, v)
	case *model.CommentReference:
		r.commentReference(parent, v)
	case *model.CommentRangeStart:
		// Ranges opening inside a hyperlink start at the next paragraph.
		r.open = append(r.open, v.CommentID)
	case *model.CommentRangeEnd:
		r.closeComment(v.CommentID)
	case *model.Text, *model.Tab, *model.Break, *model.Symbol, *model.Image:
		r.runContent(parent, n, model.RunProperties{})
	}
}

func (r *renderer) run(parent *html.Node, run *model.Run) {
	props := run.Properties
	if props.Hidden == model.On {
		return
	}
	span := element(atom.Span)
	setStyle(span, runStyle(props))
	parent.AppendChild(span)

	target := span
	switch props.VerticalAlign {
	case "superscript":
		target = element(atom.Sup)
		span.AppendChild(target)
	case "subscript":
		target = element(atom.Sub)
		span.AppendChild(target)
	}
	for _, c := range run.Children {
		r.runContent(target, c, props)
	}
}

func (r *renderer) runContent(parent *html.Node, n model.Node, props model.RunProperties) {
	switch v := n.(type) {
	case *model.Text:
		text := v.Value
		if props.Caps == model.On {
			text = r.upper.String(text)
		}
		appendText(parent, text)
	case *model.Tab:
		tab := element(atom.Span, "class", "tab", "style", "white-space: pre")
		appendText(tab, "\t")
		parent.AppendChild(tab)
	case *model.Break:
		br := element(atom.Br)
		if v.BreakType != model.BreakLine {
			setAttr(br, "class", v.BreakType.String()+"-break")
		}
		parent.AppendChild(br)
	case *model.Symbol:
		sym := element(atom.Span, "class", "symbol")
		if v.Font != "" {
			setAttr(sym, "style", "font-family: '"+v.Font+"'")
		}
		appendText(sym, string(v.Char))
		parent.AppendChild(sym)
	case *model.Image:
		parent.AppendChild(r.image(v))
	default:
		r.inlineNode(parent, n)
	}
}

func (r *renderer) hyperlink(h *model.Hyperlink) *html.Node {
	a := element(atom.A)
	href := h.Href
	if h.Anchor != "" {
		href += "#" + h.Anchor
	}
	if href != "" {
		setAttr(a, "href", href)
	}
	if h.TargetFrame != "" {
		setAttr(a, "target", h.TargetFrame)
	}
	for _, c := range h.Children {
		r.inlineNode(a, c)
	}
	return a
}

// image renders a picture. Data is embedded only when browsers can show
// it; other pictures fall back to their part name.
func (r *renderer) image(img *model.Image) *html.Node {
	el := element(atom.Img, "alt", img.AltText)
	src := img.Path
	if r.opts.EmbedImages && len(img.Data) > 0 {
		contentType := img.ContentType
		if contentType == "" {
			if info, err := imaging.Inspect(img.Data); err == nil {
				contentType = info.ContentType
			}
		}
		if imaging.BrowserSafe(contentType) {
			src = "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
		} else {
			r.logger.Debug("image not embedded", "path", img.Path, "contentType", contentType)
		}
	}
	setAttr(el, "src", src)
	if img.Title != "" {
		setAttr(el, "title", img.Title)
	}

	var d declarations
	if img.Width > 0 {
		d.add("width", pt(img.Width))
	}
	if img.Height > 0 {
		d.add("height", pt(img.Height))
	}
	setStyle(el, d)
	return el
}

func (r *renderer) noteReference(parent *html.Node, ref *model.NoteReference) {
	key := noteKey{ref.NoteType, ref.NoteID}
	number := r.noteNumber(key)
	if number == 0 {
		return
	}
	sup := element(atom.Sup, "class", "note-ref")
	a := element(atom.A, "id", noteAnchor(key)+"-ref", "href", "#"+noteAnchor(key))
	appendText(a, strconv.Itoa(number))
	sup.AppendChild(a)
	parent.AppendChild(sup)
}

func (r *renderer) commentReference(parent *html.Node, ref *model.CommentReference) {
	number, ok := r.commentNumbers[ref.CommentID]
	if !ok {
		return
	}
	sup := element(atom.Sup, "class", "comment-ref")
	a := element(atom.A, "href", "#comment-"+ref.CommentID)
	appendText(a, "["+strconv.Itoa(number)+"]")
	sup.AppendChild(a)
	parent.AppendChild(sup)
}
