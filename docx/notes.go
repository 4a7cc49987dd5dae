package docx

import (
	"strings"

	"github.com/tsawler/folio/diag"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/xmlnode"
)

// ReadNotes reads the bodies of a footnotes or endnotes part. Separator
// notes are skipped.
func (b *Builder) ReadNotes(root *xmlnode.Element, t model.NoteType) diag.Result[[]*model.Note] {
	name := "w:footnote"
	if t == model.Endnote {
		name = "w:endnote"
	}
	var notes []*model.Note
	var warnings []diag.Warning
	for _, el := range root.ChildElements() {
		if el.Name != name {
			continue
		}
		switch el.Attr("w:type") {
		case "separator", "continuationSeparator", "continuationNotice":
			continue
		}
		body := b.ReadElements(el.Children)
		warnings = append(warnings, body.Warnings...)
		notes = append(notes, &model.Note{NoteType: t, ID: el.Attr("w:id"), Children: body.Value})
	}
	return diag.WithWarnings(notes, warnings...)
}

// ReadComments reads the bodies of a comments part.
func (b *Builder) ReadComments(root *xmlnode.Element) diag.Result[[]*model.Comment] {
	var comments []*model.Comment
	var warnings []diag.Warning
	for _, el := range root.ChildElements() {
		if el.Name != "w:comment" {
			continue
		}
		body := b.ReadElements(el.Children)
		warnings = append(warnings, body.Warnings...)
		comments = append(comments, &model.Comment{
			ID:       el.Attr("w:id"),
			Author:   strings.TrimSpace(el.Attr("w:author")),
			Initials: strings.TrimSpace(el.Attr("w:initials")),
			Date:     strings.TrimSpace(el.Attr("w:date")),
			Children: body.Value,
		})
	}
	return diag.WithWarnings(comments, warnings...)
}
