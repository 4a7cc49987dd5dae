package model

import "time"

// Document is the root of a built document tree.
type Document struct {
	Children []Node
	Notes    []*Note
	Comments []*Comment
	Metadata Metadata
}

func (*Document) Type() NodeType         { return NodeDocument }
func (d *Document) GetChildren() []Node { return d.Children }

// Metadata contains document-level information from the core properties part
type Metadata struct {
	Title          string
	Subject        string
	Creator        string
	Keywords       string
	Description    string
	LastModifiedBy string
	Revision       string
	Created        time.Time
	Modified       time.Time
}

// Note is the body of a footnote or endnote.
type Note struct {
	NoteType NoteType
	ID       string
	Children []Node
}

func (*Note) Type() NodeType         { return NodeNote }
func (n *Note) GetChildren() []Node { return n.Children }

// Comment is the body of a comment.
type Comment struct {
	ID       string
	Author   string
	Initials string
	Date     string
	Children []Node
}

func (*Comment) Type() NodeType         { return NodeComment }
func (c *Comment) GetChildren() []Node { return c.Children }

// FindNote returns the note with the given type and id, or nil.
func (d *Document) FindNote(t NoteType, id string) *Note {
	for _, n := range d.Notes {
		if n.NoteType == t && n.ID == id {
			return n
		}
	}
	return nil
}

// FindComment returns the comment with the given id, or nil.
func (d *Document) FindComment(id string) *Comment {
	for _, c := range d.Comments {
		if c.ID == id {
			return c
		}
	}
	return nil
}
