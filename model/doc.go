// Package model provides the typed document tree produced from a
// word-processing package.
//
// The tree is built once by the docx package and regrouped into pages by the
// pages package. Renderers consume it; nothing here knows about XML.
//
// # Nodes
//
// Every node implements [Node]. Block nodes are:
//
//   - [Paragraph] - a paragraph with resolved properties and optional numbering
//   - [Table], [TableRow], [TableCell] - tables with row and column spans
//   - [SectionProperties] - page geometry closing a run of pages
//
// Inline nodes are [Run], [Text], [Tab], [Break], [Hyperlink], [Image],
// [Symbol], [BookmarkStart], [NoteReference] and the comment markers.
//
// # Properties
//
// Property bags ([ParagraphProperties], [RunProperties], [TableStyle], ...)
// are comparable value types. A zero field means "inherit"; [Opt] and
// [Toggle] express the same for values whose zero is meaningful. Merging
// returns a new value, so a bag taken from a catalog can be modified freely.
//
// # Pages
//
// A [Page] holds the top-level nodes rendered on it and the
// [SectionProperties] describing its geometry.
package model
