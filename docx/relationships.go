package docx

import (
	"encoding/xml"
	"fmt"
	"path"
	"strings"
)

// Relationship types used by word-processing packages.
const (
	relTypePrefix      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"
	RelOfficeDocument  = relTypePrefix + "officeDocument"
	RelStyles          = relTypePrefix + "styles"
	RelNumbering       = relTypePrefix + "numbering"
	RelFootnotes       = relTypePrefix + "footnotes"
	RelEndnotes        = relTypePrefix + "endnotes"
	RelComments        = relTypePrefix + "comments"
	RelHeader          = relTypePrefix + "header"
	RelFooter          = relTypePrefix + "footer"
	RelImage           = relTypePrefix + "image"
	RelHyperlink       = relTypePrefix + "hyperlink"
	RelCoreProperties  = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	strictTypePrefix   = "http://purl.oclc.org/ooxml/officeDocument/relationships/"
	targetModeExternal = "External"
)

// relationshipsXML represents _rels/*.rels files
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

// relationshipXML represents a single relationship.
type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"` // External or empty (internal)
}

// Relationship is one entry of a relationships part.
type Relationship struct {
	ID       string
	Type     string
	Target   string
	External bool
}

// Relationships resolves the relationship ids used by one part. A nil
// *Relationships resolves nothing.
type Relationships struct {
	byID map[string]Relationship
	all  []Relationship
}

// ParseRelationships parses a relationships part.
func ParseRelationships(data []byte) (*Relationships, error) {
	var rx relationshipsXML
	if err := xml.Unmarshal(data, &rx); err != nil {
		return nil, fmt.Errorf("unmarshaling relationships: %w", err)
	}
	rels := make([]Relationship, 0, len(rx.Relationships))
	for _, r := range rx.Relationships {
		rels = append(rels, Relationship{
			ID:       r.ID,
			Type:     normalizeRelType(r.Type),
			Target:   r.Target,
			External: r.TargetMode == targetModeExternal,
		})
	}
	return NewRelationships(rels), nil
}

// NewRelationships indexes a list of relationships. Later duplicates of an
// id win.
func NewRelationships(rels []Relationship) *Relationships {
	r := &Relationships{byID: make(map[string]Relationship, len(rels)), all: rels}
	for _, rel := range rels {
		r.byID[rel.ID] = rel
	}
	return r
}

// normalizeRelType maps Strict OOXML relationship types onto their
// transitional equivalents.
func normalizeRelType(t string) string {
	if rest, ok := strings.CutPrefix(t, strictTypePrefix); ok {
		return relTypePrefix + rest
	}
	return t
}

// FindTargetByRelationshipID returns the target of a relationship, or ""
// when the id is unknown.
func (r *Relationships) FindTargetByRelationshipID(id string) string {
	if r == nil {
		return ""
	}
	return r.byID[id].Target
}

// FindTargetsByType returns the targets of every relationship of a type in
// declaration order.
func (r *Relationships) FindTargetsByType(relType string) []string {
	var targets []string
	for _, rel := range r.ByType(relType) {
		targets = append(targets, rel.Target)
	}
	return targets
}

// ByType returns every relationship of a type in declaration order.
func (r *Relationships) ByType(relType string) []Relationship {
	if r == nil {
		return nil
	}
	var out []Relationship
	for _, rel := range r.all {
		if rel.Type == relType {
			out = append(out, rel)
		}
	}
	return out
}

// Len returns the number of relationships.
func (r *Relationships) Len() int {
	if r == nil {
		return 0
	}
	return len(r.all)
}

// resolvePartPath resolves a relationship target against the directory of
// the part that declared it. Absolute targets are relative to the package
// root.
func resolvePartPath(base, target string) string {
	if target == "" {
		return ""
	}
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(base, target)
}

// relationshipsPath returns the relationships part of a part:
// word/document.xml -> word/_rels/document.xml.rels.
func relationshipsPath(part string) string {
	dir, name := path.Split(part)
	return dir + "_rels/" + name + ".rels"
}
