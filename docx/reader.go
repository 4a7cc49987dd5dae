// Package docx reads word-processing (OOXML .docx) packages into document
// trees.
//
// Open locates the parts of a package through its relationships, builds
// the style and numbering catalogs, and runs a Builder over the main
// document, headers, footers, notes and comments:
//
//	pkg, err := docx.Open("report.docx", docx.Options{})
//	if err != nil {
//	    return err
//	}
//	for _, w := range pkg.Warnings {
//	    log.Println(w)
//	}
//
// Problems with content never fail a read. They are reported as warnings
// and the affected element is skipped or replaced by a default.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/tsawler/folio/diag"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/numbering"
	"github.com/tsawler/folio/styles"
	"github.com/tsawler/folio/xmlnode"
)

// ErrMissingMainDocument is returned for a package without a main document
// part.
var ErrMissingMainDocument = errors.New("could not find main document part")

const (
	contentTypesPath    = "[Content_Types].xml"
	packageRelsPath     = "_rels/.rels"
	defaultMainDocument = "word/document.xml"
	defaultCorePath     = "docProps/core.xml"
)

// Options configure a read.
type Options struct {
	Logger         *slog.Logger
	ImageDescriber ImageDescriber
}

// Package is a read word-processing package.
type Package struct {
	Document *model.Document
	// Headers and Footers map the relationship ids used by section
	// properties to the content of the referenced part.
	Headers   map[string][]model.Node
	Footers   map[string][]model.Node
	Styles    *styles.Catalog
	Numbering *numbering.Catalog
	// Warnings lists every content problem in encounter order.
	Warnings []diag.Warning
}

// Open reads the package at filename.
func Open(filename string, opts Options) (*Package, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("reading file info: %w", err)
	}
	return OpenReader(f, info.Size(), opts)
}

// OpenReader reads a package from r.
func OpenReader(r io.ReaderAt, size int64, opts Options) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	return Read(NewZipArchive(zr), opts)
}

// packageReader holds the state of one read.
type packageReader struct {
	archive  Archive
	opts     Options
	logger   *slog.Logger
	warnings []diag.Warning
}

// Read reads a package from an archive.
func Read(archive Archive, opts Options) (*Package, error) {
	pr := &packageReader{archive: archive, opts: opts, logger: opts.Logger}
	if pr.logger == nil {
		pr.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return pr.read()
}

func (pr *packageReader) read() (*Package, error) {
	if !pr.archive.Exists(contentTypesPath) {
		return nil, fmt.Errorf("missing required file: %s", contentTypesPath)
	}

	packageRels := pr.relationships(packageRelsPath)
	mainPath := findPartPath(pr.archive, packageRels, RelOfficeDocument, "", defaultMainDocument)
	if !pr.archive.Exists(mainPath) {
		return nil, ErrMissingMainDocument
	}
	mainRels := pr.relationships(relationshipsPath(mainPath))
	mainDir := path.Dir(mainPath)
	related := func(relType, name string) string {
		return findPartPath(pr.archive, mainRels, relType, mainDir, "word/"+name+".xml")
	}

	stylesRoot := pr.optionalPart(related(RelStyles, "styles"))
	st := styles.New(stylesRoot)
	pr.warn(st.Warnings)
	pr.logger.Debug("read styles",
		"paragraph", st.Value.Count(styles.Paragraph),
		"character", st.Value.Count(styles.Character),
		"table", st.Value.Count(styles.Table))

	numRoot := pr.optionalPart(related(RelNumbering, "numbering"))
	num := numbering.New(numRoot, st.Value)
	pr.warn(num.Warnings)
	pr.logger.Debug("read numbering", "lists", num.Value.Len())

	pkg := &Package{
		Styles:    st.Value,
		Numbering: num.Value,
		Headers:   make(map[string][]model.Node),
		Footers:   make(map[string][]model.Node),
	}

	data, err := pr.archive.Read(mainPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", mainPath, err)
	}
	root, err := xmlnode.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	newBuilder := func(part string, rels *Relationships) *Builder {
		return NewBuilder(Config{
			Styles:         st.Value,
			Numbering:      num.Value,
			Relationships:  rels,
			Archive:        pr.archive,
			PartDir:        path.Dir(part),
			ImageDescriber: pr.opts.ImageDescriber,
			Logger:         pr.logger,
		})
	}

	body := newBuilder(mainPath, mainRels).ReadElements(root.FirstOrEmpty("w:body").Children)
	pr.warn(body.Warnings)
	doc := &model.Document{Children: body.Value}
	pr.logger.Debug("read main document", "part", mainPath, "nodes", len(doc.Children))

	for _, part := range []struct {
		relType string
		into    map[string][]model.Node
	}{
		{RelHeader, pkg.Headers},
		{RelFooter, pkg.Footers},
	} {
		for _, rel := range mainRels.ByType(part.relType) {
			partPath := resolvePartPath(mainDir, rel.Target)
			el := pr.optionalPart(partPath)
			if el == nil {
				continue
			}
			content := newBuilder(partPath, pr.relationships(relationshipsPath(partPath))).ReadElements(el.Children)
			pr.warn(content.Warnings)
			part.into[rel.ID] = content.Value
		}
	}

	for _, notes := range []struct {
		relType, name string
		noteType      model.NoteType
	}{
		{RelFootnotes, "footnotes", model.Footnote},
		{RelEndnotes, "endnotes", model.Endnote},
	} {
		partPath := related(notes.relType, notes.name)
		el := pr.optionalPart(partPath)
		if el == nil {
			continue
		}
		res := newBuilder(partPath, pr.relationships(relationshipsPath(partPath))).ReadNotes(el, notes.noteType)
		pr.warn(res.Warnings)
		doc.Notes = append(doc.Notes, res.Value...)
	}

	commentsPath := related(RelComments, "comments")
	if el := pr.optionalPart(commentsPath); el != nil {
		res := newBuilder(commentsPath, pr.relationships(relationshipsPath(commentsPath))).ReadComments(el)
		pr.warn(res.Warnings)
		doc.Comments = res.Value
	}

	corePath := findPartPath(pr.archive, packageRels, RelCoreProperties, "", defaultCorePath)
	doc.Metadata = pr.coreProperties(corePath)

	pkg.Document = doc
	pkg.Warnings = pr.warnings
	pr.logger.Debug("read package",
		"headers", len(pkg.Headers),
		"footers", len(pkg.Footers),
		"notes", len(doc.Notes),
		"comments", len(doc.Comments),
		"warnings", len(pkg.Warnings))
	return pkg, nil
}

func (pr *packageReader) warn(ws []diag.Warning) {
	pr.warnings = append(pr.warnings, ws...)
}

// optionalPart parses a part that may be absent. A missing part yields nil
// silently; a malformed one yields nil and a warning.
func (pr *packageReader) optionalPart(name string) *xmlnode.Element {
	if name == "" || !pr.archive.Exists(name) {
		return nil
	}
	data, err := pr.archive.Read(name)
	if err != nil {
		pr.warnings = append(pr.warnings, diag.Warnf("could not read %s: %v", name, err))
		return nil
	}
	root, err := xmlnode.ParseBytes(data)
	if err != nil {
		pr.warnings = append(pr.warnings, diag.Warnf("could not parse %s: %v", name, err))
		return nil
	}
	pr.logger.Debug("read part", "part", name, "bytes", len(data))
	return root
}

// relationships reads a relationships part. A missing part yields an empty
// set.
func (pr *packageReader) relationships(name string) *Relationships {
	if !pr.archive.Exists(name) {
		return NewRelationships(nil)
	}
	data, err := pr.archive.Read(name)
	if err == nil {
		var rels *Relationships
		if rels, err = ParseRelationships(data); err == nil {
			return rels
		}
	}
	pr.warnings = append(pr.warnings, diag.Warnf("could not read %s: %v", name, err))
	return NewRelationships(nil)
}

// findPartPath returns the first existing target of relType, or fallback.
func findPartPath(archive Archive, rels *Relationships, relType, base, fallback string) string {
	for _, target := range rels.FindTargetsByType(relType) {
		p := resolvePartPath(base, target)
		if archive.Exists(p) {
			return p
		}
	}
	return fallback
}

// corePropertiesXML represents docProps/core.xml (Dublin Core metadata)
type corePropertiesXML struct {
	XMLName        xml.Name `xml:"coreProperties"`
	Title          string   `xml:"title"`
	Subject        string   `xml:"subject"`
	Creator        string   `xml:"creator"`
	Keywords       string   `xml:"keywords"`
	Description    string   `xml:"description"`
	LastModifiedBy string   `xml:"lastModifiedBy"`
	Revision       string   `xml:"revision"`
	Created        string   `xml:"created"`
	Modified       string   `xml:"modified"`
}

// coreProperties reads document metadata. Metadata is optional, so any
// failure yields empty metadata.
func (pr *packageReader) coreProperties(name string) model.Metadata {
	if !pr.archive.Exists(name) {
		return model.Metadata{}
	}
	data, err := pr.archive.Read(name)
	if err != nil {
		return model.Metadata{}
	}
	var cp corePropertiesXML
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&cp); err != nil {
		pr.logger.Debug("parsing core properties", "error", err)
		return model.Metadata{}
	}
	return model.Metadata{
		Title:          strings.TrimSpace(cp.Title),
		Subject:        strings.TrimSpace(cp.Subject),
		Creator:        strings.TrimSpace(cp.Creator),
		Keywords:       strings.TrimSpace(cp.Keywords),
		Description:    strings.TrimSpace(cp.Description),
		LastModifiedBy: strings.TrimSpace(cp.LastModifiedBy),
		Revision:       strings.TrimSpace(cp.Revision),
		Created:        parseW3CDate(cp.Created),
		Modified:       parseW3CDate(cp.Modified),
	}
}

func parseW3CDate(s string) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}
