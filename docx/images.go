package docx

import (
	"errors"
	"strconv"
	"strings"

	"github.com/tsawler/folio/diag"
	"github.com/tsawler/folio/internal/imaging"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/xmlnode"
)

// emuPerPoint converts DrawingML English Metric Units to points.
const emuPerPoint = 12700

// readDrawingObject reads wp:inline and wp:anchor. Pictures become images;
// text boxes surface their paragraphs to the enclosing paragraph.
func (b *Builder) readDrawingObject(el *xmlnode.Element) readResult {
	docPr := el.FirstOrEmpty("wp:docPr")
	alt := strings.TrimSpace(docPr.Attr("descr"))
	if alt == "" {
		alt = strings.TrimSpace(docPr.Attr("title"))
	}
	extent := el.FirstOrEmpty("wp:extent")
	width := emuToPoints(extent.Attr("cx"))
	height := emuToPoints(extent.Attr("cy"))

	var out readResult
	for _, blip := range el.ElementsByTagName("a:blip") {
		img := &model.Image{AltText: alt, Title: docPr.Attr("title"), Width: width, Height: height}
		if embed := blip.Attr("r:embed"); embed != "" {
			target := b.rels.FindTargetByRelationshipID(embed)
			img.Path = resolvePartPath(b.partDir, target)
			out.warnings = append(out.warnings, b.loadImage(img)...)
		} else if link := blip.Attr("r:link"); link != "" {
			img.Path = b.rels.FindTargetByRelationshipID(link)
			img.ContentType = imaging.ContentTypeForPath(img.Path)
		} else {
			continue
		}
		out.nodes = append(out.nodes, img)
	}

	for _, box := range el.ElementsByTagName("w:txbxContent") {
		out.append(b.readChildren(box.Children).toExtra())
	}
	return out
}

func (b *Builder) readImageData(el *xmlnode.Element) readResult {
	relID := el.Attr("r:id")
	if relID == "" {
		return warningResult(diag.Warnf("A v:imagedata element without a relationship ID was ignored"))
	}
	target := b.rels.FindTargetByRelationshipID(relID)
	img := &model.Image{
		Path:    resolvePartPath(b.partDir, target),
		AltText: el.Attr("o:title"),
		Title:   el.Attr("o:title"),
	}
	warnings := b.loadImage(img)
	return readResult{nodes: []model.Node{img}, warnings: warnings}
}

// loadImage reads the image bytes from the archive, fills in the content
// type and pixel size, and asks the describer for alt text when there is
// none.
func (b *Builder) loadImage(img *model.Image) []diag.Warning {
	img.ContentType = imaging.ContentTypeForPath(img.Path)
	if b.archive == nil {
		return nil
	}
	data, err := b.archive.Read(img.Path)
	if err != nil {
		return []diag.Warning{diag.Warnf("could not read image %s: %v", img.Path, err)}
	}
	img.Data = data

	var warnings []diag.Warning
	info, err := imaging.Inspect(data)
	switch {
	case err == nil:
		img.ContentType = info.ContentType
		img.PixelWidth = info.Width
		img.PixelHeight = info.Height
	case errors.Is(err, imaging.ErrUnknownFormat):
	default:
		warnings = append(warnings, diag.Warnf("could not read image %s: %v", img.Path, err))
	}
	if !imaging.BrowserSafe(img.ContentType) {
		contentType := img.ContentType
		if contentType == "" {
			contentType = "(unknown)"
		}
		warnings = append(warnings, diag.Warnf("Image of type %s is unlikely to display in web browsers", contentType))
	}

	if img.AltText == "" && b.describer != nil {
		alt, err := b.describer.Describe(data)
		if err != nil {
			b.logger.Debug("describing image", "path", img.Path, "error", err)
		} else {
			img.AltText = strings.TrimSpace(alt)
		}
	}
	return warnings
}

func emuToPoints(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v / emuPerPoint
}
