// Package format identifies document packages before they are read.
package format

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// DOCX indicates a Word document (.docx).
	DOCX
	// DOCM indicates a macro-enabled Word document (.docm).
	DOCM
	// DOTX indicates a Word template (.dotx).
	DOTX
	// DOTM indicates a macro-enabled Word template (.dotm).
	DOTM
	// XLSX indicates an Excel workbook.
	XLSX
	// PPTX indicates a PowerPoint presentation.
	PPTX
	// ODT indicates an OpenDocument text document.
	ODT
	// PDF indicates a PDF document.
	PDF
	// HTML indicates an HTML document.
	HTML
)

var formatInfo = map[Format]struct{ name, ext string }{
	DOCX: {"DOCX", ".docx"},
	DOCM: {"DOCM", ".docm"},
	DOTX: {"DOTX", ".dotx"},
	DOTM: {"DOTM", ".dotm"},
	XLSX: {"XLSX", ".xlsx"},
	PPTX: {"PPTX", ".pptx"},
	ODT:  {"ODT", ".odt"},
	PDF:  {"PDF", ".pdf"},
	HTML: {"HTML", ".html"},
}

// String returns the string representation of the format.
func (f Format) String() string {
	if info, ok := formatInfo[f]; ok {
		return info.name
	}
	return "Unknown"
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	return formatInfo[f].ext
}

// IsWordProcessing reports whether f is a word-processing package that the
// docx reader accepts.
func (f Format) IsWordProcessing() bool {
	switch f {
	case DOCX, DOCM, DOTX, DOTM:
		return true
	}
	return false
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".htm" {
		return HTML
	}
	for f, info := range formatInfo {
		if info.ext == ext {
			return f
		}
	}
	return Unknown
}

// mainContentTypes maps the content type of the main part of an Office Open
// XML package to its format.
var mainContentTypes = map[string]Format{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml":   DOCX,
	"application/vnd.ms-word.document.macroEnabled.main+xml":                             DOCM,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.template.main+xml":   DOTX,
	"application/vnd.ms-word.template.macroEnabledTemplate.main+xml":                     DOTM,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml":         XLSX,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml": PPTX,
}

// DetectFromMagic checks file magic bytes to determine format.
// Returns Unknown for ZIP archives, which need DetectFromReader.
func DetectFromMagic(data []byte) Format {
	switch {
	case len(data) < 4:
		return Unknown
	case isPDF(data):
		return PDF
	case isZIP(data):
		return Unknown
	case detectHTMLMagic(data):
		return HTML
	}
	return Unknown
}

func isPDF(data []byte) bool {
	return len(data) >= 4 && string(data[:4]) == "%PDF"
}

func isZIP(data []byte) bool {
	return len(data) >= 4 && string(data[:4]) == "PK\x03\x04"
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	upper := strings.ToUpper(strings.TrimLeft(string(data), " \t\r\n"))
	switch {
	case strings.HasPrefix(upper, "<!DOCTYPE HTML"), strings.HasPrefix(upper, "<HTML"):
		return true
	case strings.HasPrefix(upper, "<?XML"):
		// XHTML
		return strings.Contains(upper[:min(500, len(upper))], "<HTML")
	}
	return false
}

// DetectFromReader inspects the content to determine format. ZIP packages
// are told apart by the content type of their main part.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 512)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, fmt.Errorf("reading header: %w", err)
	}
	magic = magic[:n]

	if isZIP(magic) {
		return detectZIPFormat(r, size)
	}
	return DetectFromMagic(magic), nil
}

type contentTypes struct {
	Overrides []struct {
		PartName    string `xml:"PartName,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Override"`
}

// detectZIPFormat inspects a ZIP archive to determine its format.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, fmt.Errorf("opening ZIP archive: %w", err)
	}

	var hasWord, hasXL, hasPPT bool
	for _, f := range zr.File {
		switch {
		case f.Name == "mimetype":
			if mime, err := readSmall(f, 256); err == nil && strings.Contains(mime, "application/vnd.oasis.opendocument.text") {
				return ODT, nil
			}
		case strings.EqualFold(f.Name, "[Content_Types].xml"):
			data, err := readSmall(f, 1<<20)
			if err != nil {
				continue
			}
			var ct contentTypes
			if xml.Unmarshal([]byte(data), &ct) != nil {
				continue
			}
			for _, o := range ct.Overrides {
				if format, ok := mainContentTypes[o.ContentType]; ok {
					return format, nil
				}
			}
		case strings.HasPrefix(f.Name, "word/"):
			hasWord = true
		case strings.HasPrefix(f.Name, "xl/"):
			hasXL = true
		case strings.HasPrefix(f.Name, "ppt/"):
			hasPPT = true
		}
	}

	// Packages without a recognised main content type fall back to their
	// folder layout.
	switch {
	case hasWord:
		return DOCX, nil
	case hasXL:
		return XLSX, nil
	case hasPPT:
		return PPTX, nil
	}
	return Unknown, nil
}

func readSmall(f *zip.File, limit int64) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, limit))
	return string(data), err
}
