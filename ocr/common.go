package ocr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/folio/internal/imaging"
)

// ErrOCRNotEnabled is returned when OCR functions are called but OCR support
// was not compiled in. Rebuild with -tags ocr to enable OCR support.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// PageSegMode represents page segmentation modes for OCR.
// These control how Tesseract analyzes the image layout.
type PageSegMode int

// Page segmentation modes, matching Tesseract's numbering.
const (
	PSM_OSD_ONLY               PageSegMode = 0  // Orientation and script detection only
	PSM_AUTO_OSD               PageSegMode = 1  // Automatic with OSD
	PSM_AUTO_ONLY              PageSegMode = 2  // Automatic, no OSD or OCR
	PSM_AUTO                   PageSegMode = 3  // Fully automatic (default)
	PSM_SINGLE_COLUMN          PageSegMode = 4  // Single column of variable sizes
	PSM_SINGLE_BLOCK_VERT_TEXT PageSegMode = 5  // Single uniform block of vertically aligned text
	PSM_SINGLE_BLOCK           PageSegMode = 6  // Single uniform block of text
	PSM_SINGLE_LINE            PageSegMode = 7  // Single text line
	PSM_SINGLE_WORD            PageSegMode = 8  // Single word
	PSM_CIRCLE_WORD            PageSegMode = 9  // Single word in a circle
	PSM_SINGLE_CHAR            PageSegMode = 10 // Single character
	PSM_SPARSE_TEXT            PageSegMode = 11 // Find as much text as possible
	PSM_SPARSE_TEXT_OSD        PageSegMode = 12 // Sparse text with OSD
	PSM_RAW_LINE               PageSegMode = 13 // Treat image as single text line
)

// ParsePageSegMode maps a mode name such as "sparse-text" or
// "single-block", or a mode number, to its value.
func ParsePageSegMode(name string) (PageSegMode, bool) {
	if mode, ok := pageSegModeNames[name]; ok {
		return mode, true
	}
	n, err := strconv.Atoi(name)
	if err != nil || n < int(PSM_OSD_ONLY) || n > int(PSM_RAW_LINE) {
		return 0, false
	}
	return PageSegMode(n), true
}

var pageSegModeNames = map[string]PageSegMode{
	"auto":          PSM_AUTO,
	"auto-osd":      PSM_AUTO_OSD,
	"single-column": PSM_SINGLE_COLUMN,
	"single-block":  PSM_SINGLE_BLOCK,
	"single-line":   PSM_SINGLE_LINE,
	"single-word":   PSM_SINGLE_WORD,
	"sparse-text":   PSM_SPARSE_TEXT,
	"raw-line":      PSM_RAW_LINE,
}

// Options configure a Client. Zero fields take the values of
// DefaultOptions.
type Options struct {
	// Language is one or more Tesseract languages joined by "+", such as
	// "eng+fra".
	Language string
	Mode     PageSegMode
	// MaxLength bounds the description in runes. Longer text is cut at a
	// word boundary and marked with an ellipsis.
	MaxLength int
	// MinSize is the smallest width and height, in pixels, worth reading.
	// Smaller images (bullets, spacers, icons) get no description.
	MinSize int
}

// DefaultOptions returns the options used for zero fields.
func DefaultOptions() Options {
	return Options{
		Language:  "eng",
		Mode:      PSM_AUTO,
		MaxLength: 250,
		MinSize:   16,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Language == "" {
		o.Language = d.Language
	}
	if o.Mode == 0 {
		o.Mode = d.Mode
	}
	if o.MaxLength <= 0 {
		o.MaxLength = d.MaxLength
	}
	if o.MinSize <= 0 {
		o.MinSize = d.MinSize
	}
	return o
}

// readable reports whether an image is worth passing to the engine.
// Formats the engine cannot read are an error.
func readable(data []byte, minSize int) (bool, error) {
	info, err := imaging.Inspect(data)
	if err != nil {
		return false, fmt.Errorf("inspecting image: %w", err)
	}
	return info.Width >= minSize && info.Height >= minSize, nil
}

// tidy turns recognised text into a single line of at most limit runes.
func tidy(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}
