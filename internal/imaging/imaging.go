// Package imaging identifies embedded images.
//
// Documents embed pictures in many formats. Inspect sniffs the format and
// reads the pixel dimensions without decoding the whole image:
//
//	info, err := imaging.Inspect(data)
//	if errors.Is(err, imaging.ErrUnknownFormat) {
//	    // EMF, WMF and other vector formats land here.
//	}
//
// PNG, JPEG, GIF, BMP, TIFF and WebP are recognised. Of these, TIFF does
// not display in web browsers; BrowserSafe reports that.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnknownFormat is returned for data that no registered decoder accepts.
var ErrUnknownFormat = errors.New("unknown image format")

// Info describes an image.
type Info struct {
	Format      string // png, jpeg, gif, bmp, tiff, webp
	ContentType string
	Width       int // pixels
	Height      int
}

var contentTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"webp": "image/webp",
	"emf":  "image/x-emf",
	"wmf":  "image/x-wmf",
	"svg":  "image/svg+xml",
}

// Inspect sniffs the format and dimensions of an encoded image.
func Inspect(data []byte) (Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return Info{}, ErrUnknownFormat
		}
		return Info{}, fmt.Errorf("reading image header: %w", err)
	}
	return Info{
		Format:      format,
		ContentType: contentTypes[format],
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}

// ContentTypeForPath guesses a content type from a file extension. It
// returns "" for unknown extensions.
func ContentTypeForPath(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	switch ext {
	case "jpg", "jpe":
		ext = "jpeg"
	case "tif":
		ext = "tiff"
	}
	return contentTypes[ext]
}

// BrowserSafe reports whether browsers display images of the given content
// type.
func BrowserSafe(contentType string) bool {
	switch contentType {
	case "image/png", "image/jpeg", "image/gif", "image/bmp", "image/webp", "image/svg+xml":
		return true
	}
	return false
}
