//go:build !ocr

// Package ocr describes pictures by recognising the text in them.
//
// This build has no OCR engine: New returns ErrOCRNotEnabled. Rebuild
// with the "ocr" build tag to use Tesseract:
//
//	go build -tags ocr ./cmd/folio
package ocr

// Client stands in for the Tesseract client in builds without OCR.
type Client struct{}

// New reports that OCR support is not compiled in.
func New(Options) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close does nothing. It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// Describe always fails with ErrOCRNotEnabled.
func (c *Client) Describe([]byte) (string, error) {
	return "", ErrOCRNotEnabled
}
