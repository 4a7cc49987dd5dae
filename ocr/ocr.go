//go:build ocr

// Package ocr describes pictures by recognising the text in them.
//
// Scanned pages, screenshots and charts embedded in documents often carry
// no alternative text. A Client reads the text in such an image so that it
// can stand in for the missing description:
//
//	client, err := ocr.New(ocr.Options{Language: "eng+deu"})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//	html, _, err := folio.Open("scan.docx").WithImageDescriber(client).HTMLString()
//
// This package wraps the Tesseract OCR engine via gosseract. It requires
// Tesseract to be installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"errors"
	"fmt"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

var errClosed = errors.New("ocr: client closed")

// Client wraps Tesseract for OCR operations. It is safe for concurrent use.
type Client struct {
	mu     sync.Mutex
	client *gosseract.Client
	opts   Options
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New(opts Options) (*Client, error) {
	opts = opts.withDefaults()
	client := gosseract.NewClient()
	if err := client.SetLanguage(opts.Language); err != nil {
		client.Close()
		return nil, fmt.Errorf("setting language %q: %w", opts.Language, err)
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(opts.Mode)); err != nil {
		client.Close()
		return nil, fmt.Errorf("setting page segmentation mode: %w", err)
	}
	return &Client{client: client, opts: opts}, nil
}

// Close releases OCR resources. Closing twice is safe.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// Describe recognises the text in an encoded image and returns it on a
// single line. Images smaller than Options.MinSize yield "".
func (c *Client) Describe(imageData []byte) (string, error) {
	ok, err := readable(imageData, c.opts.MinSize)
	if err != nil || !ok {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return "", errClosed
	}

	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return tidy(text, c.opts.MaxLength), nil
}
