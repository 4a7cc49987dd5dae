package docx

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrPartNotFound is returned by Archive.Read for a missing part.
var ErrPartNotFound = errors.New("part not found")

// Archive gives access to the parts of a package by name.
type Archive interface {
	Exists(name string) bool
	Read(name string) ([]byte, error)
}

// zipArchive is an Archive over a zip file.
type zipArchive struct {
	files map[string]*zip.File
}

// NewZipArchive returns an Archive over the files of zr. Part names are
// matched case-insensitively, as OPC requires.
func NewZipArchive(zr *zip.Reader) Archive {
	a := &zipArchive{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		a.files[strings.ToLower(f.Name)] = f
	}
	return a
}

func (a *zipArchive) Exists(name string) bool {
	_, ok := a.files[strings.ToLower(name)]
	return ok
}

// Read reads the content of a file from the ZIP archive.
func (a *zipArchive) Read(name string) ([]byte, error) {
	f, ok := a.files[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
