package folio

import (
	"archive/zip"
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

	packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
</Relationships>`

	coreXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">
  <dc:title>Quarterly Report</dc:title>
</cp:coreProperties>`

	// Three pages: the second and third paragraphs start where the saving
	// application started a new page.
	threePageBody = `
<w:p><w:r><w:t>one</w:t></w:r></w:p>
<w:p><w:r><w:lastRenderedPageBreak/><w:t>two</w:t></w:r></w:p>
<w:p><w:r><w:lastRenderedPageBreak/><w:t>three</w:t></w:r></w:p>`
)

func documentXML(body string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><w:body>` +
		body + `</w:body></w:document>`
}

func packageFiles(body string) map[string]string {
	return map[string]string{
		"[Content_Types].xml": contentTypesXML,
		"_rels/.rels":         packageRelsXML,
		"docProps/core.xml":   coreXML,
		"word/document.xml":   documentXML(body),
	}
}

func zipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func createTestDOCX(t *testing.T, body string) string {
	t.Helper()
	return writeFile(t, "test.docx", zipBytes(t, packageFiles(body)))
}

// ============================================================================
// Reading
// ============================================================================

func TestPages(t *testing.T) {
	result, warnings, err := Open(createTestDOCX(t, threePageBody)).Pages()
	if err != nil {
		t.Fatalf("Pages() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %s", FormatWarnings(warnings))
	}
	if len(result.Pages) != 3 {
		t.Fatalf("got %d pages, want 3", len(result.Pages))
	}
	for i, want := range []string{"one", "two", "three"} {
		if got := strings.TrimSpace(result.Pages[i].ExtractText()); got != want {
			t.Errorf("page %d text = %q, want %q", i+1, got, want)
		}
		if result.Pages[i].Index != i {
			t.Errorf("page %d Index = %d", i+1, result.Pages[i].Index)
		}
	}
	if result.Document.Metadata.Title != "Quarterly Report" {
		t.Errorf("title = %q", result.Document.Metadata.Title)
	}
}

func TestFromReader(t *testing.T) {
	data := zipBytes(t, packageFiles(threePageBody))
	count, err := FromReader(bytes.NewReader(data), int64(len(data))).PageCount()
	if err != nil {
		t.Fatalf("PageCount() error = %v", err)
	}
	if count != 3 {
		t.Errorf("PageCount() = %d, want 3", count)
	}
}

func TestText(t *testing.T) {
	text, _, err := Open(createTestDOCX(t, threePageBody)).Text()
	if err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	parts := strings.Split(text, "\f")
	if len(parts) != 3 {
		t.Fatalf("got %d page texts, want 3: %q", len(parts), text)
	}
	if strings.TrimSpace(parts[1]) != "two" {
		t.Errorf("second page = %q", parts[1])
	}
}

func TestOpen_NotFound(t *testing.T) {
	_, _, err := Open(filepath.Join(t.TempDir(), "missing.docx")).Pages()
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}

func TestOpen_NoFilename(t *testing.T) {
	if _, err := Open("").PageCount(); err == nil {
		t.Error("expected error for an empty filename")
	}
}

func TestOpen_NotWordDocument(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"pdf", []byte("%PDF-1.7\n%%EOF")},
		{"text", []byte("just some text")},
		{"spreadsheet", zipBytes(t, map[string]string{
			"[Content_Types].xml": `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Override PartName="/xl/workbook.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/></Types>`,
			"xl/workbook.xml":     "<workbook/>",
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Open(writeFile(t, "input.docx", tt.data)).Pages()
			if !errors.Is(err, ErrNotWordDocument) {
				t.Errorf("error = %v, want ErrNotWordDocument", err)
			}
		})
	}
}

func TestPages_ContentProblemsAreWarnings(t *testing.T) {
	files := packageFiles(`<w:p><w:r><w:t>x</w:t></w:r></w:p>`)
	files["word/styles.xml"] = "<w:styles>"

	result, warnings, err := Open(writeFile(t, "test.docx", zipBytes(t, files))).Pages()
	if err != nil {
		t.Fatalf("Pages() error = %v", err)
	}
	if len(warnings) == 0 {
		t.Error("expected a warning for the malformed styles part")
	}
	if len(result.Pages) != 1 {
		t.Errorf("got %d pages, want 1", len(result.Pages))
	}
	if !strings.Contains(FormatWarnings(warnings), "styles") {
		t.Errorf("FormatWarnings() = %q", FormatWarnings(warnings))
	}
}

// ============================================================================
// Page selection
// ============================================================================

func TestOnlyPages(t *testing.T) {
	path := createTestDOCX(t, threePageBody)

	result, _, err := Open(path).OnlyPages(3, 1, 3).Pages()
	if err != nil {
		t.Fatalf("Pages() error = %v", err)
	}
	if len(result.Pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(result.Pages))
	}
	if result.Pages[0].Index != 0 || result.Pages[1].Index != 2 {
		t.Errorf("selected indexes = %d, %d; want 0, 2", result.Pages[0].Index, result.Pages[1].Index)
	}

	result, _, err = Open(path).PageRange(2, 3).Pages()
	if err != nil {
		t.Fatalf("PageRange error = %v", err)
	}
	if len(result.Pages) != 2 || result.Pages[0].Index != 1 {
		t.Errorf("PageRange(2, 3) selected %d pages", len(result.Pages))
	}
}

func TestOnlyPages_OutOfRange(t *testing.T) {
	path := createTestDOCX(t, threePageBody)
	for _, page := range []int{0, 4, -1} {
		if _, _, err := Open(path).OnlyPages(page).Pages(); err == nil {
			t.Errorf("OnlyPages(%d) expected error", page)
		}
	}
}

func TestPageCount_IgnoresSelection(t *testing.T) {
	count, err := Open(createTestDOCX(t, threePageBody)).OnlyPages(1).PageCount()
	if err != nil {
		t.Fatalf("PageCount() error = %v", err)
	}
	if count != 3 {
		t.Errorf("PageCount() = %d, want 3", count)
	}
}

func TestConverter_Immutable(t *testing.T) {
	base := Open(createTestDOCX(t, threePageBody))
	first := base.OnlyPages(1)
	second := first.OnlyPages(2)
	_ = base.EmbedImages().Fragment().Title("x")

	if len(base.options.pages) != 0 {
		t.Errorf("base pages = %v", base.options.pages)
	}
	if len(first.options.pages) != 1 || len(second.options.pages) != 2 {
		t.Errorf("pages = %v, %v", first.options.pages, second.options.pages)
	}
	if base.options.embedImages || base.options.fragment || base.options.title != "" {
		t.Error("base options were modified")
	}
	if first.WithLogger(nil).options.logger == nil {
		t.Error("WithLogger(nil) should keep a usable logger")
	}
}

// ============================================================================
// HTML
// ============================================================================

func TestHTMLString(t *testing.T) {
	html, _, err := Open(createTestDOCX(t, threePageBody)).HTMLString()
	if err != nil {
		t.Fatalf("HTMLString() error = %v", err)
	}
	if !strings.HasPrefix(html, "<!DOCTYPE html>") {
		t.Errorf("missing doctype: %.60q", html)
	}
	if !strings.Contains(html, "<title>Quarterly Report</title>") {
		t.Error("title should default to the document title")
	}
	if got := strings.Count(html, `class="page"`); got != 3 {
		t.Errorf("got %d pages in HTML, want 3", got)
	}
}

func TestHTML_Options(t *testing.T) {
	var buf bytes.Buffer
	_, err := Open(createTestDOCX(t, threePageBody)).
		Title("Custom").
		Fragment().
		OnlyPages(2).
		HTML(&buf)
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "<html") || strings.Contains(out, "<title>") {
		t.Errorf("fragment should not contain document elements: %.80q", out)
	}
	if !strings.Contains(out, `data-page="2"`) || strings.Contains(out, ">one<") {
		t.Errorf("expected only page 2: %q", out)
	}
}

func TestHTML_Error(t *testing.T) {
	var buf bytes.Buffer
	_, err := Open(filepath.Join(t.TempDir(), "missing.docx")).HTML(&buf)
	if err == nil {
		t.Fatal("expected error")
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written on error")
	}
}

// ============================================================================
// Images
// ============================================================================

type stubDescriber struct {
	calls int
}

func (s *stubDescriber) Describe([]byte) (string, error) {
	s.calls++
	return "a grey box", nil
}

func imagePackage(t *testing.T) string {
	t.Helper()
	var img bytes.Buffer
	if err := png.Encode(&img, image.NewGray(image.Rect(0, 0, 4, 2))); err != nil {
		t.Fatalf("png: %v", err)
	}
	files := packageFiles(`<w:p><w:r><w:drawing><wp:inline xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
<wp:extent cx="50800" cy="25400"/><wp:docPr id="1" name="Picture 1"/>
<a:graphic><a:graphicData><a:blip r:embed="rId4"/></a:graphicData></a:graphic>
</wp:inline></w:drawing></w:r></w:p>`)
	files["word/_rels/document.xml.rels"] = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId4" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>
</Relationships>`
	files["word/media/image1.png"] = img.String()
	return writeFile(t, "image.docx", zipBytes(t, files))
}

func TestWithImageDescriber(t *testing.T) {
	describer := &stubDescriber{}
	html, _, err := Open(imagePackage(t)).WithImageDescriber(describer).EmbedImages().HTMLString()
	if err != nil {
		t.Fatalf("HTMLString() error = %v", err)
	}
	if describer.calls != 1 {
		t.Errorf("describer called %d times, want 1", describer.calls)
	}
	if !strings.Contains(html, `alt="a grey box"`) {
		t.Error("alt text should come from the describer")
	}
	if !strings.Contains(html, "data:image/png;base64,") {
		t.Error("image should be embedded")
	}
}

func TestImages_NotEmbeddedByDefault(t *testing.T) {
	html, _, err := Open(imagePackage(t)).HTMLString()
	if err != nil {
		t.Fatalf("HTMLString() error = %v", err)
	}
	if strings.Contains(html, "data:image") {
		t.Error("image should be referenced, not embedded")
	}
}

// ============================================================================
// Helpers
// ============================================================================

func TestMust(t *testing.T) {
	if got := Must(3, nil); got != 3 {
		t.Errorf("Must() = %d", got)
	}
	defer func() {
		if recover() == nil {
			t.Error("Must should panic on error")
		}
	}()
	Must(0, errors.New("boom"))
}

func TestMustResult(t *testing.T) {
	text := MustResult(Open(createTestDOCX(t, threePageBody)).OnlyPages(1).Text())
	if strings.TrimSpace(text) != "one" {
		t.Errorf("MustResult() = %q", text)
	}
}
