package main

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
</Relationships>`
)

// writeDOCX writes a document whose paragraphs hold texts, each on its
// own page.
func writeDOCX(t *testing.T, path string, texts ...string) {
	t.Helper()
	var body strings.Builder
	for i, text := range texts {
		brk := ""
		if i > 0 {
			brk = "<w:lastRenderedPageBreak/>"
		}
		body.WriteString(`<w:p><w:r>` + brk + `<w:t>` + text + `</w:t></w:r></w:p>`)
	}
	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body.String() +
		`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/></w:sectPr></w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"[Content_Types].xml": contentTypesXML,
		"_rels/.rels":         packageRelsXML,
		"word/document.xml":   document,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	// Write then rename, the way editors save.
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, buf.Bytes(), 0o644))
	require.NoError(t, os.Rename(tmp, path))
}

func runCLI(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func parse(t *testing.T, args ...string) (*CLI, *Global, error) {
	t.Helper()
	var cli CLI
	var out bytes.Buffer
	g := &Global{Stdout: &out, Stderr: &out, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	parser, err := newParser(&cli, g)
	require.NoError(t, err)
	_, err = parser.Parse(args)
	return &cli, g, err
}

// ============================================================================
// Commands
// ============================================================================

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "report.docx")
	writeDOCX(t, input, "first page", "second page")

	_, stderr, code := runCLI(t, "convert", input)
	require.Equal(t, 0, code, stderr)

	html, err := os.ReadFile(filepath.Join(dir, "report.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<!DOCTYPE html>")
	assert.Contains(t, string(html), "second page")
	assert.Equal(t, 2, strings.Count(string(html), `class="page"`))
}

func TestConvert_Stdout(t *testing.T) {
	input := filepath.Join(t.TempDir(), "report.docx")
	writeDOCX(t, input, "first page", "second page")

	stdout, stderr, code := runCLI(t, "convert", input, "-o", "-", "--fragment", "--pages", "2")
	require.Equal(t, 0, code, stderr)
	assert.NotContains(t, stdout, "<html")
	assert.NotContains(t, stdout, "first page")
	assert.Contains(t, stdout, "second page")
}

func TestConvert_KeepsOutputOnFailure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "notes.docx")
	require.NoError(t, os.WriteFile(input, []byte("plain text, not a package"), 0o644))
	output := filepath.Join(dir, "notes.html")
	require.NoError(t, os.WriteFile(output, []byte("previous"), 0o644))

	_, stderr, code := runCLI(t, "convert", input, "-o", output)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "not a word-processing document")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temporary output should be removed")
}

func TestConvert_MissingInput(t *testing.T) {
	_, _, code := runCLI(t, "convert", filepath.Join(t.TempDir(), "missing.docx"))
	assert.Equal(t, 2, code)
}

func TestPages(t *testing.T) {
	input := filepath.Join(t.TempDir(), "report.docx")
	writeDOCX(t, input, "first page", "second page")

	stdout, stderr, code := runCLI(t, "pages", input)
	require.Equal(t, 0, code, stderr)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "2 pages", lines[0])
	assert.Equal(t, `page 1: 612x792pt portrait, 1 paragraphs, 0 tables: "first page"`, lines[1])
	assert.Equal(t, `page 2: 612x792pt portrait, 1 paragraphs, 0 tables: "second page"`, lines[2])
}

// ============================================================================
// Configuration
// ============================================================================

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "folio.yaml")
	require.NoError(t, os.WriteFile(config, []byte(`
verbose: true
convert:
  embed_images: true
  title: From config
  pages: [1, 3]
watch:
  debounce: 2s
`), 0o644))
	input := filepath.Join(dir, "in.docx")
	writeDOCX(t, input, "x")

	cli, _, err := parse(t, "--config", config, "convert", input)
	require.NoError(t, err)
	assert.True(t, cli.Verbose)
	assert.True(t, cli.Convert.EmbedImages)
	assert.Equal(t, "From config", cli.Convert.Title)
	assert.Equal(t, []int{1, 3}, cli.Convert.Pages)

	cli, _, err = parse(t, "--config", config, "watch", input, "-o", filepath.Join(dir, "out.html"))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cli.Watch.Debounce)
}

func TestConfigFile_FlagsWin(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "folio.yaml")
	require.NoError(t, os.WriteFile(config, []byte("title: From config\n"), 0o644))
	input := filepath.Join(dir, "in.docx")
	writeDOCX(t, input, "x")

	cli, _, err := parse(t, "--config", config, "convert", input, "--title", "From flag")
	require.NoError(t, err)
	assert.Equal(t, "From flag", cli.Convert.Title)
}

func TestEnvironment(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.docx")
	writeDOCX(t, input, "x")

	t.Setenv("FOLIO_TITLE", "From env")
	t.Setenv("FOLIO_PAGES", "2,4")
	cli, _, err := parse(t, "convert", input)
	require.NoError(t, err)
	assert.Equal(t, "From env", cli.Convert.Title)
	assert.Equal(t, []int{2, 4}, cli.Convert.Pages)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, []byte("FOLIO_TEST_TITLE=from dotenv\nFOLIO_TEST_KEEP=file\n"), 0o644))
	t.Setenv("FOLIO_TEST_KEEP", "process")
	t.Cleanup(func() { os.Unsetenv("FOLIO_TEST_TITLE") })

	require.NoError(t, loadEnv(filepath.Join(dir, "missing.env"), env))
	assert.Equal(t, "from dotenv", os.Getenv("FOLIO_TEST_TITLE"))
	assert.Equal(t, "process", os.Getenv("FOLIO_TEST_KEEP"))
}

func TestLookup(t *testing.T) {
	values := map[string]any{
		"embed_images": true,
		"pages":        []any{1, 2},
		"convert":      map[string]any{"title": "x"},
		"empty":        nil,
	}
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"embed-images", "true", true},
		{"pages", "1,2", true},
		{"convert", "", false},
		{"empty", "", false},
		{"missing", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := lookup(values, tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "a b", excerpt("  a\n\tb ", 10))
	assert.Equal(t, "abc...", excerpt("abcdef", 3))
	assert.Equal(t, "", excerpt(" \n ", 3))
}

// ============================================================================
// Watch
// ============================================================================

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "live.docx")
	output := filepath.Join(dir, "live.html")
	writeDOCX(t, input, "version one")

	var logs bytes.Buffer
	g := &Global{Stdout: &logs, Stderr: &logs, Logger: slog.New(slog.NewTextHandler(&logs, nil))}
	cmd := &WatchCmd{Input: input, Output: output, Debounce: 50 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cmd.watch(ctx, g) }()

	contains := func(text string) func() bool {
		return func() bool {
			data, err := os.ReadFile(output)
			return err == nil && strings.Contains(string(data), text)
		}
	}
	require.Eventually(t, contains("version one"), 5*time.Second, 20*time.Millisecond)

	writeDOCX(t, input, "version two")
	require.Eventually(t, contains("version two"), 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
