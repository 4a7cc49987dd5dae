// Command folio converts Word documents to paginated HTML.
//
//	folio convert report.docx -o report.html
//	folio pages report.docx
//	folio watch report.docx -o report.html
//
// Flags can also be set in folio.yaml, in a file named by --config, or
// through FOLIO_* environment variables, which are read from .env when
// present.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/tsawler/folio"
	"github.com/tsawler/folio/docx"
	"github.com/tsawler/folio/ocr"
)

// Global holds state shared by all commands.
type Global struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	// Describer is set when OCR is enabled.
	Describer docx.ImageDescriber

	closers []io.Closer
}

// Close releases resources acquired while applying flags.
func (g *Global) Close() {
	for _, c := range g.closers {
		if err := c.Close(); err != nil {
			g.Logger.Warn("Failed to release resource", "error", err)
		}
	}
	g.closers = nil
}

// CLI definition & global flags.
type CLI struct {
	Config      kong.ConfigFlag `short:"c" help:"Configuration file path (default folio.yaml)." placeholder:"FILE"`
	Verbose     bool            `short:"v" env:"FOLIO_VERBOSE" help:"Enable verbose logging."`
	OCR         bool            `name:"ocr" env:"FOLIO_OCR" help:"Describe images without alt text using Tesseract OCR."`
	OCRLanguage string          `name:"ocr-language" env:"FOLIO_OCR_LANGUAGE" default:"eng" help:"Tesseract language for --ocr."`
	OCRMode     string          `name:"ocr-mode" env:"FOLIO_OCR_MODE" default:"auto" help:"Tesseract page segmentation mode for --ocr (name or 0-13)."`

	Convert ConvertCmd `cmd:"" help:"Convert a document to HTML."`
	Pages   PagesCmd   `cmd:"" help:"Print the page count and a summary of each page."`
	Watch   WatchCmd   `cmd:"" help:"Convert a document again whenever it changes."`
}

// AfterApply runs after flag parsing; sets up logging and OCR once.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = slog.New(slog.NewTextHandler(g.Stderr, &slog.HandlerOptions{Level: level}))

	if !c.OCR {
		return nil
	}
	mode, ok := ocr.ParsePageSegMode(c.OCRMode)
	if !ok {
		return fmt.Errorf("unknown OCR mode %q", c.OCRMode)
	}
	client, err := ocr.New(ocr.Options{Language: c.OCRLanguage, Mode: mode})
	if err != nil {
		return fmt.Errorf("starting OCR: %w", err)
	}
	g.closers = append(g.closers, client)
	g.Describer = client
	g.Logger.Debug("OCR enabled", "language", c.OCRLanguage, "mode", c.OCRMode)
	return nil
}

// HTMLFlags configure HTML output.
type HTMLFlags struct {
	EmbedImages bool   `name:"embed-images" env:"FOLIO_EMBED_IMAGES" help:"Embed images as data URIs."`
	Fragment    bool   `env:"FOLIO_FRAGMENT" help:"Write only the pages, without html, head and body elements."`
	Title       string `env:"FOLIO_TITLE" help:"Document title. Defaults to the title in the document properties."`
	Pages       []int  `short:"p" env:"FOLIO_PAGES" help:"Pages to include (1-indexed). Defaults to all pages."`
}

// converter configures a Converter for input.
func (f HTMLFlags) converter(input string, g *Global) *folio.Converter {
	c := folio.Open(input).WithLogger(g.Logger).OnlyPages(f.Pages...)
	if g.Describer != nil {
		c = c.WithImageDescriber(g.Describer)
	}
	if f.EmbedImages {
		c = c.EmbedImages()
	}
	if f.Fragment {
		c = c.Fragment()
	}
	if f.Title != "" {
		c = c.Title(f.Title)
	}
	return c
}

func newParser(cli *CLI, g *Global, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("folio"),
		kong.Description("Convert Word documents to paginated HTML."),
		kong.UsageOnError(),
		kong.Configuration(yamlConfig, "folio.yaml"),
		kong.Bind(g),
		kong.Writers(g.Stdout, g.Stderr),
	}, options...)
	return kong.New(cli, options...)
}

// run parses args and runs the selected command, returning the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if err := loadEnv(".env"); err != nil {
		fmt.Fprintf(stderr, "folio: %v\n", err)
		return 1
	}

	var cli CLI
	g := &Global{Stdout: stdout, Stderr: stderr, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	defer g.Close()

	parser, err := newParser(&cli, g)
	if err != nil {
		fmt.Fprintf(stderr, "folio: %v\n", err)
		return 1
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "folio: %v\n", err)
		return 2
	}
	if err := ctx.Run(); err != nil {
		g.Logger.Error("Command failed", "command", ctx.Command(), "error", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
