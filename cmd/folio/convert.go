package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/folio"
	"github.com/tsawler/folio/model"
)

// ConvertCmd implements the 'convert' command.
type ConvertCmd struct {
	Input  string `arg:"" type:"existingfile" help:"Word document to convert."`
	Output string `short:"o" env:"FOLIO_OUTPUT" placeholder:"FILE" help:"Output file. Defaults to the input name with an .html extension; '-' writes to stdout."`

	HTMLFlags `embed:""`
}

func (c *ConvertCmd) Run(g *Global) error {
	output := c.Output
	if output == "" {
		output = strings.TrimSuffix(c.Input, filepath.Ext(c.Input)) + ".html"
	}
	return convert(c.converter(c.Input, g), output, g)
}

// convert writes the HTML for one document. Files are replaced only once
// the conversion has succeeded.
func convert(conv *folio.Converter, output string, g *Global) error {
	if output == "-" {
		warnings, err := conv.HTML(g.Stdout)
		logWarnings(g, warnings)
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(output), ".folio-*.html")
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer os.Remove(tmp.Name())

	warnings, err := conv.HTML(tmp)
	logWarnings(g, warnings)
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("writing output: %w", closeErr)
	}
	if err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), output); err != nil {
		return fmt.Errorf("replacing output: %w", err)
	}
	g.Logger.Info("Converted document", "output", output, "warnings", len(warnings))
	return nil
}

func logWarnings(g *Global, warnings []folio.Warning) {
	for _, w := range warnings {
		g.Logger.Warn(w.Message)
	}
}

// PagesCmd implements the 'pages' command.
type PagesCmd struct {
	Input string `arg:"" type:"existingfile" help:"Word document to inspect."`
}

func (c *PagesCmd) Run(g *Global) error {
	result, warnings, err := folio.Open(c.Input).WithLogger(g.Logger).Pages()
	logWarnings(g, warnings)
	if err != nil {
		return err
	}

	fmt.Fprintf(g.Stdout, "%d pages\n", len(result.Pages))
	for _, p := range result.Pages {
		fmt.Fprintln(g.Stdout, summarize(p))
	}
	return nil
}

// summarize describes a page on one line.
func summarize(p *model.Page) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "page %d:", p.Index+1)
	if s := p.Section; s != nil {
		fmt.Fprintf(&sb, " %gx%gpt", s.PageWidth, s.PageHeight)
		if s.Orientation != "" {
			fmt.Fprintf(&sb, " %s", s.Orientation)
		}
	}

	var paragraphs, tables int
	for _, n := range p.Children {
		switch n.(type) {
		case *model.Paragraph:
			paragraphs++
		case *model.Table:
			tables++
		}
	}
	fmt.Fprintf(&sb, ", %d paragraphs, %d tables", paragraphs, tables)
	if id := p.HeaderID(); id != "" {
		fmt.Fprintf(&sb, ", header %s", id)
	}
	if id := p.FooterID(); id != "" {
		fmt.Fprintf(&sb, ", footer %s", id)
	}
	if text := excerpt(p.ExtractText(), 40); text != "" {
		fmt.Fprintf(&sb, ": %q", text)
	}
	return sb.String()
}

// excerpt returns the first limit runes of s with whitespace collapsed.
func excerpt(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
