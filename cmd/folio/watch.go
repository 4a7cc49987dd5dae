package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Input    string        `arg:"" type:"existingfile" help:"Word document to watch."`
	Output   string        `short:"o" required:"" env:"FOLIO_OUTPUT" placeholder:"FILE" help:"Output file."`
	Debounce time.Duration `env:"FOLIO_DEBOUNCE" default:"500ms" help:"Wait this long after the last change before converting."`

	HTMLFlags `embed:""`
}

func (w *WatchCmd) Run(g *Global) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return w.watch(ctx, g)
}

// watch converts the input once and then after every change until ctx is
// done. Failed conversions are logged and the previous output is kept.
func (w *WatchCmd) watch(ctx context.Context, g *Global) error {
	input, err := filepath.Abs(w.Input)
	if err != nil {
		return fmt.Errorf("failed to resolve input path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Editors usually save by replacing the file, so watch the directory.
	if err := watcher.Add(filepath.Dir(input)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(input), err)
	}

	reconvert := func() {
		if err := convert(w.converter(input, g), w.Output, g); err != nil {
			g.Logger.Error("Conversion failed", "input", input, "error", err)
		}
	}
	reconvert()
	g.Logger.Info("Watching for changes", "input", input, "output", w.Output)

	pending := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			g.Logger.Info("Stopped watching", "input", input)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != input || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			g.Logger.Debug("Change detected", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.AfterFunc(w.Debounce, func() {
					select {
					case pending <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(w.Debounce)
			}

		case <-pending:
			if _, err := os.Stat(input); err != nil {
				g.Logger.Warn("Input is not readable", "input", input, "error", err)
				continue
			}
			reconvert()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			g.Logger.Error("File watcher error", "error", err)
		}
	}
}
