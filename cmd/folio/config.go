package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// yamlConfig loads flag values from a YAML document. Global flags are top
// level keys; command flags may also be nested under the command name:
//
//	verbose: true
//	embed-images: true
//	convert:
//	  output: out.html
//	watch:
//	  debounce: 1s
//
// Keys may use dashes or underscores.
func yamlConfig(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	var f kong.ResolverFunc = func(_ *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		if parent != nil && parent.Command != nil {
			if section, ok := values[parent.Command.Name].(map[string]any); ok {
				if v, ok := lookup(section, flag.Name); ok {
					return v, nil
				}
			}
		}
		if v, ok := lookup(values, flag.Name); ok {
			return v, nil
		}
		return nil, nil
	}
	return f, nil
}

// lookup finds a flag value by name and renders it the way it would be
// given on the command line.
func lookup(values map[string]any, name string) (string, bool) {
	raw, ok := values[name]
	if !ok {
		raw, ok = values[strings.ReplaceAll(name, "-", "_")]
	}
	if !ok || raw == nil {
		return "", false
	}
	if list, ok := raw.([]any); ok {
		items := make([]string, len(list))
		for i, item := range list {
			items[i] = fmt.Sprint(item)
		}
		return strings.Join(items, ","), true
	}
	if _, ok := raw.(map[string]any); ok {
		return "", false
	}
	return fmt.Sprint(raw), true
}

// loadEnv adds the variables in the given .env files to the environment.
// Missing files are skipped and variables already set are kept.
func loadEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}
	return nil
}
