package search

import (
	"maps"
	"slices"
	"strings"

	seekerrors "thoreinstein.com/seek/pkg/errors"
)

// Built-in engine.
const (
	DefaultEngine   = "wikipedia"
	WikipediaSearch = "https://ja.wikipedia.org/wiki/Special:Search?search=" + Placeholder
)

// Engines maps an engine name to its URL template.
type Engines map[string]string

// DefaultEngines returns the engines available without any configuration.
func DefaultEngines() Engines {
	return Engines{DefaultEngine: WikipediaSearch}
}

// Merge returns the default engines overlaid with extra.
func Merge(extra map[string]string) Engines {
	out := DefaultEngines()
	maps.Copy(out, extra)
	return out
}

// Names returns the sorted engine names.
func (e Engines) Names() []string {
	return slices.Sorted(maps.Keys(e))
}

// Resolve returns the template for name.
func (e Engines) Resolve(name string) (string, error) {
	tmpl, ok := e[name]
	if !ok {
		return "", seekerrors.NewSearchError("resolve", name,
			"unknown engine; known engines: "+strings.Join(e.Names(), ", "))
	}
	return tmpl, nil
}

// Validate checks that every template contains the query placeholder.
func (e Engines) Validate() error {
	for _, name := range e.Names() {
		if !strings.Contains(e[name], Placeholder) {
			return seekerrors.NewConfigError("search.engines."+name,
				"template must contain "+Placeholder)
		}
	}
	return nil
}
