package engine

import (
	"errors"
	"fmt"

	"github.com/crimson-sun/pagepulse/internal/engine/classifier"
	"github.com/crimson-sun/pagepulse/internal/engine/compactor"
	"github.com/crimson-sun/pagepulse/internal/engine/extractor"
	"github.com/crimson-sun/pagepulse/internal/engine/highlighter"
)

// Settings collects everything needed to assemble an Engine.
type Settings struct {
	Extractor   extractor.Config
	Budget      int
	Highlighter highlighter.Config
	Provider    string // registered classifier name; empty builds no classifier
	Classifier  classifier.Config
}

// DefaultSettings returns text mode with the gemini provider.
func DefaultSettings() Settings {
	return Settings{
		Extractor:   extractor.DefaultConfig(),
		Budget:      compactor.DefaultBudget,
		Highlighter: highlighter.DefaultConfig(),
		Provider:    "gemini",
	}
}

// Build assembles an Engine. A missing API key is not an error: the engine
// still extracts, highlights and clears, and Classify reports ErrNoAPIKey.
func Build(s Settings) (*Engine, error) {
	ext, err := extractor.New(s.Extractor)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	if s.Highlighter.Labels != nil && s.Classifier.Labels == nil {
		s.Classifier.Labels = s.Highlighter.Labels
	}
	if s.Classifier.Entries == 0 {
		s.Classifier.Entries = requestedEntries(s.Highlighter.MaxMarkers)
	}

	var cls classifier.Classifier
	if s.Provider != "" {
		ctor, err := classifier.Get(s.Provider)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
		cls, err = ctor(s.Classifier)
		if err != nil && !errors.Is(err, classifier.ErrNoAPIKey) {
			return nil, fmt.Errorf("engine: %w", err)
		}
	}

	return New(ext, compactor.New(s.Budget), cls, highlighter.New(s.Highlighter)), nil
}

// requestedEntries is the marker cap plus a quarter for snippets that fail
// to match.
func requestedEntries(maxMarkers int) int {
	if maxMarkers <= 0 {
		maxMarkers = highlighter.DefaultConfig().MaxMarkers
	}
	return maxMarkers + maxMarkers/4
}
