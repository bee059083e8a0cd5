// Package testdata holds sample pages and canned model replies shared by the
// engine and pipeline tests.
package testdata

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed corpus.json
var corpusJSON []byte

//go:embed pages/*.html
var pages embed.FS

// CorpusEntry pairs a page with the reply a model gave for it.
type CorpusEntry struct {
	Name         string   `json:"name"`
	Page         string   `json:"page"`
	Mode         string   `json:"mode"`
	Reply        string   `json:"reply"`
	WantError    string   `json:"want_error"` // "", "parse" or "empty"
	WantMarked   int      `json:"want_marked"`
	WantEmotions []string `json:"want_emotions"`
	Description  string   `json:"description"`
}

// LoadCorpus parses the embedded corpus.json and returns all entries.
func LoadCorpus() ([]CorpusEntry, error) {
	var entries []CorpusEntry
	if err := json.Unmarshal(corpusJSON, &entries); err != nil {
		return nil, fmt.Errorf("parse corpus.json: %w", err)
	}
	return entries, nil
}

// Page returns the HTML of an embedded sample page.
func Page(name string) (string, error) {
	b, err := pages.ReadFile("pages/" + name)
	if err != nil {
		return "", fmt.Errorf("testdata: %w", err)
	}
	return string(b), nil
}
