package testdata

import (
	"testing"
)

func TestLoadCorpus(t *testing.T) {
	entries, err := LoadCorpus()
	if err != nil {
		t.Fatalf("LoadCorpus() error: %v", err)
	}

	if len(entries) == 0 {
		t.Fatal("corpus is empty")
	}
	t.Logf("Total entries: %d", len(entries))

	names := make(map[string]bool)
	for i, e := range entries {
		if e.Name == "" {
			t.Errorf("entry[%d] has empty name", i)
		}
		if names[e.Name] {
			t.Errorf("entry[%d] duplicate name %q", i, e.Name)
		}
		names[e.Name] = true
		if e.Mode != "text" && e.Mode != "id" {
			t.Errorf("entry[%d] has invalid mode %q", i, e.Mode)
		}
		if e.Reply == "" {
			t.Errorf("entry[%d] has empty reply", i)
		}
	}
}

func TestCorpusPagesExist(t *testing.T) {
	entries, err := LoadCorpus()
	if err != nil {
		t.Fatalf("LoadCorpus() error: %v", err)
	}
	for _, e := range entries {
		html, err := Page(e.Page)
		if err != nil {
			t.Errorf("%s: %v", e.Name, err)
			continue
		}
		if html == "" {
			t.Errorf("%s: page %s is empty", e.Name, e.Page)
		}
	}
}

func TestCorpusExpectations(t *testing.T) {
	entries, err := LoadCorpus()
	if err != nil {
		t.Fatalf("LoadCorpus() error: %v", err)
	}
	for _, e := range entries {
		switch e.WantError {
		case "":
			if e.WantMarked == 0 {
				t.Errorf("%s: successful entry expects no markers", e.Name)
			}
			if len(e.WantEmotions) != e.WantMarked {
				t.Errorf("%s: %d emotions for %d markers", e.Name, len(e.WantEmotions), e.WantMarked)
			}
		case "parse", "empty":
			if e.WantMarked != 0 {
				t.Errorf("%s: failing entry expects %d markers", e.Name, e.WantMarked)
			}
		default:
			t.Errorf("%s: unknown want_error %q", e.Name, e.WantError)
		}
	}
}
