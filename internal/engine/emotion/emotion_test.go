package emotion

import (
	"testing"

	"github.com/crimson-sun/pagepulse/internal/model"
)

func TestCanonicalSet(t *testing.T) {
	s := Canonical()

	want := []string{"happy", "excited", "sad", "angry", "frustrated", "love", "worried", "surprised", "calm", "trusting"}
	got := s.Names()
	if len(got) != len(want) {
		t.Fatalf("expected %d labels, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("label[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if s.Fallback() != Calm {
		t.Errorf("fallback = %q, want calm", s.Fallback())
	}
}

func TestNormalize(t *testing.T) {
	s := Canonical()
	tests := []struct {
		input string
		want  model.Emotion
	}{
		{"happy", Happy},
		{"HAPPY", Happy},
		{"  Sad ", Sad},
		{"fear", Worried},
		{"neutral", Calm},
		{"Surprise", Surprised},
		{"trust", Trusting},
		{"bewildered", Calm},
		{"", Calm},
	}
	for _, tt := range tests {
		if got := s.Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNewBadFallback(t *testing.T) {
	s := New([]Label{{Name: Sad}, {Name: Happy}}, "meh")
	if s.Fallback() != Sad {
		t.Fatalf("expected first label as fallback, got %q", s.Fallback())
	}
	// Synonym whose target is outside a reduced set falls back.
	if got := s.Normalize("neutral"); got != Sad {
		t.Errorf("Normalize(neutral) = %q, want sad", got)
	}
}

func TestLookupFallsBack(t *testing.T) {
	s := Canonical()
	if l := s.Lookup("unknown"); l.Name != Calm {
		t.Errorf("Lookup(unknown).Name = %q, want calm", l.Name)
	}
	if l := s.Lookup(Love); l.Display() != "Love" {
		t.Errorf("Display() = %q, want Love", l.Display())
	}
}

func TestDefaultLabelsPalette(t *testing.T) {
	for _, l := range DefaultLabels() {
		if l.Desc == "" {
			t.Errorf("%s has empty description", l.Name)
		}
		if len(l.Background) != 7 || l.Background[0] != '#' {
			t.Errorf("%s has malformed background %q", l.Name, l.Background)
		}
		if len(l.Border) != 7 || l.Border[0] != '#' {
			t.Errorf("%s has malformed border %q", l.Name, l.Border)
		}
	}
}

func TestContrastColor(t *testing.T) {
	tests := []struct {
		bg   string
		want string
	}{
		{"#FFFFFF", "#000000"},
		{"#000000", "#FFFFFF"},
		{"#FFF9C4", "#000000"},
		{"#1E3A8A", "#FFFFFF"},
		{"bogus", "#000000"},
	}
	for _, tt := range tests {
		if got := ContrastColor(tt.bg); got != tt.want {
			t.Errorf("ContrastColor(%q) = %q, want %q", tt.bg, got, tt.want)
		}
	}
}
