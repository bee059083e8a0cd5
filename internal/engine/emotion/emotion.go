package emotion

import (
	"strconv"
	"strings"

	"github.com/crimson-sun/pagepulse/internal/model"
)

// Label is one entry of the closed emotion set.
type Label struct {
	Name       model.Emotion
	Desc       string // shown to the model in the prompt
	Background string // marker background color
	Border     string // marker accent color
}

// Display returns the capitalized label name used in tooltips.
func (l Label) Display() string {
	s := string(l.Name)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Set is an ordered, closed set of labels with a fallback.
type Set struct {
	labels   []Label
	byName   map[model.Emotion]int
	fallback model.Emotion
}

// New builds a Set. The fallback must be one of the labels; if it is not, the
// first label is used.
func New(labels []Label, fallback model.Emotion) *Set {
	s := &Set{labels: labels, byName: make(map[model.Emotion]int, len(labels)), fallback: fallback}
	for i, l := range labels {
		s.byName[l.Name] = i
	}
	if _, ok := s.byName[fallback]; !ok && len(labels) > 0 {
		s.fallback = labels[0].Name
	}
	return s
}

// Canonical returns the built-in set with calm as the fallback.
func Canonical() *Set {
	return New(DefaultLabels(), Default)
}

// Labels returns the labels in prompt order.
func (s *Set) Labels() []Label {
	return s.labels
}

// Names returns the label names in prompt order.
func (s *Set) Names() []string {
	names := make([]string, len(s.labels))
	for i, l := range s.labels {
		names[i] = string(l.Name)
	}
	return names
}

// Fallback returns the label substituted for unrecognized values.
func (s *Set) Fallback() model.Emotion {
	return s.fallback
}

// Normalize lowercases raw and maps it onto the set, substituting the
// fallback for anything unrecognized.
func (s *Set) Normalize(raw string) model.Emotion {
	key := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := s.byName[model.Emotion(key)]; ok {
		return model.Emotion(key)
	}
	if e, ok := synonyms[key]; ok {
		if _, ok := s.byName[e]; ok {
			return e
		}
	}
	return s.fallback
}

// Lookup returns the label for e, or the fallback label.
func (s *Set) Lookup(e model.Emotion) Label {
	if i, ok := s.byName[e]; ok {
		return s.labels[i]
	}
	if i, ok := s.byName[s.fallback]; ok {
		return s.labels[i]
	}
	return Label{Name: e, Background: "#F3F4F6", Border: "#9CA3AF"}
}

// ContrastColor picks black or white text for a #RRGGBB background.
func ContrastColor(hex string) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return "#000000"
	}
	r, err1 := strconv.ParseUint(hex[0:2], 16, 8)
	g, err2 := strconv.ParseUint(hex[2:4], 16, 8)
	b, err3 := strconv.ParseUint(hex[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return "#000000"
	}
	luminance := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255
	if luminance > 0.5 {
		return "#000000"
	}
	return "#FFFFFF"
}
