package classifier

import (
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/crimson-sun/pagepulse/internal/engine/emotion"
	"github.com/crimson-sun/pagepulse/internal/model"
)

// Limits bound what ParseResponse accepts.
type Limits struct {
	MinSpanLen int // text-mode snippet length window, in runes
	MaxSpanLen int
	MaxSpans   int // entries kept after validation
}

// DefaultLimits returns the standard window of 10..300 runes and 100 spans.
func DefaultLimits() Limits {
	return Limits{MinSpanLen: 10, MaxSpanLen: 300, MaxSpans: 100}
}

// ExtractJSON returns the first balanced JSON array or object embedded in
// text. Brackets inside JSON strings are ignored. Scanning stops at the first
// bracket that is never closed, so a cut-off reply is a ParseError.
func ExtractJSON(text string) (string, error) {
	for i := 0; i < len(text); i++ {
		if text[i] != '[' && text[i] != '{' {
			continue
		}
		end := balancedEnd(text, i)
		if end == unterminated {
			break
		}
		if end < 0 {
			continue
		}
		if candidate := text[i : end+1]; gjson.Valid(candidate) {
			return candidate, nil
		}
	}
	return "", newParseError("no JSON array or object in response", text)
}

const (
	mismatched   = -1
	unterminated = -2
)

// balancedEnd returns the index closing the bracket opened at start,
// mismatched when a closer does not pair, or unterminated when text ends
// first.
func balancedEnd(text string, start int) int {
	var (
		stack    []byte
		inString bool
		escaped  bool
	)
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[', '{':
			stack = append(stack, c)
		case ']', '}':
			if len(stack) == 0 {
				return mismatched
			}
			open := stack[len(stack)-1]
			if (c == ']' && open != '[') || (c == '}' && open != '{') {
				return mismatched
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		}
	}
	return unterminated
}

// ParseResponse extracts and validates the model's spans. Entries missing
// their identifying field or emotion are dropped, emotions are mapped onto
// labels, and text-mode snippets outside the length window are rejected.
// A response with no valid entries is not an error.
func ParseResponse(text string, mode model.MatchMode, limits Limits, labels *emotion.Set) (Result, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return Result{}, err
	}

	root := gjson.Parse(raw)
	var (
		entries []gjson.Result
		res     Result
	)
	switch {
	case root.IsArray():
		entries = root.Array()
	case root.IsObject():
		res.Summary = strings.TrimSpace(root.Get("summary").String())
		root.ForEach(func(_, v gjson.Result) bool {
			if v.IsArray() {
				entries = v.Array()
				return false
			}
			return true
		})
		if entries == nil && root.Get("emotion").Exists() {
			entries = []gjson.Result{root}
		}
	}

	for _, e := range entries {
		if limits.MaxSpans > 0 && len(res.Spans) >= limits.MaxSpans {
			break
		}
		if sp, ok := parseEntry(e, mode, limits, labels); ok {
			res.Spans = append(res.Spans, sp)
		}
	}
	return res, nil
}

func parseEntry(e gjson.Result, mode model.MatchMode, limits Limits, labels *emotion.Set) (model.Span, bool) {
	if !e.IsObject() {
		return model.Span{}, false
	}
	emo := stringField(e, "emotion")
	if emo == "" {
		return model.Span{}, false
	}
	sp := model.Span{Emotion: labels.Normalize(emo)}

	if mode == model.MatchID {
		id := strings.Trim(stringField(e, "id"), "[] ")
		if id == "" {
			return model.Span{}, false
		}
		sp.ElementID = id
		sp.Text = stringField(e, "text")
		return sp, true
	}

	sp.Text = stringField(e, "text")
	n := utf8.RuneCountInString(sp.Text)
	if n == 0 || n < limits.MinSpanLen || (limits.MaxSpanLen > 0 && n > limits.MaxSpanLen) {
		return model.Span{}, false
	}
	return sp, true
}

func stringField(e gjson.Result, key string) string {
	v := e.Get(key)
	if v.Type != gjson.String {
		return ""
	}
	return strings.TrimSpace(v.Str)
}
