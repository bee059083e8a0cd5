package model

// Emotion is a label from the canonical emotion set.
type Emotion string

// Span is a classified unit returned by the remote classifier. Text identifies
// the target in text-matching mode, ElementID in id-tagging mode. When both are
// set the id is tried first and the text is the fallback.
type Span struct {
	Text      string  `json:"text,omitempty"`
	ElementID string  `json:"id,omitempty"`
	Emotion   Emotion `json:"emotion"`
}
