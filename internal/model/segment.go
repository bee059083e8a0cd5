package model

// Segment is a unit of page text considered for classification.
type Segment struct {
	Content   string `json:"content"`
	ElementID string `json:"element_id,omitempty"` // set only in id-tagging mode
}

// MatchMode selects how classified spans are located back in the page.
type MatchMode string

const (
	// MatchText re-finds spans by string similarity.
	MatchText MatchMode = "text"
	// MatchID looks spans up by the element id assigned during extraction.
	MatchID MatchMode = "id"
)

// ParseMatchMode maps "id" to MatchID and everything else to MatchText.
func ParseMatchMode(s string) MatchMode {
	if s == string(MatchID) {
		return MatchID
	}
	return MatchText
}
