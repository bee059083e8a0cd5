package server

import "github.com/crimson-sun/pagepulse/internal/model"

type extractRequest struct {
	HTML   string `json:"html"`
	IDMode *bool  `json:"id_mode,omitempty"`
}

type extractResponse struct {
	Text      string          `json:"text"`
	Segments  []model.Segment `json:"segments"`
	Truncated bool            `json:"truncated"`
	HTML      string          `json:"html,omitempty"` // id mode only: the page with assigned ids
}

type highlightRequest struct {
	HTML  string       `json:"html"`
	Spans []model.Span `json:"spans"`
}

type clearRequest struct {
	HTML string `json:"html"`
}

type pageResponse struct {
	HTML  string `json:"html"`
	Count int    `json:"count"`
}

type analyzeRequest struct {
	HTML string `json:"html,omitempty"`
	URL  string `json:"url,omitempty"`
}

type healthResponse struct {
	Status    string   `json:"status"`
	Version   string   `json:"version"`
	Providers []string `json:"providers"`
}
