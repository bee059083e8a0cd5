package pipeline

import (
	"context"
	"errors"

	"github.com/crimson-sun/pagepulse/internal/connector"
	"github.com/crimson-sun/pagepulse/internal/engine/classifier"
)

var (
	// ErrBusy is returned when an analysis is already running.
	ErrBusy = errors.New("pipeline: analysis already in progress")

	// ErrExtractionEmpty is returned when the page has too little readable
	// text to classify. No request is sent.
	ErrExtractionEmpty = errors.New("pipeline: not enough text content found on this page")
)

// Error kinds reported in model.Report.ErrorKind.
const (
	KindBusy            = "busy"
	KindRestricted      = "restricted"
	KindExtractionEmpty = "extraction_empty"
	KindNoAPIKey        = "no_api_key"
	KindTransport       = "transport"
	KindParse           = "parse"
	KindCanceled        = "canceled"
	KindInternal        = "internal"
)

// Kind maps err to its taxonomy name. nil maps to "".
func Kind(err error) string {
	var (
		restricted *connector.RestrictedPageError
		transport  *classifier.TransportError
		parse      *classifier.ParseError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrBusy):
		return KindBusy
	case errors.As(err, &restricted):
		return KindRestricted
	case errors.Is(err, ErrExtractionEmpty):
		return KindExtractionEmpty
	case errors.Is(err, classifier.ErrNoAPIKey):
		return KindNoAPIKey
	case errors.As(err, &parse):
		return KindParse
	case errors.As(err, &transport):
		return KindTransport
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindInternal
	}
}

// Message turns err into the status line shown to the user.
func Message(err error) string {
	switch Kind(err) {
	case "":
		return ""
	case KindBusy:
		return "Analysis already running. Wait for it to finish."
	case KindRestricted:
		return "Cannot analyze this page. Try a regular website."
	case KindExtractionEmpty:
		return "Not enough text content found on this page."
	case KindNoAPIKey:
		return "No API key configured. Run `pagepulse key set <provider>`."
	default:
		return "Error: " + err.Error()
	}
}
