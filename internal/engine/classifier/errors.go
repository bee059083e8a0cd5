package classifier

import "fmt"

// TransportError means the remote call failed: network error, timeout or a
// non-2xx response.
type TransportError struct {
	Provider   string
	StatusCode int    // 0 when no response was received
	Message    string // error.message from the response envelope, if any
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("classifier: %s: HTTP %d: %s", e.Provider, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("classifier: %s: HTTP %d", e.Provider, e.StatusCode)
	default:
		return fmt.Sprintf("classifier: %s: %v", e.Provider, e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError means the model replied but no usable JSON could be recovered.
type ParseError struct {
	Reason  string
	Snippet string // start of the offending text
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("classifier: parse: %s: %v", e.Reason, e.Err)
	}
	return "classifier: parse: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

func newParseError(reason, text string) *ParseError {
	const limit = 120
	r := []rune(text)
	if len(r) > limit {
		text = string(r[:limit]) + "..."
	}
	return &ParseError{Reason: reason, Snippet: text}
}
