package pagepulse

import "time"

type options struct {
	provider     string
	model        string
	apiKey       string
	endpoint     string
	timeout      time.Duration
	idMode       bool
	maxMarkers   int
	minWords     int
	overlapRatio float64
	budget       int
	notify       bool
}

// Option configures a Pagepulse instance.
type Option func(*options)

// WithProvider selects the classifier: "gemini" (default) or "openai".
func WithProvider(name string) Option {
	return func(o *options) { o.provider = name }
}

// WithModel overrides the provider's default model.
func WithModel(model string) Option {
	return func(o *options) { o.model = model }
}

// WithAPIKey sets the classifier key, skipping the environment and keyring.
func WithAPIKey(key string) Option {
	return func(o *options) { o.apiKey = key }
}

// WithEndpoint points the provider at a different base URL.
func WithEndpoint(url string) Option {
	return func(o *options) { o.endpoint = url }
}

// WithTimeout bounds the classifier call. Default: 60s.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithIDMode tags extracted elements with ids and matches spans by id
// instead of by text.
func WithIDMode(on bool) Option {
	return func(o *options) { o.idMode = on }
}

// WithMaxMarkers caps markers per pass. Default: 20.
func WithMaxMarkers(n int) Option {
	return func(o *options) { o.maxMarkers = n }
}

// WithOverlap sets the fuzzy-match thresholds: at least minWords shared
// words and at least ratio of the span's words. Defaults: 3 and 0.6.
func WithOverlap(minWords int, ratio float64) Option {
	return func(o *options) {
		o.minWords = minWords
		o.overlapRatio = ratio
	}
}

// WithPayloadBudget caps the classifier payload in runes. Default: 20000.
func WithPayloadBudget(runes int) Option {
	return func(o *options) { o.budget = runes }
}

// WithNotify toggles the banner appended after a highlight pass.
func WithNotify(on bool) Option {
	return func(o *options) { o.notify = on }
}

func defaultOptions() options {
	return options{
		provider: "gemini",
		notify:   true,
	}
}
