// Package gemini implements the classifier against Google's Generative
// Language API (generateContent).
package gemini

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/crimson-sun/pagepulse/internal/connector/httpclient"
	"github.com/crimson-sun/pagepulse/internal/engine/classifier"
)

const (
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel    = "gemini-1.5-flash"
)

func init() {
	classifier.Register("gemini", func(cfg classifier.Config) (classifier.Classifier, error) {
		c, err := New(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	})
}

// Classifier calls generateContent once per request.
type Classifier struct {
	client *httpclient.Client
	model  string
	cfg    classifier.Config
}

// New creates a Gemini classifier. The API key travels in the
// x-goog-api-key header, never in the URL.
func New(cfg classifier.Config) (*Classifier, error) {
	if cfg.APIKey == "" {
		return nil, classifier.ErrNoAPIKey
	}
	cfg = cfg.WithDefaults()
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.3
	}
	if cfg.TopK == 0 {
		cfg.TopK = 20
	}
	if cfg.TopP == 0 {
		cfg.TopP = 0.8
	}
	client := httpclient.New(strings.TrimRight(cfg.Endpoint, "/"),
		httpclient.WithHeader("x-goog-api-key", cfg.APIKey),
		httpclient.WithTimeout(cfg.Timeout),
	)
	return &Classifier{client: client, model: cfg.Model, cfg: cfg}, nil
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	TopK             int     `json:"topK"`
	TopP             float64 `json:"topP"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
	SafetySettings   []safetySetting  `json:"safetySettings"`
}

func (c *Classifier) request(prompt string) generateRequest {
	return generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:      c.cfg.Temperature,
			TopK:             c.cfg.TopK,
			TopP:             c.cfg.TopP,
			MaxOutputTokens:  c.cfg.MaxOutputTokens,
			ResponseMIMEType: "application/json",
		},
		SafetySettings: []safetySetting{
			{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
			{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
		},
	}
}

// Classify sends one generateContent request and parses the generated text.
func (c *Classifier) Classify(ctx context.Context, req classifier.Request) (classifier.Result, error) {
	prompt := classifier.BuildPrompt(req.Payload, req.Mode, c.cfg)
	path := "/models/" + url.PathEscape(c.model) + ":generateContent"

	body, err := c.client.PostJSON(ctx, path, c.request(prompt))
	if err != nil {
		te := &classifier.TransportError{Provider: "gemini", Err: err}
		var apiErr *httpclient.APIError
		if errors.As(err, &apiErr) {
			te.StatusCode = apiErr.StatusCode
			te.Message = gjson.GetBytes(body, "error.message").String()
		}
		return classifier.Result{}, te
	}

	text, err := generatedText(body)
	if err != nil {
		return classifier.Result{}, err
	}
	return classifier.ParseResponse(text, req.Mode, c.cfg.Limits, c.cfg.Labels)
}

// generatedText pulls the model output out of the response envelope. A body
// that is not a JSON envelope is treated as the output itself.
func generatedText(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return string(body), nil
	}
	parts := gjson.GetBytes(body, "candidates.0.content.parts.#.text")
	if parts.Exists() && len(parts.Array()) > 0 {
		var sb strings.Builder
		for _, p := range parts.Array() {
			sb.WriteString(p.String())
		}
		return sb.String(), nil
	}
	if reason := gjson.GetBytes(body, "promptFeedback.blockReason").String(); reason != "" {
		return "", &classifier.ParseError{Reason: "prompt blocked: " + reason}
	}
	if reason := gjson.GetBytes(body, "candidates.0.finishReason").String(); reason != "" {
		return "", &classifier.ParseError{Reason: "no content, finish reason " + reason}
	}
	return "", &classifier.ParseError{Reason: "response has no candidates"}
}
