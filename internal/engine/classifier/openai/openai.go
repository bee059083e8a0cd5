// Package openai implements the classifier on the OpenAI Responses API with
// a strict JSON schema response format.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/crimson-sun/pagepulse/internal/engine/classifier"
	"github.com/crimson-sun/pagepulse/internal/engine/emotion"
)

const DefaultModel = "gpt-4o-mini"

const instructions = "You label the emotional tone of web page text. Reply with JSON that matches the schema."

func init() {
	classifier.Register("openai", func(cfg classifier.Config) (classifier.Classifier, error) {
		c, err := New(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	})
}

// Item is one labelled snippet in the model reply. Text is empty in id mode
// and ID is empty in text mode.
type Item struct {
	Text    string `json:"text" jsonschema_description:"Exact snippet copied from the content"`
	ID      string `json:"id" jsonschema_description:"Element id from the [id] marker, without brackets"`
	Emotion string `json:"emotion" jsonschema_description:"One of the available emotions"`
}

// Envelope is the top-level reply shape.
type Envelope struct {
	Summary string `json:"summary" jsonschema_description:"One sentence describing the page's overall tone"`
	Items   []Item `json:"items"`
}

// Classifier issues one Responses API call per request. The SDK's retries
// are disabled.
type Classifier struct {
	client oai.Client
	model  string
	cfg    classifier.Config
	schema map[string]any
}

// New creates an OpenAI classifier.
func New(cfg classifier.Config) (*Classifier, error) {
	if cfg.APIKey == "" {
		return nil, classifier.ErrNoAPIKey
	}
	cfg = cfg.WithDefaults()
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	schema, err := Schema(cfg.Labels)
	if err != nil {
		return nil, err
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.Endpoint, "/")+"/"))
	}
	return &Classifier{
		client: oai.NewClient(opts...),
		model:  cfg.Model,
		cfg:    cfg,
		schema: schema,
	}, nil
}

// Classify sends the prompt as the user message and parses OutputText.
func (c *Classifier) Classify(ctx context.Context, req classifier.Request) (classifier.Result, error) {
	prompt := classifier.BuildPrompt(req.Payload, req.Mode, c.cfg)

	params := responses.ResponseNewParams{
		Model:           c.model,
		MaxOutputTokens: oai.Int(int64(c.cfg.MaxOutputTokens)),
		Instructions:    oai.String(instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(prompt, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:        "EmotionSpans",
					Schema:      c.schema,
					Strict:      oai.Bool(true),
					Description: oai.String("Emotion-labelled snippets"),
					Type:        "json_schema",
				},
			},
		},
	}
	if c.cfg.Temperature > 0 {
		params.Temperature = oai.Float(c.cfg.Temperature)
	}
	if c.cfg.TopP > 0 {
		params.TopP = oai.Float(c.cfg.TopP)
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		te := &classifier.TransportError{Provider: "openai", Err: err}
		var apiErr *oai.Error
		if errors.As(err, &apiErr) {
			te.StatusCode = apiErr.StatusCode
			te.Message = apiErr.Message
		}
		return classifier.Result{}, te
	}
	return classifier.ParseResponse(resp.OutputText(), req.Mode, c.cfg.Limits, c.cfg.Labels)
}

// Schema returns the strict response schema for Envelope with the emotion
// field restricted to the label names.
func Schema(labels *emotion.Set) (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	b, err := reflector.Reflect(&Envelope{}).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("openai: schema: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("openai: schema: %w", err)
	}
	strict(m)

	if labels != nil {
		if emo, ok := path(m, "properties", "items", "items", "properties", "emotion"); ok {
			emo["enum"] = labels.Names()
		}
	}
	return m, nil
}

// strict marks every object closed and every property required, which the
// Responses API demands when Strict is set.
func strict(schema map[string]any) {
	delete(schema, "$schema")
	delete(schema, "$id")
	if t, ok := schema["type"].(string); ok && t == "object" {
		schema["additionalProperties"] = false
		if props, ok := schema["properties"].(map[string]any); ok {
			required := make([]string, 0, len(props))
			for name := range props {
				required = append(required, name)
			}
			if len(required) > 0 {
				schema["required"] = required
			}
		}
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		for _, p := range props {
			if pm, ok := p.(map[string]any); ok {
				strict(pm)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		strict(items)
	}
}

func path(m map[string]any, keys ...string) (map[string]any, bool) {
	cur := m
	for _, k := range keys {
		next, ok := cur[k].(map[string]any)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}
