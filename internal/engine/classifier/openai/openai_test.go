package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/crimson-sun/pagepulse/internal/engine/classifier"
	"github.com/crimson-sun/pagepulse/internal/engine/emotion"
	"github.com/crimson-sun/pagepulse/internal/model"
)

func responseBody(text string) []byte {
	b, _ := json.Marshal(map[string]any{
		"id":         "resp_1",
		"object":     "response",
		"created_at": 0,
		"model":      "gpt-4o-mini",
		"status":     "completed",
		"output": []any{map[string]any{
			"type":   "message",
			"id":     "msg_1",
			"role":   "assistant",
			"status": "completed",
			"content": []any{map[string]any{
				"type":        "output_text",
				"text":        text,
				"annotations": []any{},
			}},
		}},
	})
	return b
}

func TestSchemaIsStrict(t *testing.T) {
	s, err := Schema(emotion.Canonical())
	require.NoError(t, err)

	b, err := json.Marshal(s)
	require.NoError(t, err)
	doc := string(b)

	assert.Equal(t, "object", gjson.Get(doc, "type").String())
	assert.False(t, gjson.Get(doc, "additionalProperties").Bool())
	assert.ElementsMatch(t, []string{"summary", "items"}, toStrings(gjson.Get(doc, "required")))

	item := gjson.Get(doc, "properties.items.items")
	assert.False(t, item.Get("additionalProperties").Bool())
	assert.ElementsMatch(t, []string{"text", "id", "emotion"}, toStrings(item.Get("required")))
	assert.Equal(t, emotion.Canonical().Names(), toStrings(item.Get("properties.emotion.enum")))
	_, hasMeta := s["$schema"]
	assert.False(t, hasMeta)
}

func toStrings(r gjson.Result) []string {
	var out []string
	for _, v := range r.Array() {
		out = append(out, v.String())
	}
	return out
}

func TestClassify(t *testing.T) {
	var gotPath string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write(responseBody(`{"summary": "Cheerful.", "items": [{"text": "I am so happy today, everything is wonderful!", "id": "", "emotion": "happy"}]}`))
	}))
	defer srv.Close()

	c, err := New(classifier.Config{APIKey: "sk-test", Endpoint: srv.URL})
	require.NoError(t, err)

	res, err := c.Classify(context.Background(), classifier.Request{Payload: "I am so happy today, everything is wonderful!", Mode: model.MatchText})
	require.NoError(t, err)
	assert.Equal(t, "Cheerful.", res.Summary)
	require.Len(t, res.Spans, 1)
	assert.Equal(t, model.Emotion("happy"), res.Spans[0].Emotion)

	assert.Equal(t, "/responses", gotPath)
	assert.Equal(t, "json_schema", gjson.GetBytes(gotBody, "text.format.type").String())
	assert.True(t, gjson.GetBytes(gotBody, "text.format.strict").Bool())
	assert.Equal(t, DefaultModel, gjson.GetBytes(gotBody, "model").String())
}

func TestClassifyHTTPErrorNoRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"message": "server exploded", "type": "server_error"}}`))
	}))
	defer srv.Close()

	c, err := New(classifier.Config{APIKey: "sk-test", Endpoint: srv.URL})
	require.NoError(t, err)

	_, err = c.Classify(context.Background(), classifier.Request{Payload: "x"})
	var te *classifier.TransportError
	require.True(t, errors.As(err, &te), "got %T: %v", err, err)
	assert.Equal(t, 500, te.StatusCode)
	assert.EqualValues(t, 1, calls.Load())
}

func TestClassifyProseReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(responseBody("Sorry, I cannot help with that."))
	}))
	defer srv.Close()

	c, err := New(classifier.Config{APIKey: "sk-test", Endpoint: srv.URL})
	require.NoError(t, err)
	_, err = c.Classify(context.Background(), classifier.Request{Payload: "x"})
	var pe *classifier.ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(classifier.Config{})
	assert.ErrorIs(t, err, classifier.ErrNoAPIKey)
}
