package main

import (
	"errors"
	"log/slog"

	"github.com/crimson-sun/pagepulse/internal/config"
	"github.com/crimson-sun/pagepulse/internal/connector"
	"github.com/crimson-sun/pagepulse/internal/credential"
	"github.com/crimson-sun/pagepulse/internal/engine"
	"github.com/crimson-sun/pagepulse/internal/engine/classifier"
	"github.com/crimson-sun/pagepulse/internal/output"
	"github.com/crimson-sun/pagepulse/internal/output/file"
	"github.com/crimson-sun/pagepulse/internal/output/webhook"
)

// engineSettings maps configuration onto engine settings. The API key is
// resolved from the keyring when the environment does not carry one.
func engineSettings(c config.Config) engine.Settings {
	s := engine.DefaultSettings()
	s.Provider = c.Classifier.Provider

	s.Extractor.IDMode = c.Extract.IDMode
	s.Extractor.MinLen = c.Extract.MinLen
	s.Extractor.MaxLen = c.Extract.MaxLen
	s.Budget = c.Extract.Budget

	s.Highlighter.MaxMarkers = c.Highlight.MaxMarkers
	s.Highlighter.MinWords = c.Highlight.MinWords
	s.Highlighter.OverlapRatio = c.Highlight.OverlapRatio
	s.Highlighter.Notify = c.Highlight.Notify

	s.Classifier.Model = c.Classifier.Model
	s.Classifier.Endpoint = c.Classifier.Endpoint
	s.Classifier.Timeout = c.Classifier.Timeout
	s.Classifier.Limits = classifier.Limits{
		MinSpanLen: c.Classifier.MinSpanLen,
		MaxSpanLen: c.Classifier.MaxSpanLen,
		MaxSpans:   c.Classifier.MaxSpans,
	}
	s.Classifier.APIKey = c.Classifier.APIKey
	if s.Classifier.APIKey == "" {
		key, src, err := credential.Resolve(c.Classifier.Provider)
		switch {
		case err == nil:
			s.Classifier.APIKey = key
			slog.Debug("api key resolved", "provider", c.Classifier.Provider, "source", src)
		case !errors.Is(err, credential.ErrNotFound):
			slog.Warn("api key lookup failed", "provider", c.Classifier.Provider, "error", err)
		}
	}
	return s
}

func sourceConfig(c config.Config) connector.ConnectorConfig {
	return connector.ConnectorConfig{
		Timeout:   c.Source.Timeout,
		UserAgent: c.Source.UserAgent,
		MaxBytes:  c.Source.MaxBytes,
	}
}

// sideOutputs returns the report log and webhook outputs enabled by
// configuration.
func sideOutputs(c config.Config) ([]output.Output, error) {
	verbosity, err := output.ParseVerbosity(c.Output.Verbosity)
	if err != nil {
		return nil, err
	}
	var outs []output.Output
	if c.Output.ReportPath != "" {
		f, err := file.New(c.Output.ReportPath, verbosity)
		if err != nil {
			return nil, err
		}
		outs = append(outs, f)
	}
	if c.Output.WebhookURL != "" {
		outs = append(outs, webhook.New(c.Output.WebhookURL, webhook.WithVerbosity(verbosity)))
	}
	return outs, nil
}
