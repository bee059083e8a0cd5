package connector

import (
	"context"
	"errors"
	"testing"

	"github.com/crimson-sun/pagepulse/internal/dom"
)

func TestCheckTarget(t *testing.T) {
	restricted := []string{
		"chrome://settings",
		"chrome-extension://abc/popup.html",
		"chrome-search://local-ntp",
		"edge://flags",
		"about:blank",
		"moz-extension://id/page.html",
		"view-source:https://example.com",
		"devtools://devtools/bundled/inspector.html",
		"brave://rewards",
		"opera://settings",
		"vivaldi://about",
		"CHROME://version",
		"https://chromewebstore.google.com/detail/xyz",
		"https://chrome.google.com/webstore/category/extensions",
	}
	for _, target := range restricted {
		err := CheckTarget(target)
		var rpe *RestrictedPageError
		if !errors.As(err, &rpe) {
			t.Errorf("%s: expected *RestrictedPageError, got %v", target, err)
		}
	}

	allowed := []string{
		"https://example.com/blog/post",
		"https://chrome.google.com/intl/en/chrome/",
		"http://localhost:8080/",
		"./page.html",
		"/tmp/page.html",
		"-",
	}
	for _, target := range allowed {
		if err := CheckTarget(target); err != nil {
			t.Errorf("%s: unexpected error %v", target, err)
		}
	}
}

func TestScheme(t *testing.T) {
	tests := map[string]string{
		"-":                   "stdin",
		"https://example.com": "https",
		"HTTP://example.com":  "http",
		"file:///tmp/a.html":  "file",
		"page.html":           "file",
		"/abs/page.html":      "file",
		`C:\pages\a.html`:     "file",
	}
	for target, want := range tests {
		if got := Scheme(target); got != want {
			t.Errorf("Scheme(%q) = %q, want %q", target, got, want)
		}
	}
}

type fakeConnector struct{ loads int }

func (f *fakeConnector) Load(ctx context.Context, cfg ConnectorConfig, target string) (*dom.Document, error) {
	f.loads++
	return dom.ParseString("<p>" + target + "</p>")
}

func TestRegistry(t *testing.T) {
	fake := &fakeConnector{}
	Register("fake", func() Connector { return fake })

	ctor, err := Get("fake")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctor() != fake {
		t.Fatal("constructor returned a different connector")
	}
	if _, err := Get("gopher"); err == nil {
		t.Fatal("expected error for unknown scheme")
	}

	found := false
	for _, p := range Providers() {
		if p == "fake" {
			found = true
		}
	}
	if !found {
		t.Fatal("fake not listed in Providers")
	}

	doc, err := Open(context.Background(), ConnectorConfig{}, "fake://page")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if doc.TextContent() != "fake://page" || fake.loads != 1 {
		t.Fatalf("unexpected load: %q, %d", doc.TextContent(), fake.loads)
	}
}

func TestOpenRejectsRestricted(t *testing.T) {
	_, err := Open(context.Background(), ConnectorConfig{}, "chrome://newtab")
	var rpe *RestrictedPageError
	if !errors.As(err, &rpe) {
		t.Fatalf("expected *RestrictedPageError, got %v", err)
	}
}
