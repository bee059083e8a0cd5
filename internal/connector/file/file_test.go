package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/crimson-sun/pagepulse/internal/connector"
)

func writePage(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPath(t *testing.T) {
	path := writePage(t, "<p>Hello from disk</p>")
	doc, err := (&Connector{}).Load(context.Background(), connector.ConnectorConfig{}, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := doc.TextContent(); got != "Hello from disk" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestLoadFileURL(t *testing.T) {
	path := writePage(t, "<p>From a URL</p>")
	doc, err := (&Connector{}).Load(context.Background(), connector.ConnectorConfig{}, "file://"+filepath.ToSlash(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := doc.TextContent(); got != "From a URL" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := (&Connector{}).Load(context.Background(), connector.ConnectorConfig{}, filepath.Join(t.TempDir(), "nope.html"))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestPathRejectsRemoteHost(t *testing.T) {
	if _, err := Path("file://example.com/etc/passwd"); err == nil {
		t.Fatal("expected error")
	}
}

func TestRegisteredViaOpen(t *testing.T) {
	path := writePage(t, "<p>Opened</p>")
	doc, err := connector.Open(context.Background(), connector.ConnectorConfig{}, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if doc.TextContent() != "Opened" {
		t.Fatalf("unexpected text %q", doc.TextContent())
	}
}
