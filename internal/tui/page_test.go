package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const samplePage = `<!doctype html>
<html>
<head><title> My App </title><style>body{color:red}</style></head>
<body>
  <h1>Welcome</h1>
  <p>Hello   <b>world</b>.</p>
  <script>console.log("hidden")</script>
  <ul><li>one</li><li>two</li></ul>
</body>
</html>`

func TestExtractPage(t *testing.T) {
	page, err := ExtractPage(strings.NewReader(samplePage))
	if err != nil {
		t.Fatalf("ExtractPage: %v", err)
	}
	if page.Title != "My App" {
		t.Fatalf("unexpected title %q", page.Title)
	}
	want := "Welcome\nHello world .\none\ntwo"
	if page.Text != want {
		t.Fatalf("unexpected text %q, want %q", page.Text, want)
	}
	if strings.Contains(page.Text, "hidden") || strings.Contains(page.Text, "color") {
		t.Fatalf("script or style leaked into text: %q", page.Text)
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	page, err := Fetch(context.Background(), srv.Client(), srv.URL+"/")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if page.Status != http.StatusOK || page.Title != "My App" || page.URL != srv.URL+"/" {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestFetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := Fetch(context.Background(), nil, url); err == nil {
		t.Fatal("expected error for closed server")
	}
}
