package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layout.html":         {Data: []byte(`{{define "base"}}<html>{{template "content" .}}</html>{{end}}`)},
		"index.html":          {Data: []byte(`{{define "content"}}<h1>{{.Title}}</h1>{{template "greeting" .}}{{end}}`)},
		"partials/greet.html": {Data: []byte(`{{define "greeting"}}<p>hi {{.Name}}</p>{{end}}`)},
	}
}

func TestRenderer_Render(t *testing.T) {
	r, err := NewRenderer(testFS(), nil)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, "index", map[string]string{"Title": "Lookup", "Name": "<b>"}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	got := buf.String()
	want := "<html><h1>Lookup</h1><p>hi &lt;b&gt;</p></html>"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderer_UnknownPage(t *testing.T) {
	r, err := NewRenderer(testFS(), nil)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	if _, err := r.Execute("missing"); err == nil {
		t.Error("expected error for unknown template")
	}

	rec := httptest.NewRecorder()
	r.RenderHTTP(rec, "missing", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestRenderer_RenderPartial(t *testing.T) {
	r, err := NewRenderer(testFS(), nil)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	rec := httptest.NewRecorder()
	r.RenderPartial(rec, http.StatusConflict, "greeting", map[string]string{"Name": "there"})

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
	if !strings.Contains(rec.Body.String(), "hi there") {
		t.Errorf("body = %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestNewRenderer_MissingLayout(t *testing.T) {
	fsys := testFS()
	delete(fsys, "layout.html")

	if _, err := NewRenderer(fsys, nil); err == nil {
		t.Error("expected error when layout is missing")
	}
}
