package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
)

// Renderer manages template parsing and rendering with isolated template sets.
// Every page is layout.html plus the page file plus all partials; partials are
// also available on their own for fragment responses.
type Renderer struct {
	templates map[string]*template.Template
	partials  *template.Template
	logger    *slog.Logger
}

// NewRenderer parses layout.html, *.html pages and partials/*.html from fsys.
func NewRenderer(fsys fs.FS, logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	templates := make(map[string]*template.Template)

	partials, err := template.New("partials").Funcs(TemplateFuncs()).ParseFS(fsys, "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse partials: %w", err)
	}

	// Parse layout once as base template
	baseTmpl, err := partials.Clone()
	if err != nil {
		return nil, fmt.Errorf("failed to clone partials: %w", err)
	}
	baseTmpl, err = baseTmpl.ParseFS(fsys, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	pages, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob templates: %w", err)
	}

	// Clone base template for each page
	for _, page := range pages {
		if page == "layout.html" {
			continue
		}

		pageTmpl, err := baseTmpl.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone template for %s: %w", page, err)
		}

		pageTmpl, err = pageTmpl.ParseFS(fsys, page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", page, err)
		}

		// Store with base name as key (without extension)
		pageName := page[:len(page)-len(path.Ext(page))]
		templates[pageName] = pageTmpl
	}

	return &Renderer{
		templates: templates,
		partials:  partials,
		logger:    logger,
	}, nil
}

// Execute returns the template set of a page.
func (r *Renderer) Execute(name string) (*template.Template, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	return tmpl, nil
}

// Render executes a page's "base" template into w.
func (r *Renderer) Render(w io.Writer, name string, data interface{}) error {
	tmpl, err := r.Execute(name)
	if err != nil {
		return err
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}

// RenderHTTP renders a full page. Output is buffered so a template error
// never leaves a half-written page.
func (r *Renderer) RenderHTTP(w http.ResponseWriter, name string, data interface{}) {
	r.RenderHTTPStatus(w, http.StatusOK, name, data)
}

// RenderHTTPStatus renders a full page with the given status.
func (r *Renderer) RenderHTTPStatus(w http.ResponseWriter, status int, name string, data interface{}) {
	r.write(w, status, func(buf *bytes.Buffer) error {
		return r.Render(buf, name, data)
	})
}

// RenderPartial renders a single partial, e.g. "result" or "history".
func (r *Renderer) RenderPartial(w http.ResponseWriter, status int, name string, data interface{}) {
	r.write(w, status, func(buf *bytes.Buffer) error {
		return r.partials.ExecuteTemplate(buf, name, data)
	})
}

func (r *Renderer) write(w http.ResponseWriter, status int, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		r.logger.Error("render error", "error", err)
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
