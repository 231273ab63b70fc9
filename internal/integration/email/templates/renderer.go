// Package templates renders the notice bodies sent to residents.
package templates

import (
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

//go:embed *.html *.txt
var templateFS embed.FS

// DelinquencyNoticeData contains data for the delinquency notice template.
type DelinquencyNoticeData struct {
	ResidentName string
	Unit         string
	Balance      string
	Threshold    string
	AsOf         string
	StatementURL string
}

// Renderer executes the embedded notice templates. Every notice ships an
// HTML body and a plain text alternative.
type Renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	html, err := htmltemplate.ParseFS(templateFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse html notice templates: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse text notice templates: %w", err)
	}
	return &Renderer{html: html, text: text}, nil
}

// Has reports whether both bodies exist for name.
func (r *Renderer) Has(name string) bool {
	return r.html.Lookup(name+".html") != nil && r.text.Lookup(name+".txt") != nil
}

// Render returns the HTML and text bodies of the named notice.
func (r *Renderer) Render(name string, data any) (string, string, error) {
	if !r.Has(name) {
		return "", "", fmt.Errorf("notice template %q not found", name)
	}

	var html, text strings.Builder
	if err := r.html.ExecuteTemplate(&html, name+".html", data); err != nil {
		return "", "", fmt.Errorf("render %s html: %w", name, err)
	}
	if err := r.text.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return "", "", fmt.Errorf("render %s text: %w", name, err)
	}
	return html.String(), text.String(), nil
}
