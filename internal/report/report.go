package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"QuoteReport/internal/model"
)

// Meta is the title page content.
type Meta struct {
	Title       string
	GeneratedAt time.Time
	RunID       string
	// AssetsHost overrides the go-echarts CDN.
	AssetsHost string
}

// NewMeta stamps a title with the current time and a fresh run id.
func NewMeta(title, assetsHost string) Meta {
	return Meta{
		Title:       title,
		GeneratedAt: time.Now(),
		RunID:       uuid.NewString(),
		AssetsHost:  assetsHost,
	}
}

// Printer turns report HTML into a PDF document.
type Printer interface {
	PrintPDF(ctx context.Context, html []byte) ([]byte, error)
}

// Renderer writes reports to disk.
type Renderer struct {
	Printer Printer
}

// NewRenderer creates a Renderer that prints through p.
func NewRenderer(p Printer) *Renderer {
	return &Renderer{Printer: p}
}

// Render builds the report for set and writes it to out. A .html or .htm
// extension writes the page itself, anything else is printed to PDF. It
// returns the absolute path written.
func (r *Renderer) Render(ctx context.Context, set *model.SeriesSet, meta Meta, out string) (string, error) {
	abs, err := filepath.Abs(out)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}

	html, err := BuildHTML(set, meta)
	if err != nil {
		return "", err
	}

	data := html
	if !IsHTMLPath(abs) {
		if r.Printer == nil {
			return "", fmt.Errorf("no PDF printer configured for %s", abs)
		}
		data, err = r.Printer.PrintPDF(ctx, html)
		if err != nil {
			return "", fmt.Errorf("print pdf: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return abs, nil
}

// IsHTMLPath reports whether path asks for HTML output.
func IsHTMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}
