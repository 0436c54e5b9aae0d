// Package export produces downloadable artifacts from a rendered
// newsletter: the standalone HTML document, and a PDF printed from it
// in headless Chrome.
package export

import (
	"fmt"

	"github.com/classkit/newsletter-studio/internal/newsletter"
)

// HTMLRenderer produces the standalone HTML document for a newsletter.
type HTMLRenderer interface {
	RenderHTML(n *newsletter.Newsletter) (string, error)
}

// PDFPrinter turns an HTML document into PDF bytes. The production
// printer drives headless Chrome; tests substitute a stub so no
// browser is needed.
type PDFPrinter func(htmlContent string) ([]byte, error)

// Exporter renders export artifacts from a read-only snapshot of the
// document; it never mutates the newsletter.
type Exporter struct {
	renderer HTMLRenderer
	print    PDFPrinter
}

// NewExporter creates an exporter printing through headless Chrome. A
// nil printer selects the default.
func NewExporter(renderer HTMLRenderer, print PDFPrinter) *Exporter {
	if print == nil {
		print = PrintPDF
	}
	return &Exporter{renderer: renderer, print: print}
}

// HTML returns the newsletter as a standalone HTML document.
func (e *Exporter) HTML(n *newsletter.Newsletter) (string, error) {
	out, err := e.renderer.RenderHTML(n)
	if err != nil {
		return "", fmt.Errorf("failed to render newsletter: %w", err)
	}
	return out, nil
}

// PDF renders the newsletter and prints it to PDF.
func (e *Exporter) PDF(n *newsletter.Newsletter) ([]byte, error) {
	html, err := e.HTML(n)
	if err != nil {
		return nil, err
	}
	data, err := e.print(html)
	if err != nil {
		return nil, fmt.Errorf("failed to print pdf: %w", err)
	}
	return data, nil
}
