package pdftext

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// Provider reads embedded per-page text from PDF documents.
type Provider struct{}

// PagesText returns the plain text of each page in order. Pages without a
// content stream yield empty strings.
func (Provider) PagesText(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	total := reader.NumPage()
	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d text: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
