package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"consent-backend/internal/shared/telemetry"
)

// Mode selects the extraction strategy.
type Mode string

const (
	// ModePrimary reads embedded layout text only.
	ModePrimary Mode = "primary"
	// ModeSecondary rasterizes pages and runs OCR only.
	ModeSecondary Mode = "secondary"
	// ModeAuto tries layout text first and falls back to OCR when the
	// result is too short or the layout read fails.
	ModeAuto Mode = "auto"
)

const (
	// DefaultMinPrimaryChars is the trimmed length below which auto mode
	// falls through to OCR.
	DefaultMinPrimaryChars = 50
	// DefaultRasterDPI is the rasterization resolution for OCR.
	DefaultRasterDPI = 300
)

// ErrDocumentNotFound indicates the referenced document does not exist.
var ErrDocumentNotFound = errors.New("document not found")

// LayoutTextProvider extracts per-page text from a document's embedded
// layout data.
type LayoutTextProvider interface {
	PagesText(ctx context.Context, path string) ([]string, error)
}

// TextRecognitionProvider runs optical character recognition on one
// page image.
type TextRecognitionProvider interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// DocumentRasterizer renders document pages to images at the given DPI.
type DocumentRasterizer interface {
	RasterizePages(ctx context.Context, path string, dpi int) ([][]byte, error)
}

// Extractor turns a document into raw text using a layout-aware primary
// strategy and an OCR secondary strategy.
type Extractor struct {
	Layout          LayoutTextProvider
	Rasterizer      DocumentRasterizer
	OCR             TextRecognitionProvider
	MinPrimaryChars int
	RasterDPI       int
}

// ParseMode maps a configuration string onto a Mode.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModePrimary:
		return ModePrimary, nil
	case ModeSecondary:
		return ModeSecondary, nil
	case ModeAuto, Mode(""):
		return ModeAuto, nil
	default:
		return "", fmt.Errorf("unknown extraction mode: %s", raw)
	}
}

// Extract produces the document's raw text under the given mode.
func (e *Extractor) Extract(ctx context.Context, path string, mode Mode) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
		}
		return "", fmt.Errorf("stat document %s: %w", path, err)
	}

	switch mode {
	case ModePrimary:
		return e.extractLayout(ctx, path)
	case ModeSecondary:
		return e.extractOCR(ctx, path)
	case ModeAuto:
		return e.extractAuto(ctx, path)
	default:
		return "", fmt.Errorf("unknown extraction mode: %s", mode)
	}
}

// extractAuto runs the layout strategy and falls back to OCR when the
// layout result is shorter than the threshold or the layout read fails.
// The layout error is never surfaced if OCR succeeds.
func (e *Extractor) extractAuto(ctx context.Context, path string) (string, error) {
	threshold := e.MinPrimaryChars
	if threshold <= 0 {
		threshold = DefaultMinPrimaryChars
	}

	text, layoutErr := e.extractLayout(ctx, path)
	if layoutErr == nil && len(strings.TrimSpace(text)) >= threshold {
		return text, nil
	}

	if layoutErr != nil {
		telemetry.Warn("extract.layout_failed", map[string]any{
			"path": path,
			"err":  layoutErr.Error(),
		})
	} else {
		telemetry.Info("extract.layout_insufficient", map[string]any{
			"path":      path,
			"chars":     len(strings.TrimSpace(text)),
			"threshold": threshold,
		})
	}

	ocrText, ocrErr := e.extractOCR(ctx, path)
	if ocrErr == nil {
		return ocrText, nil
	}
	if layoutErr != nil {
		return "", fmt.Errorf("both extraction strategies failed: layout: %v; ocr: %w", layoutErr, ocrErr)
	}
	return "", fmt.Errorf("layout text below %d chars and ocr failed: %w", threshold, ocrErr)
}

func (e *Extractor) extractLayout(ctx context.Context, path string) (string, error) {
	pages, err := e.Layout.PagesText(ctx, path)
	if err != nil {
		return "", fmt.Errorf("layout extraction %s: %w", path, err)
	}
	var b strings.Builder
	for i, pageText := range pages {
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		writePageTag(&b, i+1)
		b.WriteString(pageText)
	}
	return b.String(), nil
}

func (e *Extractor) extractOCR(ctx context.Context, path string) (string, error) {
	dpi := e.RasterDPI
	if dpi <= 0 {
		dpi = DefaultRasterDPI
	}
	images, err := e.Rasterizer.RasterizePages(ctx, path, dpi)
	if err != nil {
		return "", fmt.Errorf("rasterize %s: %w", path, err)
	}
	var b strings.Builder
	for i, image := range images {
		pageText, err := e.OCR.Recognize(ctx, image)
		if err != nil {
			return "", fmt.Errorf("ocr page %d of %s: %w", i+1, path, err)
		}
		writePageTag(&b, i+1)
		b.WriteString(pageText)
	}
	return b.String(), nil
}

func writePageTag(b *strings.Builder, page int) {
	fmt.Fprintf(b, "\n--- Page %d ---\n", page)
}
