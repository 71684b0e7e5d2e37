package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// Engine runs optical character recognition through the Tesseract CLI and
// rasterizes PDF pages through pdftoppm (poppler-utils). Both tools are
// external engines; their configuration stays opaque to callers.
type Engine struct {
	TesseractPath string
	PdftoppmPath  string
	Language      string
}

// NewEngine constructs an Engine with default binary names resolved from PATH.
func NewEngine(language string) *Engine {
	if strings.TrimSpace(language) == "" {
		language = "eng"
	}
	return &Engine{
		TesseractPath: "tesseract",
		PdftoppmPath:  "pdftoppm",
		Language:      language,
	}
}

// RasterizePages renders every page of the PDF at path to a PNG image.
func (e *Engine) RasterizePages(ctx context.Context, path string, dpi int) ([][]byte, error) {
	tmpDir, err := os.MkdirTemp("", "consent-raster-*")
	if err != nil {
		return nil, fmt.Errorf("raster tmp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	cmd := exec.CommandContext(ctx, e.PdftoppmPath, "-r", fmt.Sprint(dpi), "-png", path, prefix)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdftoppm: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return nil, fmt.Errorf("read raster dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".png") {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no pages for %s", path)
	}
	// pdftoppm zero-pads page numbers, so lexical order is page order.
	sort.Strings(names)

	images := make([][]byte, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(tmpDir, name))
		if err != nil {
			return nil, fmt.Errorf("read raster page %s: %w", name, err)
		}
		images = append(images, data)
	}
	return images, nil
}

// Recognize extracts text from a single page image.
func (e *Engine) Recognize(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("empty image")
	}

	cmd := exec.CommandContext(ctx, e.TesseractPath, "stdin", "stdout", "-l", e.Language)
	cmd.Stdin = bytes.NewReader(image)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
