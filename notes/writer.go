// Package notes writes scan results to disk.
package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Writer persists OCR output files, named from the input image's stem.
// Existing files at the target paths are overwritten.
type Writer struct {
	// OutputDir is the directory to write files to, created if absent
	OutputDir string

	// Verbose enables per-file write reporting
	Verbose bool
}

// NewWriter creates a Writer for the given output directory. An empty
// directory means the current directory.
func NewWriter(outputDir string) *Writer {
	if outputDir == "" {
		outputDir = "."
	}
	return &Writer{OutputDir: outputDir}
}

// Stem returns the image's base name with the extension stripped
func Stem(imagePath string) string {
	base := filepath.Base(imagePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// WriteRaw writes the raw OCR text to <stem>.raw.txt and returns the path
func (w *Writer) WriteRaw(imagePath, text string) (string, error) {
	return w.write(Stem(imagePath)+".raw.txt", text)
}

// WriteClean writes the cleaned Markdown to <stem>.clean.md and returns the path
func (w *Writer) WriteClean(imagePath, text string) (string, error) {
	return w.write(Stem(imagePath)+".clean.md", text)
}

func (w *Writer) write(filename, text string) (string, error) {
	if err := os.MkdirAll(w.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(w.OutputDir, filename)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	if w.Verbose {
		fmt.Printf("  Wrote: %s (%d bytes)\n", path, len(text))
	}

	return path, nil
}
