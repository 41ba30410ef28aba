// Package extraction turns uploaded pitch decks into per-slide content.
package extraction

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/pitch-perfect/internal/textmetrics"
	"github.com/jonathan/pitch-perfect/internal/types"
)

// Supported deck file types
const (
	FileTypePDF  = "pdf"
	FileTypePPTX = "pptx"
)

// UnsupportedFormatError is returned for files that are neither PDF nor PPTX
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported deck format %q: expected .pdf or .pptx", e.Extension)
}

// FileType maps a file name to a supported deck type
func FileType(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".pdf":
		return FileTypePDF, nil
	case ".pptx":
		return FileTypePPTX, nil
	default:
		return "", &UnsupportedFormatError{Extension: ext}
	}
}

// ExtractSlides reads the deck at path and returns one entry per slide or page,
// numbered from 1.
func ExtractSlides(path string) ([]types.SlideContent, error) {
	kind, err := FileType(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("deck not found: %w", err)
		}
		return nil, fmt.Errorf("failed to stat deck: %w", err)
	}

	var slides []types.SlideContent
	switch kind {
	case FileTypePPTX:
		slides, err = extractPPTX(path)
	default:
		slides, err = extractPDF(path)
	}
	if err != nil {
		return nil, err
	}

	for i := range slides {
		slides[i].Number = i + 1
		slides[i].Text = CleanText(slides[i].Text)
		slides[i].Notes = CleanText(slides[i].Notes)
		slides[i].WordCount = textmetrics.CountWords(slides[i].Text)
	}
	return slides, nil
}
