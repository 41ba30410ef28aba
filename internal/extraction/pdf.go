package extraction

import (
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/jonathan/pitch-perfect/internal/types"
)

func extractPDF(filePath string) (slides []types.SlideContent, err error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	// the reader panics on some malformed content streams
	defer func() {
		if rec := recover(); rec != nil {
			slides, err = nil, fmt.Errorf("failed to read pdf: %v", rec)
		}
	}()

	total := r.NumPage()
	if total == 0 {
		return nil, fmt.Errorf("pdf contains no pages")
	}

	slides = make([]types.SlideContent, 0, total)
	for i := 1; i <= total; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			slides = append(slides, types.SlideContent{})
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read text of page %d: %w", i, err)
		}
		slides = append(slides, types.SlideContent{
			Text:      text,
			HasImages: pageHasImages(page),
		})
	}
	return slides, nil
}

func pageHasImages(page pdf.Page) bool {
	xobjects := page.Resources().Key("XObject")
	for _, name := range xobjects.Keys() {
		if xobjects.Key(name).Key("Subtype").Name() == "Image" {
			return true
		}
	}
	return false
}
