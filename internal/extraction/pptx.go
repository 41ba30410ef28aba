package extraction

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/pitch-perfect/internal/types"
)

const (
	nsDrawing      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPresentation = "http://schemas.openxmlformats.org/presentationml/2006/main"
	chartURI       = "http://schemas.openxmlformats.org/drawingml/2006/chart"
	notesRelSuffix = "/notesSlide"
)

var slidePart = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// placeholders that carry no spoken content
var skippedPlaceholders = map[string]bool{"sldNum": true, "dt": true, "ftr": true, "sldImg": true}

type slidePartRef struct {
	index int
	file  *zip.File
}

type relationships struct {
	Entries []struct {
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// shapeContent is what one slide or notes part contributes
type shapeContent struct {
	paragraphs []string
	hasImages  bool
	hasCharts  bool
}

func extractPPTX(filePath string) ([]types.SlideContent, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open pptx: %w", err)
	}
	defer func() { _ = zr.Close() }()

	files := make(map[string]*zip.File, len(zr.File))
	var parts []slidePartRef
	for _, f := range zr.File {
		files[f.Name] = f
		if m := slidePart.FindStringSubmatch(f.Name); m != nil {
			n, _ := strconv.Atoi(m[1])
			parts = append(parts, slidePartRef{index: n, file: f})
		}
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("pptx contains no slides")
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].index < parts[j].index })

	slides := make([]types.SlideContent, 0, len(parts))
	for _, part := range parts {
		content, err := readShapes(part.file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", part.file.Name, err)
		}
		slide := types.SlideContent{
			Text:      strings.Join(content.paragraphs, "\n"),
			HasImages: content.hasImages,
			HasCharts: content.hasCharts,
		}
		if notes := files[notesPartFor(files, part.file.Name)]; notes != nil {
			if nc, err := readShapes(notes); err == nil {
				slide.Notes = strings.Join(nc.paragraphs, "\n")
			}
		}
		slides = append(slides, slide)
	}
	return slides, nil
}

// notesPartFor resolves the notes slide linked from a slide's relationships
func notesPartFor(files map[string]*zip.File, slideName string) string {
	relsName := path.Join(path.Dir(slideName), "_rels", path.Base(slideName)+".rels")
	rf := files[relsName]
	if rf == nil {
		return ""
	}
	rc, err := rf.Open()
	if err != nil {
		return ""
	}
	defer func() { _ = rc.Close() }()

	var rels relationships
	if err := xml.NewDecoder(rc).Decode(&rels); err != nil {
		return ""
	}
	for _, r := range rels.Entries {
		if strings.HasSuffix(r.Type, notesRelSuffix) {
			return path.Clean(path.Join(path.Dir(slideName), r.Target))
		}
	}
	return ""
}

func readShapes(f *zip.File) (shapeContent, error) {
	rc, err := f.Open()
	if err != nil {
		return shapeContent{}, err
	}
	defer func() { _ = rc.Close() }()
	return parseShapes(rc)
}

// parseShapes walks a slide or notes part collecting paragraph text and
// visual markers. Text in slide number, date and footer placeholders is skipped.
func parseShapes(r io.Reader) (shapeContent, error) {
	var (
		out        shapeContent
		para       strings.Builder
		inText     bool
		inShape    bool
		skipShape  bool
		shapeParas []string
	)

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch {
			case el.Name.Space == nsPresentation && el.Name.Local == "sp":
				inShape, skipShape, shapeParas = true, false, nil
			case el.Name.Space == nsPresentation && el.Name.Local == "ph":
				if skippedPlaceholders[attr(el, "type")] {
					skipShape = true
				}
			case el.Name.Space == nsPresentation && el.Name.Local == "pic":
				out.hasImages = true
			case el.Name.Space == nsDrawing && el.Name.Local == "graphicData":
				if attr(el, "uri") == chartURI {
					out.hasCharts = true
				}
			case el.Name.Space == nsDrawing && el.Name.Local == "p":
				para.Reset()
			case el.Name.Space == nsDrawing && el.Name.Local == "t":
				inText = true
			case el.Name.Space == nsDrawing && el.Name.Local == "br":
				para.WriteString(" ")
			}
		case xml.CharData:
			if inText {
				para.Write(el)
			}
		case xml.EndElement:
			switch {
			case el.Name.Space == nsDrawing && el.Name.Local == "t":
				inText = false
			case el.Name.Space == nsDrawing && el.Name.Local == "p":
				text := strings.TrimSpace(para.String())
				if text == "" {
					continue
				}
				if inShape {
					shapeParas = append(shapeParas, text)
				} else {
					out.paragraphs = append(out.paragraphs, text)
				}
			case el.Name.Space == nsPresentation && el.Name.Local == "sp":
				if !skipShape {
					out.paragraphs = append(out.paragraphs, shapeParas...)
				}
				inShape = false
			}
		}
	}
	return out, nil
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
