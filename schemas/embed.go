// Package schemas holds the JSON Schemas that AI responses are validated against.
package schemas

import (
	"embed"
	"fmt"
)

// Schema file names
const (
	SlideAnalysis = "slide_analysis.schema.json"
	Feedback      = "feedback.schema.json"
	Question      = "question.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Read returns the content of an embedded schema file
func Read(name string) (string, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("schema %s not found: %w", name, err)
	}
	return string(data), nil
}

// MustRead returns the content of an embedded schema file and panics if it is missing
func MustRead(name string) string {
	content, err := Read(name)
	if err != nil {
		panic(err)
	}
	return content
}

// Names lists every embedded schema
func Names() []string {
	return []string{SlideAnalysis, Feedback, Question}
}
