// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/pitch-perfect/internal/coaching"
	"github.com/jonathan/pitch-perfect/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(shorten(line, inner), inner))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintMetrics outputs the deterministic transcript metrics
func (p *Printer) PrintMetrics(m types.TranscriptMetrics) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Words:       %d (%d unique, ratio %.2f)\n", m.WordCount, m.UniqueWordCount, m.VocabularyRatio)
	fmt.Fprintf(&sb, "Sentences:   %d\n", m.SentenceCount)
	fmt.Fprintf(&sb, "Pace:        %.2f WPM -> %.0f\n", m.SpeakingPaceWPM, m.PaceScore)
	fmt.Fprintf(&sb, "Fillers:     %d -> clarity %.0f", m.FillerWordCount, m.ClarityScore)
	if summary := coaching.FillerSummary(m.FillerWordBreakdown, maxItemsToShow); summary != "" {
		fmt.Fprintf(&sb, "\n  %s", summary)
	}
	p.printBox("TRANSCRIPT METRICS", sb.String())
}

// PrintFeedback outputs the composed feedback and whether it fell back to defaults
func (p *Printer) PrintFeedback(f types.FeedbackResult, outcome coaching.Outcome) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Overall:     %.2f\n", f.OverallScore)
	fmt.Fprintf(&sb, "Pace %.0f  Clarity %.0f  Confidence %.0f\n", f.PaceScore, f.ClarityScore, f.ConfidenceScore)
	fmt.Fprintf(&sb, "Content %.0f  Structure %.0f\n", f.ContentScore, f.StructureScore)
	if outcome.Degraded {
		fmt.Fprintf(&sb, "AI unavailable (%s), default scores used\n", outcome.Reason)
	} else if len(outcome.Repaired) > 0 {
		fmt.Fprintf(&sb, "Backfilled: %s\n", strings.Join(outcome.Repaired, ", "))
	}
	sb.WriteString("\n")
	writeWrapped(&sb, f.Feedback)
	writeList(&sb, "Strengths", f.Strengths)
	writeList(&sb, "Improvements", f.Improvements)

	p.printBox("PRACTICE FEEDBACK", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSlide outputs one analyzed slide
func (p *Printer) PrintSlide(slide types.SlideContent, analysis types.SlideAnalysis, outcome coaching.Outcome) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Type: %s  Score: %.0f  Speaking: %ds\n", analysis.SlideType, analysis.QualityScore, analysis.EstimatedSpeakingTime)
	fmt.Fprintf(&sb, "Words: %d  Images: %t  Charts: %t\n", slide.WordCount, slide.HasImages, slide.HasCharts)
	if outcome.Degraded {
		fmt.Fprintf(&sb, "AI unavailable (%s)\n", outcome.Reason)
	}
	writeList(&sb, "Strengths", analysis.Strengths)
	writeList(&sb, "Weaknesses", analysis.Weaknesses)
	writeList(&sb, "Key points", analysis.KeyPoints)

	p.printBox(fmt.Sprintf("SLIDE %d", slide.Number), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintQuestions outputs generated investor questions
func (p *Printer) PrintQuestions(questions []types.GeneratedQuestion) {
	if len(questions) == 0 {
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generated %d questions:\n\n", len(questions))
	for i, q := range questions {
		fmt.Fprintf(&sb, "%d. [%s/%s]", i+1, q.Category, q.Difficulty)
		if q.RelatedSlideNumber != nil {
			fmt.Fprintf(&sb, " slide %d", *q.RelatedSlideNumber)
		}
		sb.WriteString("\n")
		writeWrapped(&sb, q.QuestionText)
	}
	p.printBox("INVESTOR QUESTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n%s:\n", label)
	count := min(len(items), maxItemsToShow)
	for _, item := range items[:count] {
		fmt.Fprintf(sb, "  • %s\n", item)
	}
	if len(items) > count {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-count)
	}
}

// writeWrapped word-wraps text to the box width
func writeWrapped(sb *strings.Builder, text string) {
	line := ""
	for _, word := range strings.Fields(text) {
		if line != "" && utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) > boxWidth-4 {
			sb.WriteString(line + "\n")
			line = ""
		}
		if line != "" {
			line += " "
		}
		line += word
	}
	if line != "" {
		sb.WriteString(line + "\n")
	}
}

func shorten(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

func pad(s string, n int) string {
	if gap := n - utf8.RuneCountInString(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
