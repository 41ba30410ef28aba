package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/pitch-perfect/internal/coaching"
	"github.com/jonathan/pitch-perfect/internal/extraction"
	"github.com/jonathan/pitch-perfect/internal/observability"
	"github.com/jonathan/pitch-perfect/internal/types"
)

var analyzeDeckCmd = &cobra.Command{
	Use:   "analyze-deck",
	Short: "Extract and analyze the slides of a PDF or PPTX deck",
	Long:  "Extract every slide of a deck and, unless --no-ai is set, analyze each one and optionally generate investor questions.",
	RunE:  runAnalyzeDeck,
}

var (
	deckIn        string
	deckOut       string
	deckTitle     string
	deckQuestions bool
	deckNoAI      bool
	deckVerbose   bool
)

// SlideReport is one slide of the analyze-deck output
type SlideReport struct {
	Content  types.SlideContent   `json:"content"`
	Analysis *types.SlideAnalysis `json:"analysis,omitempty"`
	Outcome  *coaching.Outcome    `json:"outcome,omitempty"`
}

// DeckReport is the output of analyze-deck
type DeckReport struct {
	Title     string                    `json:"title"`
	Slides    []SlideReport             `json:"slides"`
	Questions []types.GeneratedQuestion `json:"questions,omitempty"`
}

func init() {
	analyzeDeckCmd.Flags().StringVarP(&deckIn, "in", "i", "", "Path to a .pdf or .pptx deck")
	analyzeDeckCmd.Flags().StringVarP(&deckOut, "out", "o", "", "Write the JSON report here instead of stdout")
	analyzeDeckCmd.Flags().StringVar(&deckTitle, "title", "", "Deck title used in question prompts (defaults to the file name)")
	analyzeDeckCmd.Flags().BoolVar(&deckQuestions, "questions", false, "Also generate investor questions")
	analyzeDeckCmd.Flags().BoolVar(&deckNoAI, "no-ai", false, "Only extract slide content")
	analyzeDeckCmd.Flags().BoolVarP(&deckVerbose, "verbose", "v", false, "Print a readable summary to stderr")
	_ = analyzeDeckCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(analyzeDeckCmd)
}

func runAnalyzeDeck(cmd *cobra.Command, _ []string) error {
	slides, err := extraction.ExtractSlides(deckIn)
	if err != nil {
		return err
	}
	report := DeckReport{Title: deckTitle, Slides: make([]SlideReport, 0, len(slides))}
	if report.Title == "" {
		report.Title = titleFromPath(deckIn)
	}
	if deckNoAI {
		for _, s := range slides {
			report.Slides = append(report.Slides, SlideReport{Content: s})
		}
		return writeJSON(cmd, deckOut, report)
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	caller, err := a.caller(ctx)
	if err != nil {
		return err
	}
	printer := observability.NewPrinter(cmd.ErrOrStderr())

	analyzer := coaching.NewSlideAnalyzer(caller, a.log)
	summaries := make([]coaching.SlideSummary, 0, len(slides))
	for _, s := range slides {
		analysis, outcome := analyzer.Analyze(ctx, s)
		report.Slides = append(report.Slides, SlideReport{Content: s, Analysis: &analysis, Outcome: &outcome})
		summaries = append(summaries, coaching.SlideSummary{Number: s.Number, Type: analysis.SlideType, Text: s.Text})
		if deckVerbose {
			printer.PrintSlide(s, analysis, outcome)
		}
	}

	if deckQuestions {
		report.Questions, _ = coaching.NewQuestionGenerator(caller, a.log).Generate(ctx, coaching.QuestionInput{
			Title:       report.Title,
			TotalSlides: len(slides),
			Slides:      summaries,
		})
		if deckVerbose {
			printer.PrintQuestions(report.Questions)
		}
	}
	return writeJSON(cmd, deckOut, report)
}

func titleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
