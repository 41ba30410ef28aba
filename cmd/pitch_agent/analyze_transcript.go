package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/pitch-perfect/internal/coaching"
	"github.com/jonathan/pitch-perfect/internal/observability"
	"github.com/jonathan/pitch-perfect/internal/textmetrics"
	"github.com/jonathan/pitch-perfect/internal/types"
)

var analyzeTranscriptCmd = &cobra.Command{
	Use:   "analyze-transcript",
	Short: "Score a practice transcript",
	Long:  "Compute transcript metrics and, with --feedback, AI coaching feedback with the composite overall score.",
	RunE:  runAnalyzeTranscript,
}

var (
	transcriptIn        string
	transcriptOut       string
	transcriptDuration  int
	transcriptTarget    int
	transcriptPitchType string
	transcriptFeedback  bool
	transcriptVerbose   bool
)

// TranscriptReport is the output of analyze-transcript
type TranscriptReport struct {
	Metrics  types.TranscriptMetrics `json:"metrics"`
	Feedback *types.FeedbackResult   `json:"feedback,omitempty"`
	Outcome  *coaching.Outcome       `json:"outcome,omitempty"`
}

func init() {
	analyzeTranscriptCmd.Flags().StringVarP(&transcriptIn, "in", "i", "", "Transcript text file, or - for stdin")
	analyzeTranscriptCmd.Flags().StringVarP(&transcriptOut, "out", "o", "", "Write the JSON report here instead of stdout")
	analyzeTranscriptCmd.Flags().IntVar(&transcriptDuration, "duration", 0, "Speaking time in seconds")
	analyzeTranscriptCmd.Flags().IntVar(&transcriptTarget, "target", 0, "Target duration in seconds")
	analyzeTranscriptCmd.Flags().StringVar(&transcriptPitchType, "pitch-type", string(types.PitchTypeOther), "elevator, demo_day, investor, customer or other")
	analyzeTranscriptCmd.Flags().BoolVar(&transcriptFeedback, "feedback", false, "Also request AI coaching feedback")
	analyzeTranscriptCmd.Flags().BoolVarP(&transcriptVerbose, "verbose", "v", false, "Print a readable summary to stderr")
	_ = analyzeTranscriptCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(analyzeTranscriptCmd)
}

func runAnalyzeTranscript(cmd *cobra.Command, _ []string) error {
	transcript, err := readInput(cmd, transcriptIn)
	if err != nil {
		return err
	}
	printer := observability.NewPrinter(cmd.ErrOrStderr())

	report := TranscriptReport{Metrics: textmetrics.Analyze(transcript, transcriptDuration)}
	if transcriptVerbose {
		printer.PrintMetrics(report.Metrics)
	}

	if transcriptFeedback {
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

		feedback, outcome := coaching.NewFeedbackGenerator(caller, a.log).Generate(ctx, coaching.FeedbackInput{
			PitchType:             types.PitchType(transcriptPitchType),
			Transcript:            transcript,
			DurationSeconds:       transcriptDuration,
			TargetDurationSeconds: transcriptTarget,
			Metrics:               report.Metrics,
		})
		report.Feedback, report.Outcome = &feedback, &outcome
		if transcriptVerbose {
			printer.PrintFeedback(feedback, outcome)
		}
	}

	return writeJSON(cmd, transcriptOut, report)
}
