package main

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		resetFlags()
	})
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores package flag variables between commands run in one process
func resetFlags() {
	transcriptIn, transcriptOut, transcriptPitchType = "", "", "other"
	transcriptDuration, transcriptTarget = 0, 0
	transcriptFeedback, transcriptVerbose = false, false
	deckIn, deckOut, deckTitle = "", "", ""
	deckQuestions, deckNoAI, deckVerbose = false, false, false
	migratePrint = false
	workerConcurrency = 0
}

func TestAnalyzeTranscript_MetricsOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pitch.txt")
	require.NoError(t, os.WriteFile(path, []byte("Um, we help teams ship faster. Our customers love it."), 0o644))

	out, err := execute(t, "analyze-transcript", "--in", path, "--duration", "60")
	require.NoError(t, err)

	var report TranscriptReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 10, report.Metrics.WordCount)
	assert.Equal(t, 2, report.Metrics.SentenceCount)
	assert.Equal(t, 1, report.Metrics.FillerWordCount)
	assert.Equal(t, 1, report.Metrics.FillerWordBreakdown["um"])
	assert.Nil(t, report.Feedback)
	assert.Nil(t, report.Outcome)
}

func TestAnalyzeTranscript_WritesOutFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "pitch.txt")
	outPath := filepath.Join(dir, "report.json")
	require.NoError(t, os.WriteFile(in, []byte("Hello investors."), 0o644))

	stdout, err := execute(t, "analyze-transcript", "--in", in, "--out", outPath)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"word_count": 2`)
}

func TestAnalyzeTranscript_MissingFile(t *testing.T) {
	_, err := execute(t, "analyze-transcript", "--in", filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read input file")
}

func TestAnalyzeDeck_ExtractOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acme.pptx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("ppt/slides/slide1.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree><p:sp><p:txBody><a:p><a:r><a:t>Acme Robotics</a:t></a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld></p:sld>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	out, err := execute(t, "analyze-deck", "--in", path, "--no-ai")
	require.NoError(t, err)

	var report DeckReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "acme", report.Title)
	require.Len(t, report.Slides, 1)
	assert.Equal(t, "Acme Robotics", report.Slides[0].Content.Text)
	assert.Nil(t, report.Slides[0].Analysis)
	assert.Empty(t, report.Questions)
}

func TestAnalyzeDeck_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.key")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := execute(t, "analyze-deck", "--in", path, "--no-ai")
	require.Error(t, err)
}

func TestMigrate_Print(t *testing.T) {
	out, err := execute(t, "migrate", "--print")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "CREATE TABLE IF NOT EXISTS pitch_decks ("))
}

func TestWorker_RequiresRedis(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")

	_, err := execute(t, "worker")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_ADDR")
}

func TestTitleFromPath(t *testing.T) {
	assert.Equal(t, "seed-deck", titleFromPath("/tmp/uploads/seed-deck.pdf"))
	assert.Equal(t, "deck", titleFromPath("deck"))
}
