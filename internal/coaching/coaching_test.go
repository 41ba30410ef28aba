package coaching

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jonathan/pitch-perfect/internal/llm"
	"github.com/jonathan/pitch-perfect/internal/orchestrator"
	"github.com/jonathan/pitch-perfect/internal/throttle"
)

// fakeCaller returns a fixed result and records what it was asked
type fakeCaller struct {
	result  orchestrator.Result
	prompts []string
	schemas []*orchestrator.Schema
}

func (f *fakeCaller) Call(_ context.Context, prompt string, schema *orchestrator.Schema) orchestrator.Result {
	f.prompts = append(f.prompts, prompt)
	f.schemas = append(f.schemas, schema)
	return f.result
}

// MockLLMClient implements llm.Client for tests
type MockLLMClient struct {
	GenerateJSONFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
}

func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return m.GenerateJSON(ctx, prompt, tier)
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return "", errors.New("not implemented")
}

func (m *MockLLMClient) Close() error { return nil }

type instantTimer struct{ c chan time.Time }

func (t *instantTimer) Start(time.Duration) {
	t.c = make(chan time.Time, 1)
	t.c <- time.Time{}
}
func (t *instantTimer) Stop()               {}
func (t *instantTimer) C() <-chan time.Time { return t.c }

// newRealOrchestrator wires the real orchestrator to a mock client with no delays
func newRealOrchestrator(t *testing.T, response string, err error) *orchestrator.Orchestrator {
	t.Helper()
	o, oerr := orchestrator.New(orchestrator.Config{
		Client: &MockLLMClient{GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			return response, err
		}},
		Throttle: throttle.None{},
		Timer:    &instantTimer{},
	})
	require.NoError(t, oerr)
	return o
}
