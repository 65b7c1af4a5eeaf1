package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// wordTokenizer treats each whitespace-separated word as one token. It keeps
// a stable word<->id mapping so Decode(Encode(text)) round-trips, which is
// all the chunker needs from a tokenizer.
type wordTokenizer struct {
	mu    sync.Mutex
	ids   map[string]int
	words []string
}

func newWordTokenizer() *wordTokenizer {
	return &wordTokenizer{ids: make(map[string]int)}
}

func (w *wordTokenizer) Count(text string) int {
	return len(strings.Fields(text))
}

func (w *wordTokenizer) Encode(text string) []int {
	w.mu.Lock()
	defer w.mu.Unlock()
	fields := strings.Fields(text)
	tokens := make([]int, 0, len(fields))
	for _, f := range fields {
		id, ok := w.ids[f]
		if !ok {
			id = len(w.words)
			w.ids[f] = id
			w.words = append(w.words, f)
		}
		tokens = append(tokens, id)
	}
	return tokens
}

func (w *wordTokenizer) Decode(tokens []int) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	fields := make([]string, 0, len(tokens))
	for _, id := range tokens {
		fields = append(fields, w.words[id])
	}
	return strings.Join(fields, " ")
}

type summarizeCall struct {
	prev  string
	chunk string
}

// fakeCapability is a deterministic in-memory Capability. It records every
// call and can be told to fail at specific points.
type fakeCapability struct {
	mu             sync.Mutex
	summarizeCalls []summarizeCall
	mergeCalls     [][]Summary
	analyzeCalls   int

	failSummarizeAt int // chunk call index, -1 disables
	failMergeAt     int // merge call index, -1 disables
	analyzeErr      error

	report AnalysisReport
}

func newFakeCapability() *fakeCapability {
	return &fakeCapability{
		failSummarizeAt: -1,
		failMergeAt:     -1,
		report: AnalysisReport{
			ExecutiveSummary: "executive summary",
			MainConclusions:  []string{"conclusion one"},
			KeyInsights:      []string{"insight one"},
			ConfidenceLevel:  "high",
		},
	}
}

func (f *fakeCapability) SummarizeChunk(ctx context.Context, previousSummary, chunkText string) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.summarizeCalls)
	f.summarizeCalls = append(f.summarizeCalls, summarizeCall{prev: previousSummary, chunk: chunkText})
	if n == f.failSummarizeAt {
		return Summary{}, fmt.Errorf("model unavailable")
	}
	return Summary{
		Summary:  fmt.Sprintf("summary of %q", firstWords(chunkText, 3)),
		Entities: []Entity{{Name: fmt.Sprintf("entity-%d", n), Type: "concept"}},
		KeyFacts: []KeyFact{{Fact: fmt.Sprintf("fact-%d", n)}},
		Themes:   []string{"theme"},
	}, nil
}

func (f *fakeCapability) MergeSummaries(ctx context.Context, summaries []Summary) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}
	f.mu.Lock()
	n := len(f.mergeCalls)
	f.mergeCalls = append(f.mergeCalls, append([]Summary(nil), summaries...))
	fail := n == f.failMergeAt
	f.mu.Unlock()
	if fail {
		return Summary{}, fmt.Errorf("model unavailable")
	}

	parts := make([]string, 0, len(summaries))
	var entities []Entity
	var facts []KeyFact
	for _, s := range summaries {
		parts = append(parts, s.Summary)
		entities = append(entities, s.Entities...)
		facts = append(facts, s.KeyFacts...)
	}
	return Summary{
		Summary:  "merged(" + strings.Join(parts, " | ") + ")",
		Entities: entities,
		KeyFacts: facts,
		Themes:   []string{"theme"},
	}, nil
}

func (f *fakeCapability) AnalyzeSummary(ctx context.Context, finalSummary Summary, originalMetadata string) (AnalysisReport, error) {
	if err := ctx.Err(); err != nil {
		return AnalysisReport{}, err
	}
	f.mu.Lock()
	f.analyzeCalls++
	f.mu.Unlock()
	if f.analyzeErr != nil {
		return AnalysisReport{}, f.analyzeErr
	}
	return f.report, nil
}

func firstWords(text string, n int) string {
	fields := strings.Fields(text)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(t.TempDir(), t.TempDir(), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// wordDoc builds a document of n distinct words ("w0 w1 ... w{n-1}"), each of
// which the word tokenizer counts as one token.
func wordDoc(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "w%d", i)
	}
	return b.String()
}
