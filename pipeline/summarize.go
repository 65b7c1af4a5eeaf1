package pipeline

import "context"

// IterativeSummarizer walks the chunk sequence strictly in index order,
// threading a carried context derived from each chunk's summary into the
// next chunk's capability call.
type IterativeSummarizer struct {
	capability Capability
	session    *Session
	tok        Tokenizer

	// Resume reuses persisted chunk artifacts instead of re-invoking the
	// capability when the session already holds them.
	Resume bool
}

// NewIterativeSummarizer wires the summarization pass. tok is only used for
// progress logging (per-chunk token counts) and may be nil.
func NewIterativeSummarizer(capability Capability, session *Session, tok Tokenizer) *IterativeSummarizer {
	return &IterativeSummarizer{capability: capability, session: session, tok: tok}
}

// Run summarizes every chunk in order and returns the full ordered slice of
// per-chunk summaries. Each summary is persisted before its carried context
// is derived and reused. Zero chunks is an input failure, not an empty
// success. Any capability failure aborts the whole pass immediately.
func (s *IterativeSummarizer) Run(ctx context.Context, chunks []string) ([]Summary, error) {
	if len(chunks) == 0 {
		return nil, &InputError{Reason: "document produced zero chunks"}
	}

	s.session.Logf("starting iterative summarization of %d chunks...", len(chunks))

	carried := InitialContext
	summaries := make([]Summary, 0, len(chunks))
	for i, chunk := range chunks {
		if s.tok != nil {
			s.session.Logf("processing chunk %d/%d (%d tokens)...", i+1, len(chunks), s.tok.Count(chunk))
		} else {
			s.session.Logf("processing chunk %d/%d...", i+1, len(chunks))
		}

		sum, reused, err := s.summarizeChunk(ctx, i, carried, chunk)
		if err != nil {
			s.session.Errorf("chunk %d failed: %v", i, err)
			return nil, err
		}
		if reused {
			s.session.Logf("chunk %d reused from persisted artifact", i)
		}

		summaries = append(summaries, sum)
		carried = FormatSummaryContext(sum)

		s.session.Logf("chunk %d/%d summarized: %d entities, %d facts, %d themes",
			i+1, len(chunks), len(sum.Entities), len(sum.KeyFacts), len(sum.Themes))
	}

	return summaries, nil
}

func (s *IterativeSummarizer) summarizeChunk(ctx context.Context, index int, carried, chunk string) (Summary, bool, error) {
	if s.Resume {
		sum, ok, err := s.session.LoadChunkSummary(index)
		if err != nil {
			return Summary{}, false, err
		}
		if ok {
			return sum, true, nil
		}
	}

	sum, err := s.capability.SummarizeChunk(ctx, carried, chunk)
	if err != nil {
		return Summary{}, false, &SummarizationStageError{ChunkIndex: index, Err: err}
	}
	if err := s.session.SaveChunkSummary(index, sum); err != nil {
		return Summary{}, false, err
	}
	return sum, false, nil
}
