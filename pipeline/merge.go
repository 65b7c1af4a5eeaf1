package pipeline

import (
	"context"
	"sync"
)

// Merger reduces an ordered list of summaries into one via repeated
// contiguous batch merges across levels.
type Merger struct {
	capability Capability
	session    *Session
	batchSize  int

	// Concurrency bounds parallel batch merges within a single level.
	// Batches in one level depend only on the previous level, so they may run
	// concurrently; results are reassembled in batch order before the next
	// level starts. <= 1 preserves the sequential reference behavior.
	Concurrency int

	// Resume reuses persisted merge artifacts instead of re-invoking the
	// capability when the session already holds them.
	Resume bool
}

// NewMerger validates the batch size before anything else runs. A batch size
// below 2 would never reduce the level count.
func NewMerger(capability Capability, session *Session, batchSize int) (*Merger, error) {
	if batchSize < 2 {
		return nil, &ConfigurationError{Reason: "merge_batch_size must be >= 2"}
	}
	return &Merger{capability: capability, session: session, batchSize: batchSize}, nil
}

// Merge collapses summaries level by level until one remains, preserving the
// original relative order throughout. A single summary is returned unchanged.
func (m *Merger) Merge(ctx context.Context, summaries []Summary) (Summary, error) {
	if len(summaries) == 0 {
		return Summary{}, &InputError{Reason: "no summaries to merge"}
	}
	if len(summaries) == 1 {
		return summaries[0], nil
	}

	m.session.Logf("hierarchically merging %d summaries (batch_size=%d)...", len(summaries), m.batchSize)

	current := summaries
	for level := 1; len(current) > 1; level++ {
		batches := contiguousBatches(current, m.batchSize)
		results, err := m.runLevel(ctx, level, batches)
		if err != nil {
			m.session.Errorf("merge level %d failed: %v", level, err)
			return Summary{}, err
		}
		current = results
	}

	m.session.Logf("hierarchical merge complete; final summary has %d entities", len(current[0].Entities))
	return current[0], nil
}

func contiguousBatches(summaries []Summary, batchSize int) [][]Summary {
	out := make([][]Summary, 0, (len(summaries)+batchSize-1)/batchSize)
	for start := 0; start < len(summaries); start += batchSize {
		end := start + batchSize
		if end > len(summaries) {
			end = len(summaries)
		}
		out = append(out, summaries[start:end])
	}
	return out
}

func (m *Merger) runLevel(ctx context.Context, level int, batches [][]Summary) ([]Summary, error) {
	results := make([]Summary, len(batches))

	if m.Concurrency <= 1 {
		for bi, batch := range batches {
			merged, err := m.mergeBatch(ctx, level, bi, batch)
			if err != nil {
				return nil, err
			}
			results[bi] = merged
		}
		return results, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, m.Concurrency)
	errCh := make(chan error, len(batches))

	var wg sync.WaitGroup
	for bi, batch := range batches {
		wg.Add(1)
		go func(bi int, batch []Summary) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
			defer func() { <-sem }()

			merged, err := m.mergeBatch(ctx, level, bi, batch)
			if err != nil {
				errCh <- err
				cancel()
				return
			}
			results[bi] = merged
		}(bi, batch)
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (m *Merger) mergeBatch(ctx context.Context, level, batch int, batchSummaries []Summary) (Summary, error) {
	if m.Resume {
		sum, ok, err := m.session.LoadMergeSummary(level, batch)
		if err != nil {
			return Summary{}, err
		}
		if ok {
			m.session.Logf("level %d batch %d reused from persisted artifact", level, batch)
			return sum, nil
		}
	}

	m.session.Logf("level %d: merging batch %d (%d summaries)...", level, batch+1, len(batchSummaries))

	merged, err := m.capability.MergeSummaries(ctx, batchSummaries)
	if err != nil {
		return Summary{}, &MergeStageError{Level: level, Batch: batch, Err: err}
	}
	if err := m.session.SaveMergeSummary(level, batch, merged); err != nil {
		return Summary{}, err
	}

	m.session.Logf("level %d batch %d merged: %d entities, %d facts",
		level, batch+1, len(merged.Entities), len(merged.KeyFacts))
	return merged, nil
}
