package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/theimaginaryfoundation/sliding-summarizer/pipeline/fileutils"
)

func makeSummaries(n int) []Summary {
	out := make([]Summary, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Summary{
			Summary:  fmt.Sprintf("s%d", i),
			Entities: []Entity{{Name: fmt.Sprintf("e%d", i), Type: "t"}},
			KeyFacts: []KeyFact{{Fact: fmt.Sprintf("f%d", i)}},
			Themes:   []string{"theme"},
		})
	}
	return out
}

func TestNewMergerRejectsSmallBatchSize(t *testing.T) {
	t.Parallel()

	for _, batchSize := range []int{1, 0, -3} {
		_, err := NewMerger(newFakeCapability(), newTestSession(t), batchSize)
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	}
}

func TestMergeEmptyAndSingle(t *testing.T) {
	t.Parallel()

	capability := newFakeCapability()
	m, err := NewMerger(capability, newTestSession(t), 4)
	require.NoError(t, err)

	_, err = m.Merge(context.Background(), nil)
	var inErr *InputError
	require.ErrorAs(t, err, &inErr)

	// One summary is the root already; no merge call, no artifact.
	one := makeSummaries(1)
	root, err := m.Merge(context.Background(), one)
	require.NoError(t, err)
	require.Equal(t, one[0], root)
	require.Empty(t, capability.mergeCalls)
}

func TestMergeHierarchy(t *testing.T) {
	t.Parallel()

	capability := newFakeCapability()
	session := newTestSession(t)
	m, err := NewMerger(capability, session, 4)
	require.NoError(t, err)

	summaries := makeSummaries(10)
	root, err := m.Merge(context.Background(), summaries)
	require.NoError(t, err)

	// Level 1: batches of 4, 4, 2 in document order; level 2: one batch of 3.
	require.Len(t, capability.mergeCalls, 4)
	require.Equal(t, summaries[0:4], capability.mergeCalls[0])
	require.Equal(t, summaries[4:8], capability.mergeCalls[1])
	require.Equal(t, summaries[8:10], capability.mergeCalls[2])
	require.Len(t, capability.mergeCalls[3], 3)

	// The root carries every leaf entity in original order.
	require.Len(t, root.Entities, 10)
	require.Equal(t, "e0", root.Entities[0].Name)
	require.Equal(t, "e9", root.Entities[9].Name)

	for _, name := range []string{
		"merge_level1_0000.json",
		"merge_level1_0001.json",
		"merge_level1_0002.json",
		"merge_level2_0000.json",
	} {
		require.True(t, fileutils.FileExists(filepath.Join(session.Dir, name)), name)
	}
}

func TestMergeFailurePropagates(t *testing.T) {
	t.Parallel()

	capability := newFakeCapability()
	capability.failMergeAt = 1
	m, err := NewMerger(capability, newTestSession(t), 2)
	require.NoError(t, err)

	_, err = m.Merge(context.Background(), makeSummaries(4))
	var stageErr *MergeStageError
	require.ErrorAs(t, err, &stageErr)
	require.Equal(t, 1, stageErr.Level)
	require.Equal(t, 1, stageErr.Batch)
}

func TestMergeConcurrencyMatchesSequential(t *testing.T) {
	t.Parallel()

	summaries := makeSummaries(13)

	seq, err := NewMerger(newFakeCapability(), newTestSession(t), 3)
	require.NoError(t, err)
	want, err := seq.Merge(context.Background(), summaries)
	require.NoError(t, err)

	par, err := NewMerger(newFakeCapability(), newTestSession(t), 3)
	require.NoError(t, err)
	par.Concurrency = 4
	got, err := par.Merge(context.Background(), summaries)
	require.NoError(t, err)

	// Results are reassembled in batch order, so parallel execution cannot
	// change the root.
	require.Equal(t, want, got)
}

func TestMergeResumeReusesArtifacts(t *testing.T) {
	t.Parallel()

	session := newTestSession(t)
	saved := Summary{Summary: "persisted merge", Themes: []string{"t"}}
	require.NoError(t, session.SaveMergeSummary(1, 0, saved))

	capability := newFakeCapability()
	m, err := NewMerger(capability, session, 2)
	require.NoError(t, err)
	m.Resume = true

	summaries := makeSummaries(4)
	root, err := m.Merge(context.Background(), summaries)
	require.NoError(t, err)

	// Batch 0 of level 1 came from disk; batch 1 and the level-2 merge hit
	// the capability.
	require.Len(t, capability.mergeCalls, 2)
	require.Equal(t, summaries[2:4], capability.mergeCalls[0])
	require.Equal(t, saved, capability.mergeCalls[1][0])
	require.Contains(t, root.Summary, "persisted merge")
}
