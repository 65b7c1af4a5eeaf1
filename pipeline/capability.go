package pipeline

import "context"

// Capability is the external bounded-context text-understanding dependency.
// Implementations are synchronous and side-effect-free from the core's
// perspective; errors they return are propagated uninterpreted.
type Capability interface {
	// SummarizeChunk summarizes one chunk given the carried context derived
	// from the previous chunk's summary.
	SummarizeChunk(ctx context.Context, previousSummary string, chunkText string) (Summary, error)

	// MergeSummaries collapses an ordered batch of summaries into one.
	MergeSummaries(ctx context.Context, summaries []Summary) (Summary, error)

	// AnalyzeSummary turns the root summary plus run metadata JSON into the
	// final analysis report.
	AnalyzeSummary(ctx context.Context, finalSummary Summary, originalMetadata string) (AnalysisReport, error)
}
