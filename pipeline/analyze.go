package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
)

// analyzeSummary sends the root summary and run metadata to the
// large-context capability and persists the report before returning it.
func analyzeSummary(ctx context.Context, capability Capability, session *Session, root Summary, meta RunMetadata) (AnalysisReport, error) {
	session.Logf("performing final analysis...")

	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return AnalysisReport{}, &AnalysisStageError{Err: fmt.Errorf("marshal run metadata: %w", err)}
	}

	report, err := capability.AnalyzeSummary(ctx, root, string(metaJSON))
	if err != nil {
		session.Errorf("analysis failed: %v", err)
		return AnalysisReport{}, &AnalysisStageError{Err: err}
	}
	if err := session.SaveAnalysis(report); err != nil {
		return AnalysisReport{}, err
	}

	session.Logf("analysis complete: %d conclusions, %d insights",
		len(report.MainConclusions), len(report.KeyInsights))
	return report, nil
}
