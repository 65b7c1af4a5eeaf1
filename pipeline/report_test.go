package pipeline

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sampleReport() AnalysisReport {
	return AnalysisReport{
		ExecutiveSummary: "The document describes a storage migration.",
		MainConclusions:  []string{"migration succeeded", "costs dropped"},
		KeyInsights:      []string{"compression dominated the savings"},
		EntitiesSummary: []EntitySummary{
			{Name: "Postgres", Type: "system", Description: "source database"},
		},
		CriticalFacts: []CriticalFact{
			{Fact: "cutover took 40 minutes", Importance: "high", Category: "operations"},
		},
		ConfidenceLevel: "medium",
		Metadata: ReportMetadata{
			TotalChunksProcessed: 12,
			ModelUsed:            "gpt-5-mini",
			WordCountEstimate:    45000,
		},
	}
}

func TestRenderReport(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	got := RenderReport(sampleReport(), "20260314_092653", at)

	require.True(t, strings.HasPrefix(got, "# Document Analysis Report\n"))
	require.Contains(t, got, "**Generated:** 2026-03-14 09:26:53")
	require.Contains(t, got, "**Session ID:** 20260314_092653")
	require.Contains(t, got, "## Executive Summary\n\nThe document describes a storage migration.")
	require.Contains(t, got, "1. migration succeeded\n2. costs dropped\n")
	require.Contains(t, got, "- **Postgres** (system): source database\n")
	require.Contains(t, got, "- [high] **operations**: cutover took 40 minutes\n")
	require.Contains(t, got, "- **Chunks Processed:** 12\n")
	require.Contains(t, got, "- **Estimated Word Count:** 45,000\n")
	require.True(t, strings.HasSuffix(got, "*Generated by AI Sliding Context Summarizer*\n"))

	// Optional sections are omitted when empty.
	require.NotContains(t, got, "## Knowledge Gaps")
	require.NotContains(t, got, "## Recommendations")

	// Deterministic.
	require.Equal(t, got, RenderReport(sampleReport(), "20260314_092653", at))
}

func TestRenderReportOptionalSections(t *testing.T) {
	t.Parallel()

	report := sampleReport()
	report.KnowledgeGaps = []KnowledgeGap{
		{Statement: "the author of the proposal is never named", Reason: "summarization dropped attribution"},
	}
	report.Recommendations = []string{"verify the cutover timeline against the runbook"}

	got := RenderReport(report, "s", time.Now())
	require.Contains(t, got, "## Knowledge Gaps & Uncertainties\n\n- the author of the proposal is never named\n  - *Reason:* summarization dropped attribution\n")
	require.Contains(t, got, "## Recommendations\n\n1. verify the cutover timeline against the runbook\n")
}

func TestRenderReportCapsLists(t *testing.T) {
	t.Parallel()

	report := sampleReport()
	report.EntitiesSummary = nil
	report.CriticalFacts = nil
	for i := 0; i < 25; i++ {
		report.EntitiesSummary = append(report.EntitiesSummary, EntitySummary{Name: fmt.Sprintf("e%d", i), Type: "t", Description: "d"})
	}
	for i := 0; i < 20; i++ {
		report.CriticalFacts = append(report.CriticalFacts, CriticalFact{Fact: fmt.Sprintf("fact%d", i), Importance: "low", Category: "c"})
	}

	got := RenderReport(report, "s", time.Now())
	require.Contains(t, got, "**e19**")
	require.NotContains(t, got, "**e20**")
	require.Contains(t, got, "fact14\n")
	require.NotContains(t, got, "fact15")
}

func TestGroupThousands(t *testing.T) {
	t.Parallel()

	cases := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		12345:    "12,345",
		1234567:  "1,234,567",
		-9876543: "-9,876,543",
	}
	for n, want := range cases {
		require.Equal(t, want, groupThousands(n))
	}
}
