package pipeline

import (
	"fmt"
	"strings"
	"time"
)

const (
	reportEntitiesMax = 20
	reportFactsMax    = 15
)

// RenderReport turns the final analysis into a stable markdown document. It
// is a deterministic function of its inputs; the entity list is capped at 20
// and the critical-fact list at 15 for the human-readable view (the full
// lists remain in the persisted JSON artifact).
func RenderReport(report AnalysisReport, sessionID string, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString("# Document Analysis Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n\n", generatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Session ID:** %s\n\n", sessionID)
	b.WriteString("---\n\n")

	b.WriteString("## Executive Summary\n\n")
	b.WriteString(strings.TrimSpace(report.ExecutiveSummary))
	b.WriteString("\n\n")

	b.WriteString("## Main Conclusions\n\n")
	for i, conclusion := range report.MainConclusions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, conclusion)
	}
	b.WriteString("\n")

	b.WriteString("## Key Insights\n\n")
	for i, insight := range report.KeyInsights {
		fmt.Fprintf(&b, "%d. %s\n", i+1, insight)
	}
	b.WriteString("\n")

	b.WriteString("## Key Entities\n\n")
	entities := report.EntitiesSummary
	if len(entities) > reportEntitiesMax {
		entities = entities[:reportEntitiesMax]
	}
	for _, entity := range entities {
		fmt.Fprintf(&b, "- **%s** (%s): %s\n", entity.Name, entity.Type, entity.Description)
	}
	b.WriteString("\n")

	b.WriteString("## Critical Facts\n\n")
	facts := report.CriticalFacts
	if len(facts) > reportFactsMax {
		facts = facts[:reportFactsMax]
	}
	for _, fact := range facts {
		fmt.Fprintf(&b, "- [%s] **%s**: %s\n", fact.Importance, fact.Category, fact.Fact)
	}
	b.WriteString("\n")

	if len(report.KnowledgeGaps) > 0 {
		b.WriteString("## Knowledge Gaps & Uncertainties\n\n")
		for _, gap := range report.KnowledgeGaps {
			fmt.Fprintf(&b, "- %s\n", gap.Statement)
			fmt.Fprintf(&b, "  - *Reason:* %s\n", gap.Reason)
		}
		b.WriteString("\n")
	}

	if len(report.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for i, rec := range report.Recommendations {
			fmt.Fprintf(&b, "%d. %s\n", i+1, rec)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Analysis Metadata\n\n")
	fmt.Fprintf(&b, "- **Chunks Processed:** %d\n", report.Metadata.TotalChunksProcessed)
	fmt.Fprintf(&b, "- **Model Used:** %s\n", report.Metadata.ModelUsed)
	fmt.Fprintf(&b, "- **Confidence Level:** %s\n", report.ConfidenceLevel)
	fmt.Fprintf(&b, "- **Estimated Word Count:** %s\n", groupThousands(report.Metadata.WordCountEstimate))
	b.WriteString("\n---\n\n")
	b.WriteString("*Generated by AI Sliding Context Summarizer*\n")

	return b.String()
}

func groupThousands(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
