package pipeline

// Entity is a named thing (person, organization, system, concept) surfaced by
// a summarization call.
type Entity struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// KeyFact is one independently retrievable factual statement.
type KeyFact struct {
	Fact string `json:"fact"`
}

// Summary is the structured artifact produced once per chunk or once per
// merge operation. Immutable after creation; superseded, never mutated.
type Summary struct {
	// Summary is a tight prose summary (1-3 short paragraphs).
	Summary string `json:"summary"`

	// Entities are named things mentioned, in order of first appearance.
	Entities []Entity `json:"entities"`

	// KeyFacts are bullet-style facts worth retrieving later.
	KeyFacts []KeyFact `json:"key_facts"`

	// Themes are recurring topics/threads running through the text.
	Themes []string `json:"themes"`
}

// EntitySummary describes one entity in the final analysis.
type EntitySummary struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// CriticalFact is a fact tagged with importance and category for the final
// analysis.
type CriticalFact struct {
	Fact       string `json:"fact"`
	Importance string `json:"importance"`
	Category   string `json:"category"`
}

// KnowledgeGap is a statement the analysis could not confirm, with the reason.
type KnowledgeGap struct {
	Statement string `json:"statement"`
	Reason    string `json:"reason"`
}

// ReportMetadata carries run-level numbers through to the final report.
type ReportMetadata struct {
	TotalChunksProcessed int    `json:"total_chunks_processed"`
	ModelUsed            string `json:"model_used"`
	WordCountEstimate    int    `json:"word_count_estimate"`
}

// AnalysisReport is the final structured record, produced exactly once per
// run from the single root Summary.
type AnalysisReport struct {
	ExecutiveSummary string          `json:"executive_summary"`
	MainConclusions  []string        `json:"main_conclusions"`
	KeyInsights      []string        `json:"key_insights"`
	EntitiesSummary  []EntitySummary `json:"entities_summary"`
	CriticalFacts    []CriticalFact  `json:"critical_facts"`
	KnowledgeGaps    []KnowledgeGap  `json:"knowledge_gaps,omitempty"`
	Recommendations  []string        `json:"recommendations,omitempty"`
	ConfidenceLevel  string          `json:"confidence_level"`
	Metadata         ReportMetadata  `json:"metadata"`
}

// RunMetadata is what the analyzer receives about the run, serialized to JSON
// and embedded in the analysis prompt.
type RunMetadata struct {
	TotalChunks        int    `json:"total_chunks"`
	OriginalWordCount  int    `json:"original_word_count"`
	OriginalTokenCount int    `json:"original_token_count"`
	ChunkSize          int    `json:"chunk_size"`
	Overlap            int    `json:"overlap"`
	SessionID          string `json:"session_id"`
}
