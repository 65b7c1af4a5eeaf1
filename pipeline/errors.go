package pipeline

import "fmt"

// ConfigurationError reports invalid chunking/merge parameters or a missing
// config file. It is always raised before any capability call is made.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// InputError reports a missing, unreadable, or empty input document.
type InputError struct {
	Path   string
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("input error: %s: %s", e.Path, e.Reason)
	}
	return "input error: " + e.Reason
}

func (e *InputError) Unwrap() error { return e.Err }

// SummarizationStageError wraps a capability failure during the iterative
// summarization pass with the index of the chunk being processed.
type SummarizationStageError struct {
	ChunkIndex int
	Err        error
}

func (e *SummarizationStageError) Error() string {
	return fmt.Sprintf("summarization stage failed at chunk %d: %v", e.ChunkIndex, e.Err)
}

func (e *SummarizationStageError) Unwrap() error { return e.Err }

// MergeStageError wraps a capability failure during the hierarchical merge
// with the level and batch index of the failing merge.
type MergeStageError struct {
	Level int
	Batch int
	Err   error
}

func (e *MergeStageError) Error() string {
	return fmt.Sprintf("merge stage failed at level %d batch %d: %v", e.Level, e.Batch, e.Err)
}

func (e *MergeStageError) Unwrap() error { return e.Err }

// AnalysisStageError wraps a capability failure during final analysis.
type AnalysisStageError struct {
	Err error
}

func (e *AnalysisStageError) Error() string {
	return fmt.Sprintf("analysis stage failed: %v", e.Err)
}

func (e *AnalysisStageError) Unwrap() error { return e.Err }

// PersistenceError wraps an artifact or log write failure.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error: %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
