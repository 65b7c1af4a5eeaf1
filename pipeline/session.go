package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/theimaginaryfoundation/sliding-summarizer/pipeline/fileutils"
)

// Session owns one run's artifact namespace and log stream. All artifact
// writes are atomic and append-only from the pipeline's perspective; the
// session is never deleted by the pipeline itself.
type Session struct {
	ID      string
	Dir     string
	LogPath string

	pretty  bool
	log     *zap.SugaredLogger
	logFile *os.File
}

// NewSession creates a fresh session identified by the start timestamp.
// Uniqueness is only as good as second granularity, so an already-existing
// session directory is an error rather than a silently shared namespace.
func NewSession(summariesDir, logsDir string, pretty bool) (*Session, error) {
	id := time.Now().Format("20060102_150405")
	dir := filepath.Join(summariesDir, id)
	if err := os.MkdirAll(summariesDir, 0o755); err != nil {
		return nil, &PersistenceError{Path: summariesDir, Err: err}
	}
	// Exclusive create: a concurrent run landing on the same timestamp fails
	// here instead of silently sharing the namespace.
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, &PersistenceError{Path: dir, Err: err}
	}
	return openSession(summariesDir, logsDir, id, pretty)
}

// OpenSession reopens an existing session namespace, the explicit opt-in for
// resuming a run from its persisted artifacts.
func OpenSession(summariesDir, logsDir, id string, pretty bool) (*Session, error) {
	if id == "" {
		return nil, &ConfigurationError{Reason: "session id is empty"}
	}
	return openSession(summariesDir, logsDir, id, pretty)
}

func openSession(summariesDir, logsDir, id string, pretty bool) (*Session, error) {
	dir := filepath.Join(summariesDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &PersistenceError{Path: dir, Err: err}
	}
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, &PersistenceError{Path: logsDir, Err: err}
	}

	logPath := filepath.Join(logsDir, id+".log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, &PersistenceError{Path: logPath, Err: err}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	enc := zapcore.NewConsoleEncoder(encCfg)
	core := zapcore.NewTee(
		zapcore.NewCore(enc, zapcore.AddSync(logFile), zapcore.InfoLevel),
		zapcore.NewCore(enc, zapcore.Lock(os.Stderr), zapcore.InfoLevel),
	)

	return &Session{
		ID:      id,
		Dir:     dir,
		LogPath: logPath,
		pretty:  pretty,
		log:     zap.New(core).Sugar(),
		logFile: logFile,
	}, nil
}

// Logf records one timestamped progress line to the session log and stderr.
func (s *Session) Logf(format string, args ...any) {
	s.log.Infof(format, args...)
}

// Errorf records one timestamped error line to the session log and stderr.
func (s *Session) Errorf(format string, args ...any) {
	s.log.Errorf(format, args...)
}

// Close flushes the log stream. Artifacts are already durable at this point.
func (s *Session) Close() error {
	_ = s.log.Sync()
	return s.logFile.Close()
}

func (s *Session) chunkArtifactPath(index int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("chunk_%04d.json", index))
}

func (s *Session) mergeArtifactPath(level, batch int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("merge_level%d_%04d.json", level, batch))
}

func (s *Session) analysisArtifactPath() string {
	return filepath.Join(s.Dir, "final_analysis.json")
}

// SaveChunkSummary persists one per-chunk summary (stage "chunk").
func (s *Session) SaveChunkSummary(index int, sum Summary) error {
	path := s.chunkArtifactPath(index)
	if err := fileutils.WriteJSONFileAtomic(path, sum, s.pretty); err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	s.Logf("saved chunk summary #%d to %s", index, path)
	return nil
}

// LoadChunkSummary loads a previously persisted chunk summary if present.
func (s *Session) LoadChunkSummary(index int) (Summary, bool, error) {
	return s.loadSummary(s.chunkArtifactPath(index))
}

// SaveMergeSummary persists one merge-batch result (stage "merge_level{L}").
func (s *Session) SaveMergeSummary(level, batch int, sum Summary) error {
	path := s.mergeArtifactPath(level, batch)
	if err := fileutils.WriteJSONFileAtomic(path, sum, s.pretty); err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	s.Logf("saved merge_level%d summary #%d to %s", level, batch, path)
	return nil
}

// LoadMergeSummary loads a previously persisted merge result if present.
func (s *Session) LoadMergeSummary(level, batch int) (Summary, bool, error) {
	return s.loadSummary(s.mergeArtifactPath(level, batch))
}

func (s *Session) loadSummary(path string) (Summary, bool, error) {
	if !fileutils.FileExists(path) {
		return Summary{}, false, nil
	}
	var sum Summary
	if err := fileutils.ReadJSONFile(path, &sum); err != nil {
		return Summary{}, false, &PersistenceError{Path: path, Err: err}
	}
	return sum, true, nil
}

// SaveAnalysis persists the final analysis report.
func (s *Session) SaveAnalysis(report AnalysisReport) error {
	path := s.analysisArtifactPath()
	if err := fileutils.WriteJSONFileAtomic(path, report, s.pretty); err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	s.Logf("saved final analysis to %s", path)
	return nil
}
