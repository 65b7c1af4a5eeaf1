package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/theimaginaryfoundation/sliding-summarizer/pipeline"
)

type Config struct {
	ConfigPath string

	ChunkSize      int
	Overlap        int
	MergeBatchSize int

	Model         string
	AnalysisModel string
	Encoding      string

	SummariesDir string
	LogsDir      string

	APIKey           string
	SessionID        string
	Resume           bool
	MergeConcurrency int
	Pretty           bool

	InputPath  string
	OutputPath string
}

func (c Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("missing input document path (usage: doc-analyzer [flags] <input> [output])")
	}
	if c.ChunkSize <= 0 {
		return &pipeline.ConfigurationError{Reason: "chunk_size must be > 0"}
	}
	if c.Overlap < 0 || c.Overlap >= c.ChunkSize {
		return &pipeline.ConfigurationError{Reason: "overlap must satisfy 0 <= overlap < chunk_size"}
	}
	if c.MergeBatchSize < 2 {
		return &pipeline.ConfigurationError{Reason: "merge_batch_size must be >= 2"}
	}
	if c.Model == "" {
		return &pipeline.ConfigurationError{Reason: "missing model"}
	}
	if c.MergeConcurrency < 0 {
		return &pipeline.ConfigurationError{Reason: "merge-concurrency must be >= 0"}
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		ConfigPath:     "config.json",
		ChunkSize:      2000,
		Overlap:        200,
		MergeBatchSize: 4,
		Model:          "gpt-5-mini",
		Encoding:       pipeline.DefaultEncoding,
		SummariesDir:   "summaries",
		LogsDir:        "logs",
		OutputPath:     pipeline.DefaultReportPath,
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, map[string]bool, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "Path to config JSON file")
	fs.IntVar(&cfg.ChunkSize, "chunk-size", cfg.ChunkSize, "Tokens per chunk")
	fs.IntVar(&cfg.Overlap, "overlap", cfg.Overlap, "Tokens shared between adjacent chunks (must be < chunk-size)")
	fs.IntVar(&cfg.MergeBatchSize, "merge-batch-size", cfg.MergeBatchSize, "Summaries merged per batch (>= 2)")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "OpenAI model for chunk summarization and merging")
	fs.StringVar(&cfg.AnalysisModel, "analysis-model", cfg.AnalysisModel, "OpenAI model override for the final analysis (default: -model)")
	fs.StringVar(&cfg.Encoding, "encoding", cfg.Encoding, "Tiktoken encoding for chunk measurement")
	fs.StringVar(&cfg.SummariesDir, "summaries-dir", cfg.SummariesDir, "Base directory for per-session artifacts")
	fs.StringVar(&cfg.LogsDir, "logs-dir", cfg.LogsDir, "Directory for per-session log files")
	fs.StringVar(&cfg.APIKey, "api-key", "", "OpenAI API key (overrides OPENAI_API_KEY env var)")
	fs.StringVar(&cfg.SessionID, "session", "", "Existing session ID to resume into (default: new timestamped session)")
	fs.BoolVar(&cfg.Resume, "resume", false, "Reuse persisted chunk/merge artifacts when resuming a session")
	fs.IntVar(&cfg.MergeConcurrency, "merge-concurrency", 0, "Max concurrent batch merges within one merge level (0 or 1 = sequential)")
	fs.BoolVar(&cfg.Pretty, "pretty", false, "Pretty-print artifact JSON files")

	if err := fs.Parse(args); err != nil {
		return Config{}, nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	rest := fs.Args()
	switch len(rest) {
	case 0:
		// Validate reports the missing input path.
	case 1:
		cfg.InputPath = filepath.Clean(rest[0])
	case 2:
		cfg.InputPath = filepath.Clean(rest[0])
		cfg.OutputPath = filepath.Clean(rest[1])
	default:
		return Config{}, nil, fmt.Errorf("too many positional arguments (usage: doc-analyzer [flags] <input> [output])")
	}

	cfg.ConfigPath = filepath.Clean(cfg.ConfigPath)
	return cfg, set, nil
}

type fileConfig struct {
	ChunkSize      *int   `json:"chunk_size"`
	Overlap        *int   `json:"overlap"`
	MergeBatchSize *int   `json:"merge_batch_size"`
	Model          string `json:"model"`
	AnalysisModel  string `json:"analysis_model"`
	Encoding       string `json:"encoding"`
	SummariesDir   string `json:"summaries_dir"`
	LogsDir        string `json:"logs_dir"`
}

func loadConfigFile(path string) (fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, &pipeline.ConfigurationError{Reason: fmt.Sprintf("cannot read config file %s: %v", path, err)}
	}
	var fc fileConfig
	if err := json.Unmarshal(b, &fc); err != nil {
		return fileConfig{}, &pipeline.ConfigurationError{Reason: fmt.Sprintf("cannot parse config file %s: %v", path, err)}
	}
	return fc, nil
}

// applyFile layers file values under explicitly-set flags: a flag passed on
// the command line wins, otherwise the config file value is used.
func (c *Config) applyFile(fc fileConfig, set map[string]bool) {
	if fc.ChunkSize != nil && !set["chunk-size"] {
		c.ChunkSize = *fc.ChunkSize
	}
	if fc.Overlap != nil && !set["overlap"] {
		c.Overlap = *fc.Overlap
	}
	if fc.MergeBatchSize != nil && !set["merge-batch-size"] {
		c.MergeBatchSize = *fc.MergeBatchSize
	}
	if fc.Model != "" && !set["model"] {
		c.Model = fc.Model
	}
	if fc.AnalysisModel != "" && !set["analysis-model"] {
		c.AnalysisModel = fc.AnalysisModel
	}
	if fc.Encoding != "" && !set["encoding"] {
		c.Encoding = fc.Encoding
	}
	if fc.SummariesDir != "" && !set["summaries-dir"] {
		c.SummariesDir = fc.SummariesDir
	}
	if fc.LogsDir != "" && !set["logs-dir"] {
		c.LogsDir = fc.LogsDir
	}
}
