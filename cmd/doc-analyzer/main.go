package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/theimaginaryfoundation/sliding-summarizer/pipeline"
	"github.com/theimaginaryfoundation/sliding-summarizer/pipeline/provider"
)

func main() {
	cfg, set, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	_ = godotenv.Load()

	fc, err := loadConfigFile(cfg.ConfigPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	cfg.applyFile(fc, set)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "missing OPENAI_API_KEY (or pass -api-key)")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tok, err := pipeline.NewTiktokenTokenizer(cfg.Encoding)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	capability, err := provider.New(apiKey, cfg.Model, cfg.AnalysisModel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	var session *pipeline.Session
	if cfg.SessionID != "" {
		session, err = pipeline.OpenSession(cfg.SummariesDir, cfg.LogsDir, cfg.SessionID, cfg.Pretty)
	} else {
		session, err = pipeline.NewSession(cfg.SummariesDir, cfg.LogsDir, cfg.Pretty)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	defer session.Close()

	p, err := pipeline.New(tok, capability, session, pipeline.Options{
		ChunkSize:        cfg.ChunkSize,
		Overlap:          cfg.Overlap,
		MergeBatchSize:   cfg.MergeBatchSize,
		Resume:           cfg.Resume,
		MergeConcurrency: cfg.MergeConcurrency,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	if err := p.ProcessDocument(ctx, cfg.InputPath, cfg.OutputPath); err != nil {
		fmt.Fprintln(os.Stderr, "pipeline failed:", err.Error())
		var cfgErr *pipeline.ConfigurationError
		if errors.As(err, &cfgErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "report=%s session=%s artifacts=%s log=%s\n",
		cfg.OutputPath, session.ID, session.Dir, session.LogPath)
}
