package pipeline

import (
	"context"
	"time"

	"github.com/theimaginaryfoundation/sliding-summarizer/pipeline/fileutils"
)

// DefaultReportPath is the rendered report location when the caller does not
// specify one.
const DefaultReportPath = "final_report.md"

// Options are the recognized pipeline parameters. ChunkSize, Overlap, and
// MergeBatchSize are validated when the pipeline is constructed, before any
// capability call can happen.
type Options struct {
	ChunkSize      int
	Overlap        int
	MergeBatchSize int

	// Resume reuses persisted per-chunk and per-level artifacts already in
	// the session instead of re-invoking the capability for them.
	Resume bool

	// MergeConcurrency bounds parallel batch merges within one merge level.
	// <= 1 keeps the sequential reference behavior.
	MergeConcurrency int
}

// Pipeline runs the full flow: load, chunk, iteratively summarize,
// hierarchically merge, analyze, render. Strictly sequential except for the
// optional within-level merge parallelism.
type Pipeline struct {
	tok        Tokenizer
	capability Capability
	session    *Session
	opts       Options

	chunker    *Chunker
	summarizer *IterativeSummarizer
	merger     *Merger
}

// New validates the configuration and wires the stages.
func New(tok Tokenizer, capability Capability, session *Session, opts Options) (*Pipeline, error) {
	chunker, err := NewChunker(tok, opts.ChunkSize, opts.Overlap)
	if err != nil {
		return nil, err
	}
	merger, err := NewMerger(capability, session, opts.MergeBatchSize)
	if err != nil {
		return nil, err
	}
	merger.Concurrency = opts.MergeConcurrency
	merger.Resume = opts.Resume

	summarizer := NewIterativeSummarizer(capability, session, tok)
	summarizer.Resume = opts.Resume

	return &Pipeline{
		tok:        tok,
		capability: capability,
		session:    session,
		opts:       opts,
		chunker:    chunker,
		summarizer: summarizer,
		merger:     merger,
	}, nil
}

// ProcessDocument runs every stage and writes the rendered markdown report
// to outputPath only after a complete, successful analysis. On any stage
// failure the error propagates and no report is written; artifacts persisted
// before the failure stay on disk.
func (p *Pipeline) ProcessDocument(ctx context.Context, inputPath, outputPath string) error {
	if outputPath == "" {
		outputPath = DefaultReportPath
	}

	p.session.Logf("starting document processing pipeline (input=%s output=%s)", inputPath, outputPath)

	p.session.Logf("step 1: reading document...")
	doc, err := LoadDocument(inputPath, p.tok)
	if err != nil {
		p.session.Errorf("reading document failed: %v", err)
		return err
	}
	p.session.Logf("document loaded: %d words, %d tokens", doc.WordCount, doc.TokenCount)

	p.session.Logf("step 2: chunking document...")
	chunks := p.chunker.Chunk(doc.Text)
	p.session.Logf("created %d chunks (size=%d, overlap=%d)", len(chunks), p.opts.ChunkSize, p.opts.Overlap)

	p.session.Logf("step 3: iteratively summarizing chunks...")
	summaries, err := p.summarizer.Run(ctx, chunks)
	if err != nil {
		return err
	}

	p.session.Logf("step 4: merging summaries...")
	root, err := p.merger.Merge(ctx, summaries)
	if err != nil {
		return err
	}

	p.session.Logf("step 5: analyzing final summary...")
	meta := RunMetadata{
		TotalChunks:        len(chunks),
		OriginalWordCount:  doc.WordCount,
		OriginalTokenCount: doc.TokenCount,
		ChunkSize:          p.opts.ChunkSize,
		Overlap:            p.opts.Overlap,
		SessionID:          p.session.ID,
	}
	report, err := analyzeSummary(ctx, p.capability, p.session, root, meta)
	if err != nil {
		return err
	}

	p.session.Logf("step 6: generating markdown report at %s...", outputPath)
	markdown := RenderReport(report, p.session.ID, time.Now())
	if err := fileutils.WriteFileAtomicSameDir(outputPath, []byte(markdown), 0o644); err != nil {
		perr := &PersistenceError{Path: outputPath, Err: err}
		p.session.Errorf("writing report failed: %v", perr)
		return perr
	}

	p.session.Logf("pipeline complete (report=%s artifacts=%s)", outputPath, p.session.Dir)
	return nil
}
