package pipeline

import "fmt"

// Chunker splits a document into an ordered sequence of overlapping windows
// measured in tokens.
type Chunker struct {
	tok       Tokenizer
	chunkSize int
	overlap   int
}

// NewChunker validates the window parameters before anything else runs.
// overlap >= chunkSize would make the cursor non-advancing, so it is rejected
// up front rather than looping forever.
func NewChunker(tok Tokenizer, chunkSize, overlap int) (*Chunker, error) {
	if tok == nil {
		return nil, &ConfigurationError{Reason: "tokenizer is nil"}
	}
	if chunkSize <= 0 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("chunk_size must be > 0, got %d", chunkSize)}
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("overlap must satisfy 0 <= overlap < chunk_size, got overlap=%d chunk_size=%d", overlap, chunkSize)}
	}
	return &Chunker{tok: tok, chunkSize: chunkSize, overlap: overlap}, nil
}

// Chunk tokenizes the full text once and slides a window of chunkSize tokens
// forward by chunkSize-overlap per step, decoding each window back to text.
// A document of chunkSize tokens or fewer yields exactly one chunk; an empty
// document yields zero chunks.
func (c *Chunker) Chunk(text string) []string {
	tokens := c.tok.Encode(text)
	var chunks []string
	for i := 0; i < len(tokens); i += c.chunkSize - c.overlap {
		end := i + c.chunkSize
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, c.tok.Decode(tokens[i:end]))
		// A window ending at the stream end already covered every remaining
		// token; advancing would emit a chunk made purely of overlap.
		if end == len(tokens) {
			break
		}
	}
	return chunks
}

// ChunkSize returns the configured tokens-per-chunk.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// Overlap returns the configured tokens shared between adjacent chunks.
func (c *Chunker) Overlap() int { return c.overlap }
