package logparse

import (
	"regexp"
	"strings"
)

var errorBlockRe = regexp.MustCompile(`Code[=:]\s*\w+`)

// Chunker splits log text into chunks suitable for embedding, keeping related
// lines together.
type Chunker struct {
	chunkSize int // target chunk size in characters
	overlap   int // lines carried over between adjacent chunks
}

// NewChunker creates a chunker. Non-positive arguments fall back to defaults.
func NewChunker(chunkSize, overlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if overlap < 0 {
		overlap = 0
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}
}

// ChunkBySize splits text on line boundaries so each chunk stays near the
// target size, carrying overlap trailing lines into the next chunk for context.
func (c *Chunker) ChunkBySize(text string) []string {
	var chunks []string
	var current []string
	currentLen := 0

	for _, line := range strings.Split(text, "\n") {
		if currentLen+len(line) > c.chunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n"))
			keep := len(current) - c.overlap
			if keep < 0 {
				keep = 0
			}
			current = append([]string(nil), current[keep:]...)
			currentLen = 0
			for _, l := range current {
				currentLen += len(l)
			}
		}
		current = append(current, line)
		currentLen += len(line)
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n"))
	}
	return chunks
}

// ChunkByErrors splits text at error-code boundaries, grouping the lines that
// follow each Code= marker into one block.
func (c *Chunker) ChunkByErrors(text string) []string {
	var chunks []string
	starts := errorBlockRe.FindAllStringIndex(text, -1)
	if len(starts) == 0 {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return []string{trimmed}
		}
		return nil
	}
	prev := 0
	for _, loc := range starts {
		if block := strings.TrimSpace(text[prev:loc[0]]); block != "" {
			chunks = append(chunks, block)
		}
		prev = loc[0]
	}
	if block := strings.TrimSpace(text[prev:]); block != "" {
		chunks = append(chunks, block)
	}
	return chunks
}
