package embedding

import "strings"

const (
	clsToken  = 101
	sepToken  = 102
	vocabSize = 30000
)

// Tokenizer produces token IDs for BERT-style models (input_ids, attention_mask, token_type_ids).
type Tokenizer interface {
	Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64)
}

// SimpleTokenizer is a word-split tokenizer with hash-based token IDs.
type SimpleTokenizer struct{}

// Tokenize maps text to a CLS-prefixed, SEP-terminated token sequence padded
// to maxTokens. Words beyond the window are dropped.
func (t *SimpleTokenizer) Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64) {
	if maxTokens <= 0 {
		maxTokens = 256
	}

	tokens := make([]int64, 0, maxTokens)
	tokens = append(tokens, clsToken)
	for _, word := range SplitWords(text) {
		if len(tokens) == maxTokens-1 {
			break
		}
		tokens = append(tokens, int64(HashString(word)%vocabSize))
	}
	tokens = append(tokens, sepToken)

	inputIDs = make([]int64, maxTokens)
	attentionMask = make([]int64, maxTokens)
	tokenTypeIDs = make([]int64, maxTokens)
	copy(inputIDs, tokens)
	for i := range tokens {
		attentionMask[i] = 1
	}
	return inputIDs, attentionMask, tokenTypeIDs
}

// SplitWords splits text on whitespace and returns non-empty words.
func SplitWords(text string) []string {
	return strings.Fields(text)
}

// HashString returns a deterministic non-negative FNV-1a hash of s.
func HashString(s string) int {
	h := uint32(2166136261)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return int(h & 0x7fffffff)
}
