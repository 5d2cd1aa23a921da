package keyword

import (
	"context"
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/hyperjump/logsentry/internal/models"
)

// bleveRecord is the log record shape indexed by Bleve.
type bleveRecord struct {
	Message   string `json:"message"`
	Component string `json:"component"`
	Level     string `json:"level"`
	Code      string `json:"code"`
	Raw       string `json:"raw"`
}

// BleveIndex implements KeywordIndex using Bleve.
type BleveIndex struct {
	index bleve.Index
}

// NewBleveIndex creates or opens a Bleve index at path. An existing index is
// opened and reused; remove the directory to force a full re-index after a
// mapping change.
func NewBleveIndex(path string) (*BleveIndex, error) {
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// standard analyzer (lowercase + tokenize, no stemming) so error tokens
	// like "timeout" match exactly
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("message", textFieldMapping)
	docMapping.AddFieldMappingsAt("component", textFieldMapping)
	docMapping.AddFieldMappingsAt("level", textFieldMapping)
	docMapping.AddFieldMappingsAt("code", textFieldMapping)
	rawFieldMapping := bleve.NewTextFieldMapping()
	rawFieldMapping.Analyzer = standard.Name
	rawFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("raw", rawFieldMapping)
	im.DefaultMapping = docMapping

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// Index indexes a log record by id.
func (b *BleveIndex) Index(ctx context.Context, id string, record *models.LogRecord) error {
	return b.index.Index(id, &bleveRecord{
		Message:   record.Message,
		Component: record.Component,
		Level:     record.Level,
		Code:      record.ErrorCode,
		Raw:       record.RawLine,
	})
}

// Search runs a match query over all fields and returns up to limit hits with
// the stored raw line.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int) ([]*models.LogSearchHit, error) {
	if limit <= 0 {
		limit = 10
	}
	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = []string{"raw"}
	result, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}
	hits := make([]*models.LogSearchHit, 0, len(result.Hits))
	for _, hit := range result.Hits {
		raw, _ := hit.Fields["raw"].(string)
		hits = append(hits, &models.LogSearchHit{ID: hit.ID, Score: hit.Score, Raw: raw})
	}
	return hits, nil
}

// Delete removes a record by id.
func (b *BleveIndex) Delete(ctx context.Context, id string) error {
	return b.index.Delete(id)
}

// DocCount returns the total number of indexed records.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// Close closes the underlying index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}
