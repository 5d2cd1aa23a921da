// Package keyword provides BM25 keyword indexing and search over log records.
package keyword

import (
	"context"

	"github.com/hyperjump/logsentry/internal/models"
)

// KeywordIndex defines keyword search operations over log records. Used by the
// log explorer, not by the RCA matching pipeline (which is substring-based).
type KeywordIndex interface {
	Index(ctx context.Context, id string, record *models.LogRecord) error
	Search(ctx context.Context, query string, limit int) ([]*models.LogSearchHit, error)
	Delete(ctx context.Context, id string) error
	DocCount() (uint64, error)
	Close() error
}
