// Package storage defines the persistence interface for analysis history.
package storage

import (
	"context"

	"github.com/hyperjump/logsentry/internal/models"
)

// History defines persistence operations for completed analysis runs.
type History interface {
	SaveAnalysis(ctx context.Context, record *models.AnalysisRecord) error
	GetAnalysis(ctx context.Context, id string) (*models.AnalysisRecord, error)
	ListAnalyses(ctx context.Context, offset, limit int) ([]*models.AnalysisRecord, error)
	CountAnalyses(ctx context.Context) (int64, error)

	Close() error
}
