// Package store persists analysis records. Two backends are provided: SQLite
// for single-user local use and Postgres for shared deployments. Records hold
// only the result payload and a hash of the input; raw sample text never
// touches the database.
package store

import (
	"context"

	"github.com/sells-group/logsense/internal/model"
)

// AnalysisFilter specifies criteria for listing analyses.
type AnalysisFilter struct {
	Kind   string `json:"kind,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for analysis records.
type Store interface {
	SaveAnalysis(ctx context.Context, a *model.Analysis) error
	GetAnalysis(ctx context.Context, id string) (*model.Analysis, error)
	ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]model.Analysis, error)

	Migrate(ctx context.Context) error
	Close() error
}

// defaultListLimit caps unbounded list queries.
const defaultListLimit = 50
