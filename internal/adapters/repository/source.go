// Package repository loads the job catalog from external storage.
package repository

import (
	"context"
	"fmt"

	"github.com/okian/rolematch/internal/config"
	"github.com/okian/rolematch/internal/domain/model"
)

// Source provides the postings that make up the catalog.
type Source interface {
	// Load returns every posting in a stable order.
	Load(ctx context.Context) ([]model.JobPosting, error)
	// Close releases any held resources.
	Close() error
}

// Column names recognised in tabular sources.
const (
	ColCombinedFeatures    = "combined_features"
	ColTargetRole          = "target_role"
	ColSkills              = "skills"
	ColCurrentRole         = "current_role"
	ColCourseUniversity    = "course_university"
	ColLanguageProficiency = "language_proficiency"
)

// NewSource builds the Source selected by cfg.CatalogDriver.
func NewSource(ctx context.Context, cfg *config.Config) (Source, error) {
	switch cfg.CatalogDriver {
	case config.DriverCSV:
		return NewCSVSource(cfg.CatalogPath), nil
	case config.DriverSQLite:
		return OpenSQLSource(ctx, DriverSQLite, cfg.CatalogPath, WithTable(cfg.CatalogTable))
	case config.DriverPostgres:
		return OpenSQLSource(ctx, DriverPgx, cfg.CatalogDSN, WithTable(cfg.CatalogTable))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.CatalogDriver)
	}
}
