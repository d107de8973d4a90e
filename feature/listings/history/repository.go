package history

import (
	"context"
	"errors"
	"fmt"

	"listing-sync/core/database"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("sync run not found")

// DefaultListLimit is used when List is called without a positive limit.
const DefaultListLimit = 20

// Repository persists sync runs.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the sync_runs table and verifies every column exists.
func (r *Repository) Migrate() error {
	if err := r.db.AutoMigrate(&SyncRun{}); err != nil {
		return fmt.Errorf("failed to migrate sync runs: %w", err)
	}
	missing, err := database.MissingColumns(r.db, SyncRun{}.TableName(), Columns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("sync_runs is missing columns %v", missing)
	}
	return nil
}

// Save inserts or updates a run.
func (r *Repository) Save(ctx context.Context, run *SyncRun) error {
	if err := r.db.WithContext(ctx).Save(run).Error; err != nil {
		return fmt.Errorf("failed to save sync run %s: %w", run.ID, err)
	}
	return nil
}

// List returns the most recent runs first.
func (r *Repository) List(ctx context.Context, limit int) ([]SyncRun, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	var runs []SyncRun
	if err := r.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list sync runs: %w", err)
	}
	return runs, nil
}

// Get returns one run.
func (r *Repository) Get(ctx context.Context, id string) (*SyncRun, error) {
	var run SyncRun
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sync run %s: %w", id, err)
	}
	return &run, nil
}
