package integrity

import (
	"context"
	"fmt"

	"listing-sync/core/storage"
	"listing-sync/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	client     storage.Client
	bucket     string
	db         *gorm.DB
	notion     checks.PropertyFetcher
	databaseID string
	logger     *zap.Logger
}

// NewService creates a new integrity service. Any dependency may be nil; the
// matching check then reports it as not configured.
func NewService(client storage.Client, bucket string, db *gorm.DB, notion checks.PropertyFetcher, databaseID string, logger *zap.Logger) *Service {
	return &Service{
		client:     client,
		bucket:     bucket,
		db:         db,
		notion:     notion,
		databaseID: databaseID,
		logger:     logger,
	}
}

// CheckStructure returns a list of missing folders.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	if s.client == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}
	return checks.CheckStructure(ctx, s.client, s.bucket)
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	if s.client == nil {
		return fmt.Errorf("object storage is not configured")
	}
	return checks.FixStructure(ctx, s.client, s.bucket, s.logger, missing)
}

// CheckHistory verifies the run history table.
func (s *Service) CheckHistory() (*checks.HistoryReport, error) {
	return checks.CheckHistorySchema(s.db)
}

// CheckNotion verifies the listing database properties.
func (s *Service) CheckNotion(ctx context.Context) (*checks.NotionReport, error) {
	if s.notion == nil {
		return nil, fmt.Errorf("notion client is not configured")
	}
	return checks.CheckNotionSchema(ctx, s.notion, s.databaseID)
}

// CheckAll runs every check and collects the results by name.
func (s *Service) CheckAll(ctx context.Context) map[string]any {
	report := make(map[string]any)

	if missing, err := s.CheckStructure(ctx); err != nil {
		report["structure"] = map[string]any{"status": "error", "error": err.Error()}
	} else {
		report["structure"] = map[string]any{"status": "ok", "missing": missing}
	}

	if histReport, err := s.CheckHistory(); err != nil {
		report["history"] = map[string]any{"status": "error", "error": err.Error()}
	} else {
		report["history"] = histReport
	}

	if notionReport, err := s.CheckNotion(ctx); err != nil {
		report["notion"] = map[string]any{"status": "error", "error": err.Error()}
	} else {
		report["notion"] = notionReport
	}

	return report
}
