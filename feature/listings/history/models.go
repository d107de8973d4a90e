package history

import (
	"time"

	"listing-sync/core/reconcile"
)

// SyncRun records one reconciliation pass.
type SyncRun struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Target        string    `gorm:"size:255;index" json:"target"`
	DryRun        bool      `json:"dry_run"`
	StartedAt     time.Time `gorm:"index" json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	LiveItems     int       `json:"live_items"`
	StoredItems   int       `json:"stored_items"`
	New           int       `json:"new"`
	Intersection  int       `json:"intersection"`
	Unavailable   int       `json:"unavailable"`
	Expired       int       `json:"expired"`
	CreateActions int       `json:"create_actions"`
	UpdateActions int       `json:"update_actions"`
	TrashActions  int       `json:"trash_actions"`
	Executed      int       `json:"executed"`
	Failed        bool      `json:"failed"`
	Error         string    `gorm:"type:text" json:"error,omitempty"`
	ArchiveKey    string    `gorm:"size:512" json:"archive_key,omitempty"`
}

// TableName overrides the table name.
func (SyncRun) TableName() string {
	return "sync_runs"
}

// ApplySummary copies the plan counters onto the run.
func (r *SyncRun) ApplySummary(s reconcile.PlanSummary) {
	r.LiveItems = s.LiveItems
	r.StoredItems = s.StoredItems
	r.New = s.New
	r.Intersection = s.Intersection
	r.Unavailable = s.Unavailable
	r.Expired = s.Expired
	r.CreateActions = s.CreateActions
	r.UpdateActions = s.UpdateActions
	r.TrashActions = s.TrashActions
}

// Columns lists the columns Migrate verifies.
var Columns = []string{
	"id", "target", "dry_run", "started_at", "finished_at",
	"live_items", "stored_items", "new", "intersection", "unavailable", "expired",
	"create_actions", "update_actions", "trash_actions",
	"executed", "failed", "error", "archive_key",
}
