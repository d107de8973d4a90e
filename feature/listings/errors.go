package listings

import "errors"

var (
	// ErrTargetNotConfigured is returned when maker, model or submodel is missing.
	ErrTargetNotConfigured = errors.New("sync target is not configured")
	// ErrSyncInProgress is returned when a sync is requested while another one runs.
	ErrSyncInProgress = errors.New("a sync is already in progress")
	// ErrArchiveNotFound is returned when a run has no stored archive.
	ErrArchiveNotFound = errors.New("run archive not found")
	// ErrArchiveDisabled is returned when no object storage is configured.
	ErrArchiveDisabled = errors.New("run archive is disabled")
	// ErrPassIncomplete is returned when Execute is given a pass without a snapshot or plan.
	ErrPassIncomplete = errors.New("pass has no snapshot or plan")
)
