// Package history persists one row per reconciliation pass in the sync_runs table.
package history
