// Package integrity provides deployment health checks.
//
// Unlike the 'listings' package which reconciles listing content,
// this package validates the infrastructure the reconciliation depends on.
//
// # Checks Provided
//
//   - Structure: Checks if the archive folders exist in the storage bucket (e.g., /runs).
//   - History: Validates that the run history table matches the SyncRun model (columns, types).
//   - Notion: Validates that the listing database carries every property pages are written with.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/history : Runs history schema check.
//   - GET /integrity/notion : Runs notion schema check.
package integrity
