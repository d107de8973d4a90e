// Package listings runs reconciliation passes for the configured target.
//
// A pass loads the live feed and the stored records, plans the actions with
// core/reconcile and applies them through the record store. Each pass is
// recorded in the run history database and, when object storage is configured,
// its snapshot and plan are archived as JSON under runs/<day>/<run id>.json.
//
// Routes:
//   - GET  /listings/plan
//   - POST /listings/sync
//   - GET  /listings/runs
//   - GET  /listings/runs/:id
//   - GET  /listings/runs/:id/archive
package listings
