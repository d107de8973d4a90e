// Package notion is the record store: a hosted document database reached over REST.
//
// Client wraps the databases and pages endpoints with request pacing and retry.
// PayloadGenerator maps logical listing variables to typed property payloads
// through fixed name and kind tables. Store plugs both into the reconciliation
// engine as a reconcile.RecordSource and reconcile.Mutator, with batch variants
// that fan mutations out over a bounded worker pool.
package notion
