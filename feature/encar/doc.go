// Package encar is the client for the car marketplace feed.
//
// It builds search expressions from a reconcile.Target, pages through the premium
// search API with a shared rate limiter, and parses insurance-history pages into
// reconcile.InsuranceRecord values. Source plugs the client into the
// reconciliation snapshot loader as a reconcile.LiveSource.
package encar
