// Package reconcile keeps a persisted listing store consistent with a live
// marketplace feed.
//
// The package is split in two layers. The engine functions are pure: they take
// fully materialized collections and return new ones, never perform I/O and
// never log. Around them sit the planning and execution helpers, which sequence
// the engine functions into a ReconcilePlan and hand its actions to a Mutator.
//
// # Engine
//
//  1. IdentifyDifferences: sorted merge-diff of stored vs live identifiers into
//     new, intersection and unavailable sets.
//  2. FindByStatus: partitions identifiers by the stored availability flag.
//  3. Expiration: flags stored records whose last edit is older than a
//     retention window measured from a fixed instant.
//  4. DetectChanges: derives the per-record field updates (availability flip,
//     price, comment trail) for identifiers present on both sides.
//  5. CheckConditions: evaluates insurance-history conditions against a record.
//
// # Planning
//
// BuildPlan runs the engine over a Snapshot and produces create, update,
// mark_unavailable and trash actions plus a summary. ApplyPlan executes them
// through a Mutator, preferring batch implementations when the mutator offers
// them and carrying on past individual failures.
//
// # Snapshots
//
// LoadSnapshot fetches the live feed and the stored records concurrently from a
// LiveSource and a RecordSource. GetOrLoadSnapshot adds a TTL cache with
// stampede protection for read-only callers such as the plan endpoint.
//
// # Usage Example
//
//	snap, err := reconcile.LoadSnapshot(ctx, spec)
//	if err != nil {
//	    return err
//	}
//	plan, err := reconcile.BuildPlan(*snap, reconcile.NewExpiration(time.Now(), 14), opts)
//	if err != nil {
//	    return err
//	}
//	executed, err := reconcile.ApplyPlan(ctx, store, plan, opts)
package reconcile
