package reconcile

import (
	"context"
	"errors"
	"fmt"
)

// Mutator applies planned actions to the record store.
type Mutator interface {
	// CreateRecord stores a new record for a live listing.
	CreateRecord(ctx context.Context, key string, live LiveRecord) error

	// UpdateRecord applies a partial update to an existing record.
	UpdateRecord(ctx context.Context, pageID string, update FieldUpdate) error

	// TrashRecord purges an existing record.
	TrashRecord(ctx context.Context, pageID string) error
}

// CreateBatcher is implemented by mutators that can create many records at once.
// It returns how many records were created alongside any joined failures.
type CreateBatcher interface {
	CreateBatch(ctx context.Context, actions []Action) (int, error)
}

// UpdateBatcher is implemented by mutators that can update many records at once.
type UpdateBatcher interface {
	UpdateBatch(ctx context.Context, actions []Action) (int, error)
}

// TrashBatcher is implemented by mutators that can trash many records at once.
type TrashBatcher interface {
	TrashBatch(ctx context.Context, pageIDs []string) (int, error)
}

// BuildPlan runs the engine over a snapshot and returns the resulting plan.
// It does NOT execute actions; use ApplyPlan for that.
//
// Identifiers that left the feed but are still flagged available are planned
// for mark_unavailable. Those already flagged unavailable go through the
// expiration check and, when expired, are planned for trash. A stored record
// with an unreadable timestamp fails the whole plan.
func BuildPlan(snap Snapshot, exp *Expiration, opts ReconcileOptions) (*ReconcilePlan, error) {
	if exp == nil {
		return nil, fmt.Errorf("expiration evaluator is required")
	}

	diff := IdentifyDifferences(Keys(snap.Stored), Keys(snap.Live))
	updates := DetectChanges(diff.Intersection, snap.Live, snap.Stored)
	stillFlagged, alreadyOff := FindByStatus(diff.Unavailable, snap.Stored, true)

	expired, err := exp.CollectExpired(alreadyOff, snap.Stored)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate expiration: %w", err)
	}

	plan := &ReconcilePlan{
		Target:      snap.Target,
		Differences: diff,
		Updates:     updates,
		Actions:     []Action{},
		Summary: PlanSummary{
			LiveItems:    len(snap.Live),
			StoredItems:  len(snap.Stored),
			New:          len(diff.New),
			Intersection: len(diff.Intersection),
			Unavailable:  len(diff.Unavailable),
			Expired:      len(expired),
		},
	}

	if opts.DoSync {
		for _, key := range diff.New {
			live := snap.Live[key]
			plan.Actions = append(plan.Actions, Action{
				Type:   ActionCreate,
				Key:    key,
				Reason: "new in live feed",
				Live:   &live,
			})
			plan.Summary.CreateActions++
		}

		for _, key := range diff.Intersection {
			pageID := snap.Stored[key].PageID
			update, ok := updates[pageID]
			if !ok {
				continue
			}
			plan.Actions = append(plan.Actions, Action{
				Type:   ActionUpdate,
				Key:    key,
				PageID: pageID,
				Reason: updateReason(update),
				Update: &update,
			})
			plan.Summary.UpdateActions++
		}

		for _, key := range stillFlagged {
			unavailable := false
			plan.Actions = append(plan.Actions, Action{
				Type:   ActionMarkUnavailable,
				Key:    key,
				PageID: snap.Stored[key].PageID,
				Reason: "missing from live feed",
				Update: &FieldUpdate{Availability: &unavailable},
			})
			plan.Summary.UpdateActions++
		}
	}

	if opts.DoPurge {
		for _, key := range expired {
			plan.Actions = append(plan.Actions, Action{
				Type:   ActionTrash,
				Key:    key,
				PageID: snap.Stored[key].PageID,
				Reason: fmt.Sprintf("unavailable for more than %d days", exp.Days()),
			})
			plan.Summary.TrashActions++
		}
	}

	return plan, nil
}

// ApplyPlan executes the actions in a reconcile plan.
// Returns the number of actions executed and the joined errors of those that failed.
// Requires opts.Confirmed=true and opts.DryRun=false to actually execute.
// A failing action never stops the remaining ones.
func ApplyPlan(ctx context.Context, mutator Mutator, plan *ReconcilePlan, opts ReconcileOptions) (executed int, err error) {
	// Safety check: do not execute if not confirmed or dry-run
	if !opts.Confirmed || opts.DryRun || plan == nil {
		return 0, nil
	}
	if mutator == nil {
		return 0, fmt.Errorf("no mutator configured")
	}

	var (
		creates []Action
		updates []Action
		trashes []string
		errs    []error
	)

	for _, action := range plan.Actions {
		switch action.Type {
		case ActionCreate:
			creates = append(creates, action)
		case ActionUpdate, ActionMarkUnavailable:
			updates = append(updates, action)
		case ActionTrash:
			trashes = append(trashes, action.PageID)
		}
	}

	if len(creates) > 0 {
		if batcher, ok := mutator.(CreateBatcher); ok {
			n, err := batcher.CreateBatch(ctx, creates)
			executed += n
			if err != nil {
				errs = append(errs, fmt.Errorf("failed to batch create records: %w", err))
			}
		} else {
			for _, action := range creates {
				if ctx.Err() != nil {
					break
				}
				var live LiveRecord
				if action.Live != nil {
					live = *action.Live
				}
				if err := mutator.CreateRecord(ctx, action.Key, live); err != nil {
					errs = append(errs, fmt.Errorf("failed to create record %s: %w", action.Key, err))
					continue
				}
				executed++
			}
		}
	}

	if len(updates) > 0 {
		if batcher, ok := mutator.(UpdateBatcher); ok {
			n, err := batcher.UpdateBatch(ctx, updates)
			executed += n
			if err != nil {
				errs = append(errs, fmt.Errorf("failed to batch update records: %w", err))
			}
		} else {
			for _, action := range updates {
				if ctx.Err() != nil {
					break
				}
				if action.Update == nil {
					continue
				}
				if err := mutator.UpdateRecord(ctx, action.PageID, *action.Update); err != nil {
					errs = append(errs, fmt.Errorf("failed to update record %s: %w", action.Key, err))
					continue
				}
				executed++
			}
		}
	}

	if len(trashes) > 0 {
		if batcher, ok := mutator.(TrashBatcher); ok {
			n, err := batcher.TrashBatch(ctx, trashes)
			executed += n
			if err != nil {
				errs = append(errs, fmt.Errorf("failed to batch trash records: %w", err))
			}
		} else {
			for _, pageID := range trashes {
				if ctx.Err() != nil {
					break
				}
				if err := mutator.TrashRecord(ctx, pageID); err != nil {
					errs = append(errs, fmt.Errorf("failed to trash record %s: %w", pageID, err))
					continue
				}
				executed++
			}
		}
	}

	if ctx.Err() != nil {
		errs = append(errs, ctx.Err())
	}

	return executed, errors.Join(errs...)
}

// updateReason builds a reason string describing which fields change.
func updateReason(update FieldUpdate) string {
	var fields []string
	if update.Availability != nil {
		fields = append(fields, "availability")
	}
	if update.Price != nil {
		fields = append(fields, "price")
	}
	if update.Comment != nil {
		fields = append(fields, "comment")
	}
	return fmt.Sprintf("changed: %v", fields)
}
