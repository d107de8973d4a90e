package notion

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"listing-sync/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PropertySource is implemented by live items that know their page variables.
type PropertySource interface {
	PageVariables() map[string]any
}

// Store adapts the client to reconcile.RecordSource and reconcile.Mutator.
// Batch mutations fan out over a bounded worker pool.
type Store struct {
	client      *Client
	databaseID  string
	generator   *PayloadGenerator
	concurrency int
	logger      *zap.Logger
}

// NewStore creates a store backed by one database.
func NewStore(client *Client, databaseID string, concurrency int, logger *zap.Logger) *Store {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Store{
		client:      client,
		databaseID:  databaseID,
		generator:   DefaultPayloadGenerator(),
		concurrency: concurrency,
		logger:      logger,
	}
}

// Name returns the store label.
func (s *Store) Name() string {
	return "notion"
}

// LoadStored returns the target's records keyed by Car ID.
func (s *Store) LoadStored(ctx context.Context, target reconcile.Target) (map[string]reconcile.StoredRecord, error) {
	pages, err := s.client.QueryDatabase(ctx, s.databaseID, TargetFilter(target))
	if err != nil {
		return nil, err
	}
	records, duplicates := ExtractRecords(pages)
	for _, id := range reconcile.Keys(duplicates) {
		s.logger.Warn("Skipping duplicate pages for listing",
			zap.String("car_id", id),
			zap.String("kept_page_id", records[id].PageID),
			zap.Strings("skipped_page_ids", duplicates[id]))
	}
	s.logger.Info("Loaded stored records",
		zap.String("target", target.Key()),
		zap.Int("pages", len(pages)),
		zap.Int("records", len(records)))
	return records, nil
}

// CreateRecord adds a page for a live listing.
func (s *Store) CreateRecord(ctx context.Context, key string, live reconcile.LiveRecord) error {
	_, err := s.client.CreatePage(ctx, s.databaseID, s.generator.ListingProperties(pageVariables(key, live)))
	return err
}

// UpdateRecord patches availability, price and comment.
func (s *Store) UpdateRecord(ctx context.Context, pageID string, update reconcile.FieldUpdate) error {
	if update.IsEmpty() {
		return nil
	}
	_, err := s.client.UpdatePage(ctx, pageID, s.generator.UpdateProperties(update))
	return err
}

// TrashRecord moves a page to the trash.
func (s *Store) TrashRecord(ctx context.Context, pageID string) error {
	return s.client.TrashPage(ctx, pageID)
}

// UpdateInsurance sets the insurance check label of a page (1, 0 or -1).
func (s *Store) UpdateInsurance(ctx context.Context, pageID string, status int) error {
	props := s.generator.Properties(map[string]any{"insurance_inspection": InsuranceLabel(status)})
	_, err := s.client.UpdatePage(ctx, pageID, props)
	return err
}

// CreateBatch creates pages concurrently.
func (s *Store) CreateBatch(ctx context.Context, actions []reconcile.Action) (int, error) {
	return s.runBatch(ctx, len(actions), func(ctx context.Context, i int) error {
		a := actions[i]
		var live reconcile.LiveRecord
		if a.Live != nil {
			live = *a.Live
		}
		if err := s.CreateRecord(ctx, a.Key, live); err != nil {
			return fmt.Errorf("create %s: %w", a.Key, err)
		}
		return nil
	})
}

// UpdateBatch patches pages concurrently.
func (s *Store) UpdateBatch(ctx context.Context, actions []reconcile.Action) (int, error) {
	return s.runBatch(ctx, len(actions), func(ctx context.Context, i int) error {
		a := actions[i]
		if a.Update == nil {
			return nil
		}
		if err := s.UpdateRecord(ctx, a.PageID, *a.Update); err != nil {
			return fmt.Errorf("update %s: %w", a.Key, err)
		}
		return nil
	})
}

// TrashBatch trashes pages concurrently.
func (s *Store) TrashBatch(ctx context.Context, pageIDs []string) (int, error) {
	return s.runBatch(ctx, len(pageIDs), func(ctx context.Context, i int) error {
		if err := s.TrashRecord(ctx, pageIDs[i]); err != nil {
			return fmt.Errorf("trash %s: %w", pageIDs[i], err)
		}
		return nil
	})
}

// runBatch runs fn for every index with bounded concurrency. One failure does
// not cancel the others; failures are joined.
func (s *Store) runBatch(ctx context.Context, n int, fn func(ctx context.Context, i int) error) (int, error) {
	var (
		g    errgroup.Group
		done atomic.Int64
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(s.concurrency)

	for i := 0; i < n; i++ {
		i := i
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := fn(ctx, i); err != nil {
				s.logger.Warn("Record mutation failed", zap.Error(err))
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return nil
			}
			done.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		errs = append(errs, ctx.Err())
	}
	return int(done.Load()), errors.Join(errs...)
}

func pageVariables(key string, live reconcile.LiveRecord) map[string]any {
	var vars map[string]any
	if src, ok := live.Item.(PropertySource); ok {
		vars = src.PageVariables()
	} else {
		vars = map[string]any{"availability": true, "insurance_inspection": -1}
		if live.Price != nil {
			vars["price"] = *live.Price * reconcile.PriceUnit
		}
	}
	vars["car_id"] = key
	return vars
}
