package encar

import (
	"context"

	"listing-sync/core/reconcile"

	"go.uber.org/zap"
)

// ListingFilter narrows fetched listings before they reach the engine.
type ListingFilter interface {
	FilterListings(ctx context.Context, listings map[string]Listing) map[string]Listing
}

// Source adapts the feed client to reconcile.LiveSource.
type Source struct {
	client *Client
	filter ListingFilter
	logger *zap.Logger
}

// NewSource creates a live source. filter may be nil.
func NewSource(client *Client, filter ListingFilter, logger *zap.Logger) *Source {
	return &Source{client: client, filter: filter, logger: logger}
}

// Name returns the source label.
func (s *Source) Name() string {
	return "encar"
}

// LoadLive fetches, filters and converts the target's listings.
func (s *Source) LoadLive(ctx context.Context, target reconcile.Target) (map[string]reconcile.LiveRecord, error) {
	listings, err := s.client.FetchListings(ctx, target)
	if err != nil {
		return nil, err
	}

	fetched := len(listings)
	if s.filter != nil {
		listings = s.filter.FilterListings(ctx, listings)
	}
	s.logger.Info("Loaded live listings",
		zap.String("target", target.Key()),
		zap.Int("fetched", fetched),
		zap.Int("kept", len(listings)))

	live := make(map[string]reconcile.LiveRecord, len(listings))
	for id, listing := range listings {
		live[id] = listing.LiveRecord()
	}
	return live, nil
}
