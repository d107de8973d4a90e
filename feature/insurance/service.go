package insurance

import (
	"context"
	"sync"

	"listing-sync/core/reconcile"
	"listing-sync/feature/encar"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Fetcher downloads the insurance history of a listing.
type Fetcher interface {
	FetchInsurance(ctx context.Context, carID string) (*reconcile.InsuranceRecord, error)
}

// Report is the result of checking one listing.
type Report struct {
	CarID   string                     `json:"car_id"`
	Status  encar.InsuranceStatus      `json:"status"`
	Label   string                     `json:"label"`
	Record  *reconcile.InsuranceRecord `json:"record,omitempty"`
	Details string                     `json:"details,omitempty"`
}

// Service evaluates listings against the configured insurance conditions.
type Service struct {
	fetcher     Fetcher
	conditions  reconcile.ConditionSet
	concurrency int
	logger      *zap.Logger
}

// NewService creates an insurance service. The conditions are validated up front
// so a bad configuration fails at startup.
func NewService(fetcher Fetcher, conditions reconcile.ConditionSet, concurrency int, logger *zap.Logger) (*Service, error) {
	if err := conditions.Validate(); err != nil {
		return nil, err
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Service{
		fetcher:     fetcher,
		conditions:  conditions,
		concurrency: concurrency,
		logger:      logger,
	}, nil
}

// Conditions returns the configured condition set.
func (s *Service) Conditions() reconcile.ConditionSet {
	return s.conditions
}

// Check fetches one listing's history and evaluates the configured conditions.
func (s *Service) Check(ctx context.Context, carID string) (*Report, error) {
	return s.CheckWith(ctx, carID, s.conditions)
}

// CheckWith is Check with an explicit condition set.
func (s *Service) CheckWith(ctx context.Context, carID string, conditions reconcile.ConditionSet) (*Report, error) {
	record, err := s.fetcher.FetchInsurance(ctx, carID)
	if err != nil {
		return nil, err
	}

	passed, err := reconcile.CheckConditions(record, conditions)
	if err != nil {
		return nil, err
	}

	report := &Report{CarID: carID, Record: record, Status: encar.InsuranceFailed}
	if passed {
		report.Status = encar.InsurancePassed
	}
	if record != nil && record.Unavailable {
		report.Details = reconcile.InsuranceUnavailableMarker
	}
	report.Label = report.Status.String()
	return report, nil
}

// FilterListings checks every listing concurrently. Listings failing the
// conditions are dropped; passing ones are marked passed. A listing whose history
// could not be fetched or evaluated is kept as pending.
// Without conditions the listings are returned unchanged.
func (s *Service) FilterListings(ctx context.Context, listings map[string]encar.Listing) map[string]encar.Listing {
	if len(s.conditions) == 0 {
		return listings
	}

	var (
		g        errgroup.Group
		mu       sync.Mutex
		kept     = make(map[string]encar.Listing, len(listings))
		dropped  int
		pending  int
		statuses = make(map[string]encar.InsuranceStatus, len(listings))
	)
	g.SetLimit(s.concurrency)

	for id := range listings {
		id := id
		g.Go(func() error {
			status := encar.InsurancePending
			report, err := s.Check(ctx, id)
			if err != nil {
				s.logger.Warn("Insurance check failed, keeping listing as pending",
					zap.String("car_id", id), zap.Error(err))
			} else {
				status = report.Status
			}
			mu.Lock()
			statuses[id] = status
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for id, listing := range listings {
		status, ok := statuses[id]
		if !ok {
			status = encar.InsurancePending
		}
		switch status {
		case encar.InsuranceFailed:
			dropped++
			continue
		case encar.InsurancePending:
			pending++
		}
		listing.Insurance = status
		kept[id] = listing
	}

	s.logger.Info("Insurance filter applied",
		zap.Int("checked", len(listings)),
		zap.Int("kept", len(kept)),
		zap.Int("dropped", dropped),
		zap.Int("pending", pending))

	return kept
}
