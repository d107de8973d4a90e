package reconcile

import (
	"time"
)

// TimestampLayout is the store's last-edited format (%Y-%m-%dT%H:%M:%S.%f%z).
// The store emits either a "Z" suffix or a colon-separated offset.
const TimestampLayout = "2006-01-02T15:04:05.999999Z07:00"

// timestampLayoutCompact accepts offsets written without a colon (+0900).
const timestampLayoutCompact = "2006-01-02T15:04:05.999999Z0700"

// Expiration flags stored records that have not been edited within a retention window.
// The reference instant is fixed at construction so one evaluator gives consistent
// answers for a whole batch.
type Expiration struct {
	now    time.Time
	window time.Duration
	days   int
}

// NewExpiration creates an evaluator anchored at now. Non-positive days fall back
// to DefaultExpirationDays.
func NewExpiration(now time.Time, days int) *Expiration {
	if days <= 0 {
		days = DefaultExpirationDays
	}
	return &Expiration{
		now:    now,
		window: time.Duration(days) * 24 * time.Hour,
		days:   days,
	}
}

// Now returns the fixed reference instant.
func (e *Expiration) Now() time.Time { return e.now }

// Days returns the retention window in days.
func (e *Expiration) Days() int { return e.days }

// Cutoff returns the instant before which a last edit counts as expired.
func (e *Expiration) Cutoff() time.Time { return e.now.Add(-e.window) }

// IsExpired reports whether the record was last edited more than the window ago.
func (e *Expiration) IsExpired(record StoredRecord) (bool, error) {
	edited, err := ParseTimestamp(record.LastEditedTime)
	if err != nil {
		return false, err
	}
	return e.now.Sub(edited) > e.window, nil
}

// CollectExpired returns the targets whose records are past the retention window,
// in target order. A target without a record or without a readable timestamp fails
// the whole batch with a *ParseError.
func (e *Expiration) CollectExpired(targets []string, records map[string]StoredRecord) ([]string, error) {
	expired := []string{}
	for _, id := range targets {
		record, ok := records[id]
		if !ok {
			return nil, &ParseError{Key: id, Err: ErrMissingTimestamp}
		}
		isExpired, err := e.IsExpired(record)
		if err != nil {
			return nil, &ParseError{Key: id, Value: record.LastEditedTime, Err: err}
		}
		if isExpired {
			expired = append(expired, id)
		}
	}
	return expired, nil
}

// ParseTimestamp reads a last-edited timestamp in TimestampLayout.
func ParseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, ErrMissingTimestamp
	}
	if t, err := time.Parse(TimestampLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(timestampLayoutCompact, value); err == nil {
		return t, nil
	}
	return time.Time{}, ErrMalformedTimestamp
}
