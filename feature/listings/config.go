package listings

import (
	"strings"

	"listing-sync/core/reconcile"
)

// Config holds the reconciliation target and policy.
type Config struct {
	// Maker is the manufacturer name as listed on the marketplace.
	Maker string `mapstructure:"maker" default:""`
	// Model is the model group.
	Model string `mapstructure:"model" default:""`
	// Submodel is the concrete model.
	Submodel string `mapstructure:"submodel" default:""`
	// YearStart and YearEnd bound the registration year (YYYYMM). Empty leaves a side open.
	YearStart string `mapstructure:"year_start" default:""`
	YearEnd   string `mapstructure:"year_end" default:""`
	// MileageStart and MileageEnd bound the mileage in km.
	MileageStart string `mapstructure:"mileage_start" default:""`
	MileageEnd   string `mapstructure:"mileage_end" default:""`
	// PriceStart and PriceEnd bound the price in 만원.
	PriceStart string `mapstructure:"price_start" default:""`
	PriceEnd   string `mapstructure:"price_end" default:""`
	// Options is a comma separated list of required option codes.
	Options string `mapstructure:"options" default:""`
	// Conditions is the insurance condition list, e.g. "general==정상;owner_changed<=2".
	Conditions string `mapstructure:"conditions" default:""`
	// ExpirationDays is how long an unavailable record is kept before it is trashed.
	ExpirationDays int `mapstructure:"expiration_days" default:"14"`
	// CacheTTLSeconds is how long a loaded snapshot is reused by plan requests.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"60"`
	// DoSync enables create, update and mark_unavailable actions.
	DoSync bool `mapstructure:"do_sync" default:"true"`
	// DoPurge enables trashing of expired records.
	DoPurge bool `mapstructure:"do_purge" default:"true"`
	// ArchiveRetentionDays is how long run archives are kept. Zero keeps them forever.
	ArchiveRetentionDays int `mapstructure:"archive_retention_days" default:"30"`
	// IntervalMinutes schedules a periodic sync from the start command. Zero disables it.
	IntervalMinutes int `mapstructure:"interval_minutes" default:"0"`
}

// Target builds the reconciliation target described by the configuration.
func (c Config) Target() reconcile.Target {
	target := reconcile.Target{
		Maker:    c.Maker,
		Model:    c.Model,
		Submodel: c.Submodel,
		Ranges:   map[string]reconcile.Range{},
	}

	ranges := []struct {
		key        string
		start, end string
	}{
		{"year", c.YearStart, c.YearEnd},
		{"mileage", c.MileageStart, c.MileageEnd},
		{"price", c.PriceStart, c.PriceEnd},
	}
	for _, r := range ranges {
		if r.start == "" && r.end == "" {
			continue
		}
		target.Ranges[r.key] = reconcile.Range{Start: r.start, End: r.end}
	}

	for _, opt := range strings.Split(c.Options, ",") {
		if opt = strings.TrimSpace(opt); opt != "" {
			target.Options = append(target.Options, opt)
		}
	}
	return target
}

// Validate reports a missing target.
func (c Config) Validate() error {
	if c.Maker == "" || c.Model == "" || c.Submodel == "" {
		return ErrTargetNotConfigured
	}
	return nil
}
