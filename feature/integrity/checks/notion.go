package checks

import (
	"context"
	"fmt"

	"listing-sync/core/reconcile"
	"listing-sync/feature/notion"
)

// PropertyFetcher reads the property kinds of a record store database.
type PropertyFetcher interface {
	DatabaseProperties(ctx context.Context, databaseID string) (map[string]notion.PropertyKind, error)
}

// NotionReport is the result of a listing database schema check.
type NotionReport struct {
	DatabaseID     string   `json:"database_id"`
	Matched        bool     `json:"matched"`
	Missing        []string `json:"missing"`
	TypeMismatches []string `json:"type_mismatches"`
}

// CheckNotionSchema compares the listing database properties with the schema
// pages are written with.
func CheckNotionSchema(ctx context.Context, fetcher PropertyFetcher, databaseID string) (*NotionReport, error) {
	if databaseID == "" {
		return nil, fmt.Errorf("notion database id is not configured")
	}

	actual, err := fetcher.DatabaseProperties(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	report := &NotionReport{
		DatabaseID:     databaseID,
		Matched:        true,
		Missing:        []string{},
		TypeMismatches: []string{},
	}

	expected := notion.SchemaKinds()
	for _, name := range reconcile.Keys(expected) {
		kind, ok := actual[name]
		if !ok {
			report.Missing = append(report.Missing, name)
			continue
		}
		if kind != expected[name] {
			report.TypeMismatches = append(report.TypeMismatches,
				fmt.Sprintf("%s: expected %s, got %s", name, expected[name], kind))
		}
	}
	report.Matched = len(report.Missing) == 0 && len(report.TypeMismatches) == 0
	return report, nil
}
