package notion

import (
	"listing-sync/core/reconcile"
)

// TargetFilter returns the query filter selecting one target's pages.
func TargetFilter(target reconcile.Target) map[string]any {
	return map[string]any{
		"and": []map[string]any{
			{"property": PropMaker, "select": map[string]any{"equals": target.Maker}},
			{"property": PropModel, "rich_text": map[string]any{"equals": target.Model}},
			{"property": PropSubmodel, "rich_text": map[string]any{"equals": target.Submodel}},
		},
	}
}

// ExtractRecords indexes pages by their Car ID title.
// Pages without a title are skipped. When two pages share an id the first wins
// and the ids of the others are returned in duplicates, keyed by Car ID.
func ExtractRecords(pages []Page) (records map[string]reconcile.StoredRecord, duplicates map[string][]string) {
	records = make(map[string]reconcile.StoredRecord, len(pages))
	duplicates = map[string][]string{}
	for _, page := range pages {
		id := PlainText(page.Properties[PropCarID].Title)
		if id == "" {
			continue
		}
		if _, dup := records[id]; dup {
			duplicates[id] = append(duplicates[id], page.ID)
			continue
		}

		record := reconcile.StoredRecord{
			PageID:         page.ID,
			LastEditedTime: page.LastEditedTime,
		}
		if sel := page.Properties[PropAvailability].Select; sel != nil {
			record.Availability = ParseStatusLabel(sel.Name)
		}
		if n := page.Properties[PropPrice].Number; n != nil {
			price := int(*n)
			record.Price = &price
		}
		if runs := page.Properties[PropComment].RichText; len(runs) > 0 {
			comment := PlainText(runs)
			record.Comment = &comment
		}
		records[id] = record
	}
	return records, duplicates
}
