package reconcile

import (
	"strconv"
)

// CommentSeparator joins consecutive prices in a comment trail.
const CommentSeparator = "→"

// DetectChanges derives the field updates for identifiers present on both sides.
//
// For every identifier the rules are applied independently:
//   - a stored record that is not flagged available gets availability=true;
//   - when both prices are present and differ after unit normalization, the
//     stored price is replaced and the live price is appended to the comment
//     trail (or a "db→api" trail is started).
//
// The result only contains handles that need a change and is never nil.
func DetectChanges(intersection []string, live map[string]LiveRecord, stored map[string]StoredRecord) UpdateSet {
	updates := UpdateSet{}
	for _, id := range intersection {
		record, ok := stored[id]
		if !ok {
			continue
		}

		var update FieldUpdate
		if !record.IsAvailable() {
			available := true
			update.Availability = &available
		}

		apiPrice, apiOK := livePrice(live[id])
		dbPrice, dbOK := storedPrice(record)
		if apiOK && dbOK && apiPrice != dbPrice {
			price := apiPrice * PriceUnit
			comment := extendTrail(record.Comment, dbPrice, apiPrice)
			update.Price = &price
			update.Comment = &comment
		}

		if !update.IsEmpty() {
			updates[record.PageID] = update
		}
	}
	return updates
}

// livePrice returns the feed price in 만원.
// A zero price counts as absent: the feed reports 0 for listings whose price is
// not yet published, so a genuine zero price is indistinguishable from a gap.
func livePrice(record LiveRecord) (int, bool) {
	if record.Price == nil || *record.Price == 0 {
		return 0, false
	}
	return *record.Price, true
}

// storedPrice returns the stored price converted to 만원, with the same zero quirk.
func storedPrice(record StoredRecord) (int, bool) {
	if record.Price == nil {
		return 0, false
	}
	price := *record.Price / PriceUnit
	if price == 0 {
		return 0, false
	}
	return price, true
}

func extendTrail(previous *string, dbPrice, apiPrice int) string {
	if previous != nil && *previous != "" {
		return *previous + CommentSeparator + strconv.Itoa(apiPrice)
	}
	return strconv.Itoa(dbPrice) + CommentSeparator + strconv.Itoa(apiPrice)
}
