package reconcile

import "slices"

// IdentifyDifferences classifies identifiers into new (live only), intersection
// (both) and unavailable (stored only).
//
// Both inputs are copied, sorted and reduced to unique values before a single
// two-cursor merge, so the result is deterministic regardless of input order
// and the inputs are never modified.
func IdentifyDifferences(stored, live []string) Differences {
	db := sortedUnique(stored)
	api := sortedUnique(live)

	diff := Differences{
		New:          []string{},
		Intersection: []string{},
		Unavailable:  []string{},
	}

	i, j := 0, 0
	for i < len(db) && j < len(api) {
		switch {
		case db[i] == api[j]:
			diff.Intersection = append(diff.Intersection, db[i])
			i++
			j++
		case db[i] < api[j]:
			diff.Unavailable = append(diff.Unavailable, db[i])
			i++
		default:
			diff.New = append(diff.New, api[j])
			j++
		}
	}

	// One side is exhausted; whatever remains on the other has no partner.
	diff.Unavailable = append(diff.Unavailable, db[i:]...)
	diff.New = append(diff.New, api[j:]...)

	return diff
}

// FindByStatus splits targets into those whose stored availability equals status
// and those that do not. Identifiers missing from reference are always unmatched;
// a record without an availability flag reads as unavailable.
func FindByStatus(targets []string, reference map[string]StoredRecord, status bool) (matched, unmatched []string) {
	matched = []string{}
	unmatched = []string{}
	for _, id := range targets {
		record, ok := reference[id]
		if ok && record.IsAvailable() == status {
			matched = append(matched, id)
			continue
		}
		unmatched = append(unmatched, id)
	}
	return matched, unmatched
}

// Keys returns the sorted keys of a record index.
func Keys[M ~map[string]V, V any](index M) []string {
	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func sortedUnique(ids []string) []string {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
