package encar

import (
	"fmt"
	"strings"

	"listing-sync/core/reconcile"
)

const (
	queryClosing = "_.SellType.일반._.Condition.Inspection._.Condition.Record.)"
)

// rangeFields lists the range filters in the order they are appended.
var rangeFields = []struct {
	key  string
	name string
}{
	{"year", "Year"},
	{"mileage", "Mileage"},
	{"price", "Price"},
}

// BuildQuery renders the search expression for a target. Only inspected,
// privately sold listings with a record are matched.
func BuildQuery(target reconcile.Target) string {
	var b strings.Builder
	fmt.Fprintf(&b, "(And.Hidden.N._.(C.CarType.Y._.(C.Manufacturer.%s._.(C.ModelGroup.%s._.Model.%s.)))",
		target.Maker, target.Model, target.Submodel)

	for _, field := range rangeFields {
		r, ok := target.Ranges[field.key]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "_.%s.range(%s..%s).", field.name, r.Start, r.End)
	}
	for _, option := range target.Options {
		fmt.Fprintf(&b, "_.Options.%s.", option)
	}

	b.WriteString(queryClosing)
	return b.String()
}
