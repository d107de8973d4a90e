package notion

import (
	"listing-sync/core/reconcile"
	"listing-sync/core/utils"
)

// PropertyKind is the type of a database property.
type PropertyKind string

const (
	KindTitle    PropertyKind = "title"
	KindRichText PropertyKind = "rich_text"
	KindNumber   PropertyKind = "number"
	KindSelect   PropertyKind = "select"
	KindDate     PropertyKind = "date"
	KindURL      PropertyKind = "url"
)

// Property names of the listing database.
const (
	PropCarID        = "Car ID"
	PropMaker        = "Maker"
	PropModel        = "Model"
	PropSubmodel     = "Submodel"
	PropBadge        = "Badge"
	PropBadgeDetail  = "Badge Detail"
	PropTransmission = "Transmission"
	PropFuelType     = "Fuel Type"
	PropYear         = "Year"
	PropFormYear     = "Form Year"
	PropMileage      = "Mileage"
	PropPrice        = "Price"
	PropLocation     = "Location"
	PropModifiedDate = "Modified Date"
	PropURL          = "URL"
	PropInsurance    = "Insurance & Inspection Check"
	PropAvailability = "Availability"
	PropComment      = "Comment"
)

// Select labels.
const (
	LabelTrue    = "✅True"
	LabelFalse   = "🚫False"
	LabelPending = "🚧Pending"
)

var fuelLabels = map[string]string{
	"가솔린":    "⛽Gasoline",
	"디젤":     "🛢️Diesel",
	"전기":     "⚡Electric",
	"가솔린+전기": "⚡Hybrid⛽",
}

// encoders turn a logical value into a property value of their kind. The second
// result is false when the value cannot be expressed, e.g. an empty select.
var encoders = map[PropertyKind]func(v any) (Property, bool){
	KindTitle: func(v any) (Property, bool) {
		return Property{Title: textRuns(utils.ToString(v))}, true
	},
	KindRichText: func(v any) (Property, bool) {
		return Property{RichText: textRuns(utils.ToString(v))}, true
	},
	KindNumber: func(v any) (Property, bool) {
		if v == nil {
			return Property{}, false
		}
		n := float64(utils.ToInt(v))
		return Property{Number: &n}, true
	},
	KindSelect: func(v any) (Property, bool) {
		name := utils.ToString(v)
		if name == "" {
			return Property{}, false
		}
		return Property{Select: &SelectOption{Name: name}}, true
	},
	KindDate: func(v any) (Property, bool) {
		start := utils.ToString(v)
		if start == "" {
			return Property{}, false
		}
		return Property{Date: &DateValue{Start: start}}, true
	},
	KindURL: func(v any) (Property, bool) {
		u := utils.ToString(v)
		if u == "" {
			return Property{}, false
		}
		return Property{URL: &u}, true
	},
}

// MaxTextRunLength is the longest content the API accepts in one text run, in characters.
const MaxTextRunLength = 2000

// textRuns splits s into runs of at most MaxTextRunLength characters.
func textRuns(s string) []RichText {
	chars := []rune(s)
	if len(chars) <= MaxTextRunLength {
		return []RichText{{Text: &Text{Content: s}}}
	}
	runs := make([]RichText, 0, len(chars)/MaxTextRunLength+1)
	for len(chars) > 0 {
		n := min(MaxTextRunLength, len(chars))
		runs = append(runs, RichText{Text: &Text{Content: string(chars[:n])}})
		chars = chars[n:]
	}
	return runs
}

// DefaultPropertyNames maps logical variables to listing database properties.
var DefaultPropertyNames = map[string]string{
	"car_id":               PropCarID,
	"maker":                PropMaker,
	"model":                PropModel,
	"submodel":             PropSubmodel,
	"badge":                PropBadge,
	"badge_detail":         PropBadgeDetail,
	"transmission":         PropTransmission,
	"fuel_type":            PropFuelType,
	"year":                 PropYear,
	"form_year":            PropFormYear,
	"mileage":              PropMileage,
	"price":                PropPrice,
	"location":             PropLocation,
	"modified_date":        PropModifiedDate,
	"url":                  PropURL,
	"insurance_inspection": PropInsurance,
	"availability":         PropAvailability,
	"comment":              PropComment,
}

// DefaultPropertyKinds groups logical variables by property kind.
var DefaultPropertyKinds = map[PropertyKind][]string{
	KindTitle:    {"car_id"},
	KindRichText: {"model", "submodel", "badge", "badge_detail", "comment", "location", "transmission"},
	KindNumber:   {"form_year", "year", "mileage", "price"},
	KindSelect:   {"availability", "maker", "insurance_inspection", "fuel_type"},
	KindDate:     {"modified_date"},
	KindURL:      {"url"},
}

// PayloadGenerator builds property payloads from logical variables.
type PayloadGenerator struct {
	names map[string]string
	kinds map[string]PropertyKind
}

// NewPayloadGenerator creates a generator from a name table and a kind table.
func NewPayloadGenerator(names map[string]string, kinds map[PropertyKind][]string) *PayloadGenerator {
	g := &PayloadGenerator{names: names, kinds: map[string]PropertyKind{}}
	for kind, vars := range kinds {
		for _, v := range vars {
			g.kinds[v] = kind
		}
	}
	return g
}

// DefaultPayloadGenerator creates a generator for the listing database.
func DefaultPayloadGenerator() *PayloadGenerator {
	return NewPayloadGenerator(DefaultPropertyNames, DefaultPropertyKinds)
}

// Properties encodes vars. Variables without a property name or kind are skipped;
// when only is given, variables outside it are skipped too.
func (g *PayloadGenerator) Properties(vars map[string]any, only ...string) map[string]Property {
	var allowed map[string]bool
	if len(only) > 0 {
		allowed = make(map[string]bool, len(only))
		for _, v := range only {
			allowed[v] = true
		}
	}

	props := map[string]Property{}
	for variable, value := range vars {
		if allowed != nil && !allowed[variable] {
			continue
		}
		name, ok := g.names[variable]
		if !ok {
			continue
		}
		kind, ok := g.kinds[variable]
		if !ok {
			continue
		}
		if prop, ok := encoders[kind](value); ok {
			props[name] = prop
		}
	}
	return props
}

// ListingProperties encodes a listing's page variables, translating raw flags and
// fuel names into the database's select labels.
func (g *PayloadGenerator) ListingProperties(vars map[string]any) map[string]Property {
	labelled := make(map[string]any, len(vars))
	for k, v := range vars {
		labelled[k] = v
	}
	if v, ok := vars["availability"]; ok {
		labelled["availability"] = StatusLabel(utils.ToBool(v))
	}
	if v, ok := vars["insurance_inspection"]; ok {
		labelled["insurance_inspection"] = InsuranceLabel(utils.ToInt(v))
	}
	if v, ok := vars["fuel_type"]; ok {
		labelled["fuel_type"] = FuelLabel(utils.ToString(v))
	}
	return g.Properties(labelled)
}

// UpdateProperties encodes a field update.
func (g *PayloadGenerator) UpdateProperties(update reconcile.FieldUpdate) map[string]Property {
	vars := map[string]any{}
	if update.Availability != nil {
		vars["availability"] = StatusLabel(*update.Availability)
	}
	if update.Price != nil {
		vars["price"] = *update.Price
	}
	if update.Comment != nil {
		vars["comment"] = *update.Comment
	}
	return g.Properties(vars)
}

// StatusLabel returns the select label of a flag.
func StatusLabel(v bool) string {
	if v {
		return LabelTrue
	}
	return LabelFalse
}

// InsuranceLabel returns the select label of an insurance status (1, 0, -1).
func InsuranceLabel(status int) string {
	switch status {
	case 1:
		return LabelTrue
	case 0:
		return LabelFalse
	default:
		return LabelPending
	}
}

// FuelLabel returns the select label of a fuel type. Unknown types pass through.
func FuelLabel(fuel string) string {
	if label, ok := fuelLabels[fuel]; ok {
		return label
	}
	return fuel
}

// ParseStatusLabel reads an availability label. Unknown labels yield nil.
func ParseStatusLabel(label string) *bool {
	switch label {
	case LabelTrue:
		return utils.Ptr(true)
	case LabelFalse:
		return utils.Ptr(false)
	default:
		return nil
	}
}

// DatabaseSchema returns the property schema of the listing database.
func DatabaseSchema() map[string]any {
	options := func(pairs ...string) map[string]any {
		opts := make([]map[string]string, 0, len(pairs)/2)
		for i := 0; i+1 < len(pairs); i += 2 {
			opts = append(opts, map[string]string{"name": pairs[i], "color": pairs[i+1]})
		}
		return map[string]any{"options": opts}
	}
	empty := map[string]any{}

	return map[string]any{
		PropCarID:        map[string]any{"title": empty},
		PropMaker:        map[string]any{"select": options("현대", "blue", "기아", "red")},
		PropModel:        map[string]any{"rich_text": empty},
		PropSubmodel:     map[string]any{"rich_text": empty},
		PropBadge:        map[string]any{"rich_text": empty},
		PropBadgeDetail:  map[string]any{"rich_text": empty},
		PropTransmission: map[string]any{"rich_text": empty},
		PropFuelType: map[string]any{"select": options(
			"⛽Gasoline", "red", "🛢️Diesel", "gray", "⚡Electric", "green", "⚡Hybrid⛽", "blue")},
		PropYear:         map[string]any{"number": empty},
		PropFormYear:     map[string]any{"number": empty},
		PropMileage:      map[string]any{"number": empty},
		PropPrice:        map[string]any{"number": map[string]any{"format": "won"}},
		PropLocation:     map[string]any{"rich_text": empty},
		PropModifiedDate: map[string]any{"date": empty},
		PropURL:          map[string]any{"url": empty},
		PropInsurance:    map[string]any{"select": options(LabelTrue, "green", LabelFalse, "red", LabelPending, "yellow")},
		PropAvailability: map[string]any{"select": options(LabelTrue, "green", LabelFalse, "red")},
		PropComment:      map[string]any{"rich_text": empty},
	}
}

// SchemaKinds returns the expected kind of every property in DatabaseSchema.
func SchemaKinds() map[string]PropertyKind {
	kinds := map[string]PropertyKind{}
	for name, def := range DatabaseSchema() {
		for kind := range def.(map[string]any) {
			kinds[name] = PropertyKind(kind)
		}
	}
	return kinds
}
