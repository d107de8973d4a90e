package reconcile

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// Insurance history fields that conditions may reference.
const (
	FieldGeneral          = "general"
	FieldBusinessUse      = "business_use"
	FieldPlateAndOwner    = "plate_and_owner"
	FieldIrreparable      = "irreparable"
	FieldSelfDamage       = "self_damage"
	FieldThirdPartyDamage = "third_party_damage"
	FieldPlateChanged     = "plate_changed"
	FieldOwnerChanged     = "owner_changed"
)

// AllowedConditionFields is the allow-list enforced by CheckConditions.
var AllowedConditionFields = []string{
	FieldGeneral,
	FieldBusinessUse,
	FieldPlateAndOwner,
	FieldIrreparable,
	FieldSelfDamage,
	FieldThirdPartyDamage,
	FieldPlateChanged,
	FieldOwnerChanged,
}

// InsuranceUnavailableMarker is the text the history page shows when no lookup is possible.
const InsuranceUnavailableMarker = "조회불가차량"

// InsuranceRecord is a parsed insurance-history summary.
// Field values are either strings or ints.
type InsuranceRecord struct {
	// Unavailable marks a history page that could not be looked up.
	Unavailable bool `json:"unavailable"`

	// Fields maps a history field name to its value.
	Fields map[string]any `json:"fields"`
}

// Operator is a comparison supported by the condition language.
type Operator int

const (
	OpEqual Operator = iota + 1
	OpNotEqual
	OpLessEqual
	OpGreaterEqual
)

var operatorSymbols = map[Operator]string{
	OpEqual:        "==",
	OpNotEqual:     "!=",
	OpLessEqual:    "<=",
	OpGreaterEqual: ">=",
}

// comparators resolve an operator against the three-way comparison of two operands.
var comparators = map[Operator]func(c int) bool{
	OpEqual:        func(c int) bool { return c == 0 },
	OpNotEqual:     func(c int) bool { return c != 0 },
	OpLessEqual:    func(c int) bool { return c <= 0 },
	OpGreaterEqual: func(c int) bool { return c >= 0 },
}

func (o Operator) String() string {
	if s, ok := operatorSymbols[o]; ok {
		return s
	}
	return "Operator(" + strconv.Itoa(int(o)) + ")"
}

// ParseOperator resolves an operator symbol.
func ParseOperator(symbol string) (Operator, error) {
	for op, s := range operatorSymbols {
		if s == symbol {
			return op, nil
		}
	}
	return 0, &ConfigurationError{Operator: symbol, Err: ErrUnsupportedOperator}
}

// Condition is an operator and operand applied to one field.
type Condition struct {
	Operator Operator `json:"operator"`
	Operand  any      `json:"operand"`
}

// ConditionSet maps an allowed field name to its condition.
type ConditionSet map[string]Condition

// Validate checks every field against the allow-list and every operator against
// the supported set, in field order.
func (s ConditionSet) Validate() error {
	for _, field := range Keys(s) {
		if !slices.Contains(AllowedConditionFields, field) {
			return &ConfigurationError{Field: field, Err: ErrUnknownField}
		}
		if _, ok := comparators[s[field].Operator]; !ok {
			return &ConfigurationError{Field: field, Operator: s[field].Operator.String(), Err: ErrUnsupportedOperator}
		}
	}
	return nil
}

// CheckConditions reports whether record satisfies every condition.
//
// The condition set is validated before the record is looked at, so a bad
// configuration yields a *ConfigurationError whatever the record holds. A nil
// record or one marked unavailable never matches. A field the record does not
// carry fails its condition.
func CheckConditions(record *InsuranceRecord, conditions ConditionSet) (bool, error) {
	if err := conditions.Validate(); err != nil {
		return false, err
	}
	if record == nil || record.Unavailable {
		return false, nil
	}

	for _, field := range Keys(conditions) {
		cond := conditions[field]
		value, ok := record.Fields[field]
		if !ok {
			return false, nil
		}
		matched, err := evaluate(cond.Operator, value, cond.Operand)
		if err != nil {
			return false, &ConfigurationError{Field: field, Operator: cond.Operator.String(), Err: err}
		}
		if !matched {
			return false, nil
		}
	}
	return true, nil
}

func evaluate(op Operator, value, operand any) (bool, error) {
	c, comparable := compareValues(value, operand)
	if !comparable {
		switch op {
		case OpEqual:
			return false, nil
		case OpNotEqual:
			return true, nil
		default:
			return false, ErrIncomparable
		}
	}
	return comparators[op](c), nil
}

// compareValues orders two values of the same kind. Ints compare numerically and
// strings lexicographically; mixed kinds are not comparable.
func compareValues(a, b any) (int, bool) {
	switch av := a.(type) {
	case int:
		if bv, ok := b.(int); ok {
			return cmp.Compare(av, bv), true
		}
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv), true
		}
	}
	return 0, false
}

// ParseConditions reads a condition list such as
// "general==정상; owner_changed<=2". Operands that parse as integers become ints.
// A field may appear only once.
// The result is validated before it is returned.
func ParseConditions(expr string) (ConditionSet, error) {
	set := ConditionSet{}
	for _, part := range strings.FieldsFunc(expr, func(r rune) bool { return r == ';' || r == ',' }) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx := operatorIndex(part)
		if idx < 0 {
			return nil, &ConfigurationError{Field: part, Err: ErrUnsupportedOperator}
		}
		field := strings.TrimSpace(part[:idx])
		if _, dup := set[field]; dup {
			return nil, &ConfigurationError{Field: field, Err: ErrDuplicateField}
		}
		op, err := ParseOperator(part[idx : idx+2])
		if err != nil {
			return nil, err
		}
		raw := strings.TrimSpace(part[idx+2:])
		var operand any = raw
		if n, err := strconv.Atoi(raw); err == nil {
			operand = n
		}
		set[field] = Condition{Operator: op, Operand: operand}
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

func operatorIndex(part string) int {
	best := -1
	for _, symbol := range operatorSymbols {
		if i := strings.Index(part, symbol); i >= 0 && (best < 0 || i < best) {
			best = i
		}
	}
	return best
}
