package reconcile

import "time"

// PriceUnit is the factor between the live feed price unit (만원) and the
// stored price unit (won).
const PriceUnit = 10000

// DefaultExpirationDays is the retention window applied when none is configured.
const DefaultExpirationDays = 14

// Target names the vehicle a reconciliation pass is scoped to.
// Both the live feed query and the stored-record filter are derived from it.
type Target struct {
	// Maker is the manufacturer name as used by the marketplace (e.g. "현대").
	Maker string `json:"maker"`

	// Model is the model group (e.g. "그랜저").
	Model string `json:"model"`

	// Submodel is the concrete model (e.g. "그랜저 (GN7)").
	Submodel string `json:"submodel"`

	// Ranges restricts numeric listing attributes. Keys are "year", "mileage" and "price".
	Ranges map[string]Range `json:"ranges,omitempty"`

	// Options lists marketplace option codes every listing must carry.
	Options []string `json:"options,omitempty"`
}

// Key returns a stable identifier for the target, used for caching and history.
func (t Target) Key() string {
	return t.Maker + "|" + t.Model + "|" + t.Submodel
}

// Range is an inclusive numeric range. Empty bounds are left open.
type Range struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// LiveRecord holds the attributes of one listing as reported by the live feed.
type LiveRecord struct {
	// Price is expressed in 만원 (10,000 won). Nil when the feed omitted it.
	Price *int `json:"price,omitempty"`

	// Item carries the collaborator's full listing so create actions can build
	// the stored representation. The engine never inspects it.
	Item any `json:"-"`
}

// StoredRecord holds the attributes of one listing as persisted in the store.
type StoredRecord struct {
	// PageID is the store's handle for the record.
	PageID string `json:"page_id"`

	// Availability is nil when the flag was never set; nil reads as unavailable.
	Availability *bool `json:"availability,omitempty"`

	// Price is expressed in won.
	Price *int `json:"price,omitempty"`

	// Comment is the append-only price history trail.
	Comment *string `json:"comment,omitempty"`

	// LastEditedTime is the store's last-modified timestamp, see TimestampLayout.
	LastEditedTime string `json:"last_edited_time"`
}

// IsAvailable resolves the availability flag, treating an unset flag as false.
func (r StoredRecord) IsAvailable() bool {
	return r.Availability != nil && *r.Availability
}

// FieldUpdate is a partial set of field changes for one stored record.
// Nil fields are left untouched.
type FieldUpdate struct {
	Availability *bool   `json:"availability,omitempty"`
	Price        *int    `json:"price,omitempty"`
	Comment      *string `json:"comment,omitempty"`
}

// IsEmpty reports whether the update carries no change.
func (u FieldUpdate) IsEmpty() bool {
	return u.Availability == nil && u.Price == nil && u.Comment == nil
}

// UpdateSet maps a stored record handle to the changes it needs.
type UpdateSet map[string]FieldUpdate

// Differences is the output of IdentifyDifferences. Every slice is sorted ascending.
type Differences struct {
	// New holds identifiers present in the live feed but not in the store.
	New []string `json:"new"`

	// Intersection holds identifiers present on both sides.
	Intersection []string `json:"intersection"`

	// Unavailable holds identifiers present in the store but not in the live feed.
	Unavailable []string `json:"unavailable"`
}

// Snapshot is one materialized view of both sides for a target.
type Snapshot struct {
	Target   Target                  `json:"target"`
	Live     map[string]LiveRecord   `json:"live"`
	Stored   map[string]StoredRecord `json:"stored"`
	LoadedAt time.Time               `json:"loaded_at"`
}

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionCreate creates a stored record for a new live listing.
	ActionCreate ActionType = "create"
	// ActionUpdate applies a FieldUpdate to a stored record still in the feed.
	ActionUpdate ActionType = "update"
	// ActionMarkUnavailable flips a stored record that left the feed to unavailable.
	ActionMarkUnavailable ActionType = "mark_unavailable"
	// ActionTrash purges a stored record past the retention window.
	ActionTrash ActionType = "trash"
)

// Action represents a planned mutation operation.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Key is the listing identifier.
	Key string `json:"key"`

	// PageID is the stored record handle. Empty for create actions.
	PageID string `json:"page_id,omitempty"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`

	// Update holds the field changes for update and mark_unavailable actions.
	Update *FieldUpdate `json:"update,omitempty"`

	// Live stores the feed record for create actions.
	Live *LiveRecord `json:"-"`
}

// ReconcilePlan contains the diff, the derived update set and planned actions.
type ReconcilePlan struct {
	// Target is the vehicle the plan was built for.
	Target Target `json:"target"`

	// Differences is the raw identifier classification.
	Differences Differences `json:"differences"`

	// Updates is the change detector output, keyed by page id.
	Updates UpdateSet `json:"updates"`

	// Actions contains planned mutation operations.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a reconcile plan.
type PlanSummary struct {
	// LiveItems is the number of listings in the live feed.
	LiveItems int `json:"live_items"`

	// StoredItems is the number of stored records.
	StoredItems int `json:"stored_items"`

	// New counts identifiers only present in the feed.
	New int `json:"new"`

	// Intersection counts identifiers present on both sides.
	Intersection int `json:"intersection"`

	// Unavailable counts identifiers only present in the store.
	Unavailable int `json:"unavailable"`

	// Expired counts unavailable records past the retention window.
	Expired int `json:"expired"`

	// CreateActions counts planned create actions.
	CreateActions int `json:"create_actions"`

	// UpdateActions counts planned update and mark_unavailable actions.
	UpdateActions int `json:"update_actions"`

	// TrashActions counts planned trash actions.
	TrashActions int `json:"trash_actions"`
}

// ReconcileOptions controls reconcile behavior for purge/sync operations.
type ReconcileOptions struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// DoPurge enables trashing of expired unavailable records.
	DoPurge bool

	// DoSync enables create, update and mark_unavailable actions.
	DoSync bool

	// Confirmed indicates user has confirmed destructive actions.
	// If false, mutations will not execute regardless of DryRun.
	Confirmed bool
}
