package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureSnapshot mirrors a typical pass: one new listing, two still listed
// (one with a price drop), one that just left the feed and two that left long ago.
func fixtureSnapshot() Snapshot {
	return Snapshot{
		Target: Target{Maker: "현대", Model: "그랜저", Submodel: "그랜저 (GN7)"},
		Live: map[string]LiveRecord{
			"B": {Price: intPtr(3500), Item: "listing-B"},
			"C": {Price: intPtr(3100)},
			"D": {Price: intPtr(2900)},
		},
		Stored: map[string]StoredRecord{
			"A": {PageID: "page-A", Availability: boolPtr(true), LastEditedTime: "2024-06-14T00:00:00.000Z"},
			"C": {PageID: "page-C", Availability: boolPtr(true), Price: intPtr(31000000), LastEditedTime: "2024-06-14T00:00:00.000Z"},
			"D": {PageID: "page-D", Availability: boolPtr(true), Price: intPtr(31000000), Comment: strPtr("3100→3000"), LastEditedTime: "2024-06-14T00:00:00.000Z"},
			"E": {PageID: "page-E", Availability: boolPtr(false), LastEditedTime: "2024-05-01T00:00:00.000Z"},
			"F": {PageID: "page-F", Availability: boolPtr(false), LastEditedTime: "2024-06-10T00:00:00.000Z"},
		},
	}
}

// TestBuildPlan_Actions tests that every engine output becomes the right action.
func TestBuildPlan_Actions(t *testing.T) {
	opts := ReconcileOptions{DoSync: true, DoPurge: true}

	plan, err := BuildPlan(fixtureSnapshot(), NewExpiration(referenceNow, 14), opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"B"}, plan.Differences.New)
	assert.Equal(t, []string{"C", "D"}, plan.Differences.Intersection)
	assert.Equal(t, []string{"A", "E", "F"}, plan.Differences.Unavailable)

	assert.Equal(t, PlanSummary{
		LiveItems:     3,
		StoredItems:   5,
		New:           1,
		Intersection:  2,
		Unavailable:   3,
		Expired:       1,
		CreateActions: 1,
		UpdateActions: 2,
		TrashActions:  1,
	}, plan.Summary)

	require.Len(t, plan.Actions, 4)

	assert.Equal(t, ActionCreate, plan.Actions[0].Type)
	assert.Equal(t, "B", plan.Actions[0].Key)
	require.NotNil(t, plan.Actions[0].Live)
	assert.Equal(t, "listing-B", plan.Actions[0].Live.Item)

	assert.Equal(t, ActionUpdate, plan.Actions[1].Type)
	assert.Equal(t, "page-D", plan.Actions[1].PageID)
	assert.Equal(t, "3100→3000→2900", *plan.Actions[1].Update.Comment)
	assert.Equal(t, 29000000, *plan.Actions[1].Update.Price)

	assert.Equal(t, ActionMarkUnavailable, plan.Actions[2].Type)
	assert.Equal(t, "page-A", plan.Actions[2].PageID)
	assert.False(t, *plan.Actions[2].Update.Availability)

	assert.Equal(t, ActionTrash, plan.Actions[3].Type)
	assert.Equal(t, "page-E", plan.Actions[3].PageID)

	assert.Len(t, plan.Updates, 1)
	assert.Contains(t, plan.Updates, "page-D")
}

// TestBuildPlan_Flags tests that options gate the planned actions but not the summary counts.
func TestBuildPlan_Flags(t *testing.T) {
	exp := NewExpiration(referenceNow, 14)

	plan, err := BuildPlan(fixtureSnapshot(), exp, ReconcileOptions{})
	require.NoError(t, err)
	assert.Empty(t, plan.Actions)
	assert.Equal(t, 1, plan.Summary.Expired)

	plan, err = BuildPlan(fixtureSnapshot(), exp, ReconcileOptions{DoPurge: true})
	require.NoError(t, err)
	require.Len(t, plan.Actions, 1)
	assert.Equal(t, ActionTrash, plan.Actions[0].Type)
}

// TestBuildPlan_ParseError tests that a malformed timestamp fails the plan.
func TestBuildPlan_ParseError(t *testing.T) {
	snap := fixtureSnapshot()
	snap.Stored["E"] = StoredRecord{PageID: "page-E", Availability: boolPtr(false)}

	plan, err := BuildPlan(snap, NewExpiration(referenceNow, 14), ReconcileOptions{DoPurge: true})
	assert.Nil(t, plan)
	assert.ErrorIs(t, err, ErrMissingTimestamp)

	_, err = BuildPlan(snap, nil, ReconcileOptions{})
	assert.Error(t, err)
}

// mockMutator records single-item calls.
type mockMutator struct {
	mu      sync.Mutex
	created []string
	updated []string
	trashed []string
	failOn  map[string]bool
}

func (m *mockMutator) CreateRecord(ctx context.Context, key string, live LiveRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn[key] {
		return fmt.Errorf("create %s rejected", key)
	}
	m.created = append(m.created, key)
	return nil
}

func (m *mockMutator) UpdateRecord(ctx context.Context, pageID string, update FieldUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn[pageID] {
		return fmt.Errorf("update %s rejected", pageID)
	}
	m.updated = append(m.updated, pageID)
	return nil
}

func (m *mockMutator) TrashRecord(ctx context.Context, pageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn[pageID] {
		return fmt.Errorf("trash %s rejected", pageID)
	}
	m.trashed = append(m.trashed, pageID)
	return nil
}

// mockBatchMutator implements the batch interfaces.
type mockBatchMutator struct {
	mockMutator
	createCalls [][]Action
	updateCalls [][]Action
	trashCalls  [][]string
}

func (m *mockBatchMutator) CreateBatch(ctx context.Context, actions []Action) (int, error) {
	m.createCalls = append(m.createCalls, actions)
	return len(actions), nil
}

func (m *mockBatchMutator) UpdateBatch(ctx context.Context, actions []Action) (int, error) {
	m.updateCalls = append(m.updateCalls, actions)
	return len(actions) - 1, errors.New("one update failed")
}

func (m *mockBatchMutator) TrashBatch(ctx context.Context, pageIDs []string) (int, error) {
	m.trashCalls = append(m.trashCalls, pageIDs)
	return len(pageIDs), nil
}

func fullPlan(t *testing.T) *ReconcilePlan {
	plan, err := BuildPlan(fixtureSnapshot(), NewExpiration(referenceNow, 14), ReconcileOptions{DoSync: true, DoPurge: true})
	require.NoError(t, err)
	return plan
}

// TestApplyPlan_SafetyChecks tests that nothing runs without confirmation or in dry-run.
func TestApplyPlan_SafetyChecks(t *testing.T) {
	plan := fullPlan(t)
	mutator := &mockMutator{}

	executed, err := ApplyPlan(context.Background(), mutator, plan, ReconcileOptions{Confirmed: false})
	assert.NoError(t, err)
	assert.Equal(t, 0, executed)

	executed, err = ApplyPlan(context.Background(), mutator, plan, ReconcileOptions{Confirmed: true, DryRun: true})
	assert.NoError(t, err)
	assert.Equal(t, 0, executed)

	assert.Empty(t, mutator.created)
	assert.Empty(t, mutator.updated)
	assert.Empty(t, mutator.trashed)

	_, err = ApplyPlan(context.Background(), nil, plan, ReconcileOptions{Confirmed: true})
	assert.Error(t, err)
}

// TestApplyPlan_Fallback tests single-item execution.
func TestApplyPlan_Fallback(t *testing.T) {
	mutator := &mockMutator{}

	executed, err := ApplyPlan(context.Background(), mutator, fullPlan(t), ReconcileOptions{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 4, executed)
	assert.Equal(t, []string{"B"}, mutator.created)
	assert.Equal(t, []string{"page-D", "page-A"}, mutator.updated)
	assert.Equal(t, []string{"page-E"}, mutator.trashed)
}

// TestApplyPlan_PartialFailure tests that one failing action does not block the rest.
func TestApplyPlan_PartialFailure(t *testing.T) {
	mutator := &mockMutator{failOn: map[string]bool{"page-D": true}}

	executed, err := ApplyPlan(context.Background(), mutator, fullPlan(t), ReconcileOptions{Confirmed: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page-D rejected")
	assert.Equal(t, 3, executed)
	assert.Equal(t, []string{"page-A"}, mutator.updated)
	assert.Equal(t, []string{"page-E"}, mutator.trashed)
}

// TestApplyPlan_Batch tests that batch interfaces are preferred.
func TestApplyPlan_Batch(t *testing.T) {
	mutator := &mockBatchMutator{}

	executed, err := ApplyPlan(context.Background(), mutator, fullPlan(t), ReconcileOptions{Confirmed: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "one update failed")
	assert.Equal(t, 3, executed)

	require.Len(t, mutator.createCalls, 1)
	require.Len(t, mutator.updateCalls, 1)
	assert.Len(t, mutator.updateCalls[0], 2)
	require.Len(t, mutator.trashCalls, 1)
	assert.Equal(t, []string{"page-E"}, mutator.trashCalls[0])
	assert.Empty(t, mutator.created, "Should NOT use individual calls")
}

// TestApplyPlan_Cancelled tests that a cancelled context stops execution.
func TestApplyPlan_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mutator := &mockMutator{}
	executed, err := ApplyPlan(ctx, mutator, fullPlan(t), ReconcileOptions{Confirmed: true})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, executed)
}
