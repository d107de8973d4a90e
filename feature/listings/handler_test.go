package listings

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"listing-sync/feature/listings/history"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, mutator *fakeMutator) (*fiber.App, *Service) {
	svc, _ := setupService(t, mutator)
	app := fiber.New()
	NewHandler(svc).RegisterRoutes(app)
	return app, svc
}

func decode(t *testing.T, app *fiber.App, method, path string, out any) int {
	resp, err := app.Test(httptest.NewRequest(method, path, nil))
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHandlePlan(t *testing.T) {
	app, _ := setupTestApp(t, &fakeMutator{})

	var body map[string]any
	assert.Equal(t, 200, decode(t, app, "GET", "/listings/plan", &body))

	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["create_actions"])
	assert.Equal(t, float64(1), summary["trash_actions"])
	assert.Len(t, body["actions"], 4)
}

func TestHandlePlan_NoTarget(t *testing.T) {
	live, store := fixtureSources()
	app := fiber.New()
	NewHandler(NewService(Config{}, live, store, nil, nil, zap.NewNop())).RegisterRoutes(app)

	assert.Equal(t, 400, decode(t, app, "GET", "/listings/plan", nil))
}

func TestHandleSync(t *testing.T) {
	mutator := &fakeMutator{}
	app, _ := setupTestApp(t, mutator)

	var run history.SyncRun
	assert.Equal(t, 200, decode(t, app, "POST", "/listings/sync?purge=false", &run))
	assert.Equal(t, 3, run.Executed)
	assert.Empty(t, mutator.trashed)

	var runs []history.SyncRun
	assert.Equal(t, 200, decode(t, app, "GET", "/listings/runs?limit=5", &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)

	var one history.SyncRun
	assert.Equal(t, 200, decode(t, app, "GET", "/listings/runs/"+run.ID, &one))
	assert.Equal(t, 3, one.Executed)

	var archive RunArchive
	assert.Equal(t, 200, decode(t, app, "GET", "/listings/runs/"+run.ID+"/archive", &archive))
	assert.Equal(t, run.ID, archive.RunID)
}

func TestHandleSync_DryRun(t *testing.T) {
	mutator := &fakeMutator{}
	app, _ := setupTestApp(t, mutator)

	var run history.SyncRun
	assert.Equal(t, 200, decode(t, app, "POST", "/listings/sync?dry_run=true", &run))
	assert.True(t, run.DryRun)
	assert.Empty(t, mutator.created)
}

func TestHandleSync_PartialFailure(t *testing.T) {
	app, _ := setupTestApp(t, &fakeMutator{failOn: map[string]bool{"200": true}})

	var body map[string]any
	assert.Equal(t, 502, decode(t, app, "POST", "/listings/sync", &body))
	assert.Contains(t, body["error"], "record 200")
	run := body["run"].(map[string]any)
	assert.Equal(t, true, run["failed"])
	assert.Equal(t, float64(3), run["executed"])
}

func TestHandleRun_NotFound(t *testing.T) {
	app, _ := setupTestApp(t, &fakeMutator{})

	assert.Equal(t, 404, decode(t, app, "GET", "/listings/runs/missing", nil))
	assert.Equal(t, 404, decode(t, app, "GET", "/listings/runs/missing/archive", nil))
}

func TestHandleArchive_Disabled(t *testing.T) {
	live, store := fixtureSources()
	app := fiber.New()
	NewHandler(NewService(testConfig(), live, store, nil, setupRepo(t), zap.NewNop())).RegisterRoutes(app)

	assert.Equal(t, 503, decode(t, app, "GET", "/listings/runs/any/archive", nil))
}

func TestLoader(t *testing.T) {
	svc, _ := setupService(t, &fakeMutator{})
	f := NewFeature(svc)

	assert.Equal(t, "listings", f.Name())
	assert.True(t, f.IsEnabled())
	assert.False(t, NewFeature(NewService(Config{}, nil, nil, nil, nil, zap.NewNop())).IsEnabled())

	app := fiber.New()
	require.NoError(t, f.Load(app))
	assert.Equal(t, 200, decode(t, app, "GET", "/listings/runs", new([]history.SyncRun)))
}
