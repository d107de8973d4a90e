package integrity

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"listing-sync/core/storage/mocks"
	"listing-sync/feature/notion"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, fetcher *stubFetcher) (*fiber.App, *mocks.Client, sqlmock.Sqlmock) {
	app := fiber.New()
	mockClient := new(mocks.Client)
	db, sqlMock := setupMockDB(t)
	svc := NewService(mockClient, "test-bucket", db, fetcher, "db-1", zap.NewNop())
	handler := NewHandler(svc)
	handler.RegisterRoutes(app)
	return app, mockClient, sqlMock
}

func TestHandleStructureCheck(t *testing.T) {
	app, mockClient, _ := setupTestApp(t, &stubFetcher{})

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	ch := make(chan minio.ObjectInfo)
	close(ch)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

	req := httptest.NewRequest("GET", "/integrity/structure", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "checked", body["status"])
	assert.NotEmpty(t, body["missing"])
}

func TestHandleStructureCheck_Fix(t *testing.T) {
	app, mockClient, _ := setupTestApp(t, &stubFetcher{})

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	ch := make(chan minio.ObjectInfo)
	close(ch)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))
	mockClient.On("PutObject", mock.Anything, "test-bucket", "runs/", mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/structure?fix=true", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "fixed", body["status"])
}

func TestHandleHistoryCheck(t *testing.T) {
	app, _, sqlMock := setupTestApp(t, &stubFetcher{})

	sqlMock.ExpectQuery("SHOW COLUMNS FROM `sync_runs`").
		WillReturnRows(sqlmock.NewRows([]string{"Field", "Type"}).AddRow("id", "varchar(36)"))

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/history", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, false, body["matched"])
}

func TestHandleNotionCheck(t *testing.T) {
	app, _, _ := setupTestApp(t, &stubFetcher{kinds: notion.SchemaKinds()})

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/notion", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, true, body["matched"])
}

func TestHandleNotionCheck_Error(t *testing.T) {
	app, _, _ := setupTestApp(t, &stubFetcher{err: assert.AnError})

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/notion", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestHandleIntegrityCheck(t *testing.T) {
	app, mockClient, sqlMock := setupTestApp(t, &stubFetcher{err: assert.AnError})

	// Fail every dependency; the combined report still answers 200.
	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, assert.AnError)
	sqlMock.ExpectQuery(".*").WillReturnError(assert.AnError)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity", nil), 2000)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Contains(t, body, "structure")
	assert.Contains(t, body, "history")
	assert.Contains(t, body, "notion")
}
