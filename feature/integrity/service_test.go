package integrity

import (
	"context"
	"testing"

	"listing-sync/core/storage/mocks"
	"listing-sync/feature/notion"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

type stubFetcher struct {
	kinds map[string]notion.PropertyKind
	err   error
}

func (s *stubFetcher) DatabaseProperties(ctx context.Context, databaseID string) (map[string]notion.PropertyKind, error) {
	return s.kinds, s.err
}

func TestService_Structure(t *testing.T) {
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, "test-bucket", nil, nil, "", zap.NewNop())

	t.Run("CheckStructure", func(t *testing.T) {
		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)

		ch := make(chan minio.ObjectInfo)
		close(ch)
		mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

		missing, err := svc.CheckStructure(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, []string{"runs"}, missing)
	})

	t.Run("FixStructure", func(t *testing.T) {
		mockClient.On("PutObject", mock.Anything, "test-bucket", "runs/", mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)
		err := svc.FixStructure(context.Background(), []string{"runs"})
		assert.NoError(t, err)
	})
}

func TestService_NotConfigured(t *testing.T) {
	svc := NewService(nil, "", nil, nil, "", zap.NewNop())
	ctx := context.Background()

	_, err := svc.CheckStructure(ctx)
	assert.Error(t, err)
	assert.Error(t, svc.FixStructure(ctx, []string{"runs"}))
	_, err = svc.CheckHistory()
	assert.Error(t, err)
	_, err = svc.CheckNotion(ctx)
	assert.Error(t, err)

	report := svc.CheckAll(ctx)
	for _, name := range []string{"structure", "history", "notion"} {
		entry, ok := report[name].(map[string]any)
		require.True(t, ok, name)
		assert.Equal(t, "error", entry["status"], name)
	}
}

func TestService_Notion(t *testing.T) {
	svc := NewService(nil, "", nil, &stubFetcher{kinds: notion.SchemaKinds()}, "db-1", zap.NewNop())

	report, err := svc.CheckNotion(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Matched)
	assert.Equal(t, "db-1", report.DatabaseID)
}
