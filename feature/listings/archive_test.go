package listings

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"listing-sync/core/reconcile"
	"listing-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestArchiveKey(t *testing.T) {
	started := time.Date(2024, 6, 15, 23, 30, 0, 0, time.FixedZone("KST", 9*3600))
	assert.Equal(t, "runs/2024-06-15/abc.json", ArchiveKey("abc", started))
}

func TestArchiver_Put(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	archiver := NewArchiver(client, "archive", zap.NewNop())

	var uploaded RunArchive
	client.On("PutObject", ctx, "archive", "runs/2024-06-15/run-1.json", mock.Anything, mock.Anything,
		mock.MatchedBy(func(opts minio.PutObjectOptions) bool { return opts.ContentType == "application/json" })).
		Run(func(args mock.Arguments) {
			data, _ := io.ReadAll(args.Get(3).(io.Reader))
			_ = json.Unmarshal(data, &uploaded)
		}).
		Return(minio.UploadInfo{}, nil)

	archive := &RunArchive{
		RunID: "run-1",
		Plan:  &reconcile.ReconcilePlan{Summary: reconcile.PlanSummary{New: 3}},
	}
	require.NoError(t, archiver.Put(ctx, "runs/2024-06-15/run-1.json", archive))
	assert.Equal(t, "run-1", uploaded.RunID)
	assert.Equal(t, 3, uploaded.Plan.Summary.New)
	client.AssertExpectations(t)
}

func TestArchiver_PutError(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("PutObject", ctx, "archive", "k.json", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, assert.AnError)

	err := NewArchiver(client, "archive", zap.NewNop()).Put(ctx, "k.json", &RunArchive{})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestArchiver_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("StatObject", ctx, "archive", "runs/x.json", mock.Anything).Return(minio.ObjectInfo{Key: "runs/x.json"}, nil)
		client.On("GetObject", ctx, "archive", "runs/x.json", mock.Anything).
			Return(io.NopCloser(strings.NewReader(`{"run_id":"x","plan":{"summary":{"trash_actions":2}}}`)), nil)

		archive, err := NewArchiver(client, "archive", zap.NewNop()).Get(ctx, "runs/x.json")
		require.NoError(t, err)
		assert.Equal(t, "x", archive.RunID)
		assert.Equal(t, 2, archive.Plan.Summary.TrashActions)
	})

	t.Run("Missing", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("StatObject", ctx, "archive", "runs/y.json", mock.Anything).
			Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})

		_, err := NewArchiver(client, "archive", zap.NewNop()).Get(ctx, "runs/y.json")
		assert.ErrorIs(t, err, ErrArchiveNotFound)
		client.AssertNotCalled(t, "GetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Corrupt", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("StatObject", ctx, "archive", "runs/z.json", mock.Anything).Return(minio.ObjectInfo{}, nil)
		client.On("GetObject", ctx, "archive", "runs/z.json", mock.Anything).
			Return(io.NopCloser(strings.NewReader(`{"run_id":`)), nil)

		_, err := NewArchiver(client, "archive", zap.NewNop()).Get(ctx, "runs/z.json")
		assert.Error(t, err)
		assert.False(t, errors.Is(err, ErrArchiveNotFound))
	})
}

func TestArchiver_Prune(t *testing.T) {
	ctx := context.Background()
	cutoff := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	listing := make(chan minio.ObjectInfo, 4)
	listing <- minio.ObjectInfo{Key: "runs/2024-05-01/a.json", LastModified: cutoff.AddDate(0, -1, 0)}
	listing <- minio.ObjectInfo{Key: "runs/2024-05-20/b.json", LastModified: cutoff.AddDate(0, 0, -12)}
	listing <- minio.ObjectInfo{Key: "runs/2024-06-10/c.json", LastModified: cutoff.AddDate(0, 0, 9)}
	listing <- minio.ObjectInfo{Key: "runs/readme.txt", LastModified: cutoff.AddDate(-1, 0, 0)}
	close(listing)

	client := new(mocks.Client)
	client.On("ListObjects", ctx, "archive", minio.ListObjectsOptions{Prefix: ArchivePrefix, Recursive: true}).
		Return((<-chan minio.ObjectInfo)(listing))
	client.On("RemoveObjects", ctx, "archive", []string{"runs/2024-05-01/a.json", "runs/2024-05-20/b.json"}, mock.Anything).
		Return(nil)

	removed, err := NewArchiver(client, "archive", zap.NewNop()).Prune(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	client.AssertExpectations(t)
}

func TestArchiver_PrunePartialFailure(t *testing.T) {
	ctx := context.Background()
	cutoff := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	listing := make(chan minio.ObjectInfo, 2)
	listing <- minio.ObjectInfo{Key: "runs/a.json", LastModified: cutoff.Add(-time.Hour)}
	listing <- minio.ObjectInfo{Key: "runs/b.json", LastModified: cutoff.Add(-time.Hour)}
	close(listing)

	failures := make(chan minio.RemoveObjectError, 1)
	failures <- minio.RemoveObjectError{ObjectName: "runs/b.json", Err: assert.AnError}
	close(failures)

	client := new(mocks.Client)
	client.On("ListObjects", ctx, "archive", mock.Anything).Return((<-chan minio.ObjectInfo)(listing))
	client.On("RemoveObjects", ctx, "archive", mock.Anything, mock.Anything).
		Return((<-chan minio.RemoveObjectError)(failures))

	removed, err := NewArchiver(client, "archive", zap.NewNop()).Prune(ctx, cutoff)
	assert.Equal(t, 1, removed)
	assert.ErrorIs(t, err, assert.AnError)
}
