package listings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"listing-sync/core/reconcile"
	"listing-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ArchivePrefix is the object prefix under which run archives are written.
const ArchivePrefix = "runs/"

// RunArchive is the JSON document written for every sync run.
type RunArchive struct {
	RunID    string                   `json:"run_id"`
	Snapshot *reconcile.Snapshot      `json:"snapshot"`
	Plan     *reconcile.ReconcilePlan `json:"plan"`
}

// Archiver writes run archives to object storage.
type Archiver struct {
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewArchiver creates an archiver for one bucket.
func NewArchiver(client storage.Client, bucket string, logger *zap.Logger) *Archiver {
	return &Archiver{client: client, bucket: bucket, logger: logger}
}

// ArchiveKey returns the object name of a run's archive. Runs are grouped by day.
func ArchiveKey(runID string, startedAt time.Time) string {
	return path.Join(ArchivePrefix, startedAt.UTC().Format("2006-01-02"), runID+".json")
}

// Put uploads the archive and returns its object name.
func (a *Archiver) Put(ctx context.Context, key string, archive *RunArchive) error {
	data, err := json.Marshal(archive)
	if err != nil {
		return fmt.Errorf("failed to encode run archive: %w", err)
	}

	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	a.logger.Debug("Run archive uploaded", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// Get downloads and decodes an archive.
func (a *Archiver) Get(ctx context.Context, key string) (*RunArchive, error) {
	if _, err := a.client.StatObject(ctx, a.bucket, key, minio.StatObjectOptions{}); err != nil {
		if storage.IsNotFound(err) {
			return nil, ErrArchiveNotFound
		}
		return nil, fmt.Errorf("failed to stat %s: %w", key, err)
	}

	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}
	defer obj.Close()

	var archive RunArchive
	if err := json.NewDecoder(obj).Decode(&archive); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return &archive, nil
}

// Prune removes archives last modified before the cutoff and returns how many were removed.
func (a *Archiver) Prune(ctx context.Context, before time.Time) (int, error) {
	var stale []minio.ObjectInfo
	opts := minio.ListObjectsOptions{Prefix: ArchivePrefix, Recursive: true}
	for obj := range a.client.ListObjects(ctx, a.bucket, opts) {
		if obj.Err != nil {
			return 0, fmt.Errorf("failed to list archives: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, ".json") && obj.LastModified.Before(before) {
			stale = append(stale, obj)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(stale))
	for _, obj := range stale {
		objectsCh <- obj
	}
	close(objectsCh)

	var errs []error
	for rErr := range a.client.RemoveObjects(ctx, a.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		errs = append(errs, fmt.Errorf("failed to remove %s: %w", rErr.ObjectName, rErr.Err))
	}

	removed := len(stale) - len(errs)
	a.logger.Info("Pruned run archives", zap.Int("removed", removed), zap.Int("failed", len(errs)), zap.Time("before", before))
	return removed, errors.Join(errs...)
}
