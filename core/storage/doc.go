// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so the run archive can be
// tested against core/storage/mocks. Both AWS S3 and self-hosted MinIO work.
//
// # Operations
//
//   - BucketExists / MakeBucket, combined by EnsureBucket.
//   - PutObject / GetObject / StatObject for archive documents.
//   - ListObjects / RemoveObjects for pruning old archives.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
