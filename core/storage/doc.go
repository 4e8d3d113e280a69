// Package storage wraps an S3-compatible object store (MinIO or AWS S3) used to
// keep exported reconciliation reports.
//
// The Client interface exposes only the operations the exports need, which keeps
// it easy to replace with the testify mock in core/storage/mocks.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
//		return err
//	}
package storage
