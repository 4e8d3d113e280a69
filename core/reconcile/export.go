package reconcile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"dbkit/core/storage"

	"github.com/minio/minio-go/v7"
)

// DefaultReportPrefix is the object prefix used when none is configured.
const DefaultReportPrefix = "reports"

// ExportInfo describes one exported report object.
type ExportInfo struct {
	Object       string    `json:"object"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// ExportName returns the object name for a snapshot:
// <prefix>/<base>__<merge>/<UTC timestamp>.json.
func ExportName(prefix string, snap *Snapshot) string {
	if prefix == "" {
		prefix = DefaultReportPrefix
	}
	built := snap.Built
	if built.IsZero() {
		built = time.Now()
	}
	return path.Join(
		strings.Trim(prefix, "/"),
		snap.BaseTable+"__"+snap.MergeTable,
		built.UTC().Format("20060102T150405.000000000Z")+".json",
	)
}

// ExportReport uploads snap as JSON, creating the bucket if needed, and returns
// the object name.
func ExportReport(ctx context.Context, client storage.Client, bucket, prefix string, snap *Snapshot) (string, error) {
	if err := storage.EnsureBucket(ctx, client, bucket, ""); err != nil {
		return "", err
	}

	body, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	object := ExportName(prefix, snap)
	_, err = client.PutObject(ctx, bucket, object, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report %s: %w", object, err)
	}
	return object, nil
}

// ListExports lists the exported reports under prefix, newest first.
func ListExports(ctx context.Context, client storage.Client, bucket, prefix string) ([]ExportInfo, error) {
	if prefix == "" {
		prefix = DefaultReportPrefix
	}
	prefix = strings.Trim(prefix, "/") + "/"

	exports := make([]ExportInfo, 0)
	for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list reports: %w", obj.Err)
		}
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		exports = append(exports, ExportInfo{Object: obj.Key, Size: obj.Size, LastModified: obj.LastModified})
	}

	sort.SliceStable(exports, func(i, j int) bool {
		if !exports[i].LastModified.Equal(exports[j].LastModified) {
			return exports[i].LastModified.After(exports[j].LastModified)
		}
		return exports[i].Object > exports[j].Object
	})
	return exports, nil
}

// LoadExport downloads and decodes an exported report.
func LoadExport(ctx context.Context, client storage.Client, bucket, object string) (*Snapshot, error) {
	reader, err := client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get report %s: %w", object, err)
	}
	defer reader.Close()

	var snap Snapshot
	if err := json.NewDecoder(reader).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", object, err)
	}
	return &snap, nil
}

// DeleteExport removes an exported report.
func DeleteExport(ctx context.Context, client storage.Client, bucket, object string) error {
	if err := client.RemoveObject(ctx, bucket, object, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete report %s: %w", object, err)
	}
	return nil
}
