package storage

import (
	"context"
	"path"
	"strings"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// ProgramArchive stores JSON snapshots of saved programs.
type ProgramArchive interface {
	// PutSnapshot writes body under objectKey, replacing any previous object.
	PutSnapshot(ctx context.Context, objectKey string, body []byte) error

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading a snapshot directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes a snapshot from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

// SnapshotKey names the snapshot of a program taken at a point in time,
// e.g. "programs/6650c0.../20250101T120000Z.json".
func SnapshotKey(prefix, programID string, at time.Time) string {
	name := at.UTC().Format("20060102T150405Z") + ".json"
	return path.Join(strings.TrimSuffix(prefix, "/"), programID, name)
}
