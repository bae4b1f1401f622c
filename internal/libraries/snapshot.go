package libraries

import (
	"canvas-studio-backend/internal/models"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
)

// BoardSnapshot is the exported form of a board: its objects in render
// order.
type BoardSnapshot struct {
	BoardID    uuid.UUID            `json:"board_id"`
	ExportedAt time.Time            `json:"exported_at"`
	Objects    []models.BoardObject `json:"objects"`
}

// WriteSnapshot encodes a snapshot of objects to w.
func WriteSnapshot(w io.Writer, boardID uuid.UUID, objects []models.BoardObject, now time.Time) error {
	if objects == nil {
		objects = []models.BoardObject{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BoardSnapshot{BoardID: boardID, ExportedAt: now.UTC(), Objects: objects})
}

// SnapshotObjectName is the object key a snapshot is written under.
func SnapshotObjectName(boardID uuid.UUID, now time.Time) string {
	return fmt.Sprintf("snapshots/%s/%s.json", boardID, now.UTC().Format("20060102T150405Z"))
}

// GCSSnapshotExporter uploads board snapshots to a Cloud Storage bucket.
type GCSSnapshotExporter struct {
	clients *Clients
	now     func() time.Time
}

func NewGCSSnapshotExporter(c *Clients) *GCSSnapshotExporter {
	return &GCSSnapshotExporter{clients: c, now: time.Now}
}

func (e *GCSSnapshotExporter) ExportSnapshot(ctx context.Context, boardID uuid.UUID, objects []models.BoardObject) (string, error) {
	now := e.now()
	name := SnapshotObjectName(boardID, now)

	w := e.clients.GCS.Bucket(e.clients.Bucket).Object(name).NewWriter(ctx)
	w.ContentType = "application/json"
	if err := WriteSnapshot(w, boardID, objects, now); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to upload snapshot: %w", err)
	}

	url := fmt.Sprintf("gs://%s/%s", e.clients.Bucket, name)
	log.Printf("📸 Snapshot of board %s written to %s", boardID, url)
	return url, nil
}
