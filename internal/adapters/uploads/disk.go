package uploads

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"lion_estate/internal/adapters/observability"
)

// PublicPrefix is where the API serves DiskStore files.
const PublicPrefix = "/uploads/properties"

type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (d *DiskStore) Dir() string { return d.dir }

func (d *DiskStore) Save(ctx context.Context, filename, _ string, body io.ReadSeeker, size int64) (string, error) {
	if filename == "" || filepath.Base(filename) != filename || strings.HasPrefix(filename, ".") {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(d.dir, filename)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", filename, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write %s: %w", filename, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close %s: %w", filename, err)
	}
	observability.ObserveUpload("disk", size)
	return PublicPrefix + "/" + filename, nil
}
