package uploads

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MaxImageBytes caps a single uploaded image.
const MaxImageBytes = 10 << 20

var ErrUnsupportedType = errors.New("only image files are allowed")

var imageExt = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// Sniff detects the type from the file header and rewinds the reader.
// The client-declared content type is never trusted.
func Sniff(r io.ReadSeeker) (contentType, ext string, err error) {
	m, err := mimetype.DetectReader(r)
	if err != nil {
		return "", "", fmt.Errorf("read upload: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", "", fmt.Errorf("rewind upload: %w", err)
	}
	ct := m.String()
	ext, ok := imageExt[ct]
	if !ok {
		return ct, "", ErrUnsupportedType
	}
	return ct, ext, nil
}

// NewFilename returns property-<unix-ms>-<uuid>.<ext>.
func NewFilename(now time.Time, ext string) string {
	return fmt.Sprintf("property-%d-%s.%s", now.UnixMilli(), uuid.NewString(), ext)
}
