// Package receipts stores the receipt images attached to bills.
//
// Two backends are provided: S3 (any S3-compatible object store, MinIO in
// development) and Local (a directory served by the web application).
package receipts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ErrUnsupportedFile is returned for receipts that are not JPEG or PNG images.
var ErrUnsupportedFile = errors.New("receipt must be a .jpg, .jpeg or .png file")

// allowedExtensions are matched case-insensitively against the file name.
var allowedExtensions = []string{".jpg", ".jpeg", ".png"}

// Storage persists receipt files and resolves the URL they can be fetched from.
type Storage interface {
	// Put stores body under key.
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error

	// URL returns a URL the browser can load the receipt from.
	URL(ctx context.Context, key string) (string, error)

	// Delete removes the receipt stored under key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}

// Accepted reports whether fileName carries one of the accepted image extensions.
func Accepted(fileName string) bool {
	lower := strings.ToLower(fileName)
	for _, ext := range allowedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// NewKey returns a fresh storage key for fileName, partitioned by upload day.
func NewKey(fileName string) string {
	d := time.Now()
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("receipts/%d/%d/%d/%v%s", d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}

// DetectContentType sniffs the MIME type of content. The declared type is
// returned when sniffing is inconclusive.
func DetectContentType(content []byte, declared string) string {
	mt := mimetype.Detect(content)
	if mt.Is("application/octet-stream") && declared != "" {
		return declared
	}
	return mt.String()
}
