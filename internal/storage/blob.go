package storage

import (
	"errors"
	"io"
	"path"

	"github.com/google/uuid"
)

var ErrInvalidKey = errors.New("invalid blob key")

// BlobStore keeps raw anchor documents exactly as they were uploaded.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	List(prefix string) ([]string, error)
}

// DocumentKey names a fresh archive slot for a pair's uploaded document.
func DocumentKey(origin, dest string) string {
	return path.Join("anchors", origin+"-"+dest, uuid.NewString()+".json")
}
