package storage

import (
	"errors"
	"io"
	"time"
)

var ErrNotFound = errors.New("blob not found")

type BlobInfo struct {
	Key     string
	Size    int64
	ModTime time.Time
}

type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	Delete(key string) error
	List(prefix string) ([]BlobInfo, error)
	URL(key string) string // public path the player loads the blob from
	KeyFromURL(u string) (string, bool)
}
