package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const ImagePrefix = "images/"

var (
	ErrNotImage = errors.New("upload is not an image")
	ErrTooLarge = errors.New("upload too large")
)

type Upload struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	MIME string `json:"mime"`
	Size int64  `json:"size"`
}

// SaveImage sniffs r, refuses anything that is not an image or exceeds
// maxBytes, and stores it under a fresh random key.
func SaveImage(bs BlobStore, r io.Reader, maxBytes int64) (Upload, error) {
	buf, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return Upload{}, err
	}
	if int64(len(buf)) > maxBytes {
		return Upload{}, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, maxBytes)
	}
	mt := mimetype.Detect(buf)
	if !strings.HasPrefix(mt.String(), "image/") {
		return Upload{}, fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}

	key := ImagePrefix + uuid.NewString() + mt.Extension()
	if _, err := bs.Put(key, bytes.NewReader(buf)); err != nil {
		return Upload{}, err
	}
	return Upload{Key: key, URL: bs.URL(key), MIME: mt.String(), Size: int64(len(buf))}, nil
}

// ContentType guesses the type of a stored blob from its first bytes.
func ContentType(head []byte) string {
	return mimetype.Detect(head).String()
}
