package storage

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// ReferenceLister returns every blob URL that is still in use.
type ReferenceLister interface {
	ImageURLs(ctx context.Context) ([]string, error)
}

// Sweeper removes uploaded images no question points at any more. Images
// younger than Grace are kept so an editor can upload before saving.
type Sweeper struct {
	Blobs BlobStore
	Refs  ReferenceLister
	Grace time.Duration
	Now   func() time.Time
}

func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	urls, err := s.Refs.ImageURLs(ctx)
	if err != nil {
		return 0, err
	}
	inUse := make(map[string]bool, len(urls))
	for _, u := range urls {
		if k, ok := s.Blobs.KeyFromURL(u); ok {
			inUse[k] = true
		}
	}

	blobs, err := s.Blobs.List(ImagePrefix)
	if err != nil {
		return 0, err
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	cutoff := now().Add(-s.Grace)

	removed := 0
	for _, b := range blobs {
		if inUse[b.Key] || b.ModTime.After(cutoff) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if err := s.Blobs.Delete(b.Key); err != nil {
			log.Printf("[UPLOAD-SWEEP] delete %s: %v", b.Key, err)
			continue
		}
		removed++
	}
	return removed, nil
}

// Schedule registers the sweep on a cron spec and starts the scheduler.
// Stop the returned cron on shutdown.
func (s *Sweeper) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		n, err := s.Sweep(ctx)
		if err != nil {
			log.Printf("[UPLOAD-SWEEP] failed: %v", err)
			return
		}
		log.Printf("[UPLOAD-SWEEP] removed %d orphaned images", n)
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
