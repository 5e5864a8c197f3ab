package storage

import (
	"errors"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FSStore keeps blobs as files under base and serves them below urlPrefix.
type FSStore struct {
	base      string
	urlPrefix string
	urlPath   string // path part of urlPrefix, e.g. "/uploads"
}

func NewFSStore(base, urlPrefix string) (*FSStore, error) {
	if base == "" {
		base = "./data"
	}
	if urlPrefix == "" {
		urlPrefix = "/uploads"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	urlPrefix = strings.TrimSuffix(urlPrefix, "/")
	return &FSStore{base: base, urlPrefix: urlPrefix, urlPath: urlPath(urlPrefix)}, nil
}

// path resolves key below base; keys that escape base are rejected.
func (s *FSStore) path(key string) (string, error) {
	clean := path.Clean("/" + strings.ReplaceAll(key, "\\", "/"))
	if clean == "/" {
		return "", errors.New("empty key")
	}
	return filepath.Join(s.base, filepath.FromSlash(clean)), nil
}

func (s *FSStore) Put(key string, r io.Reader) (string, error) {
	if key == "" {
		return "", errors.New("empty key")
	}
	dst, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return key, nil
}

func (s *FSStore) Get(key string) (io.ReadCloser, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

func (s *FSStore) Delete(key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// List walks every blob whose key starts with prefix.
func (s *FSStore) List(prefix string) ([]BlobInfo, error) {
	var out []BlobInfo
	err := filepath.WalkDir(s.base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.base, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		out = append(out, BlobInfo{Key: key, Size: info.Size(), ModTime: info.ModTime()})
		return nil
	})
	return out, err
}

func (s *FSStore) URL(key string) string {
	return s.urlPrefix + "/" + strings.TrimPrefix(key, "/")
}

// KeyFromURL is the inverse of URL. Only the path is compared, so URLs
// handed out under an earlier public host still resolve to their key.
func (s *FSStore) KeyFromURL(u string) (string, bool) {
	p := urlPath(u)
	key, ok := strings.CutPrefix(p, s.urlPath+"/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

func urlPath(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return u
	}
	return strings.TrimSuffix(parsed.Path, "/")
}
