package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local writes blobs under a base directory and serves them from a URL
// prefix. Used in development when no bucket is configured.
type Local struct {
	BaseDir   string
	URLPrefix string
}

func NewLocal(baseDir, urlPrefix string) *Local {
	return &Local{BaseDir: baseDir, URLPrefix: strings.TrimRight(urlPrefix, "/")}
}

func (l *Local) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	_ = ctx
	_ = contentType

	key = cleanKey(key)
	dstPath := filepath.Join(l.BaseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return "", err
	}

	f, err := os.OpenFile(dstPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}

	return l.URLPrefix + "/" + key, nil
}

func (l *Local) Delete(ctx context.Context, url string) error {
	_ = ctx
	if !l.Owns(url) {
		return nil
	}
	key := cleanKey(strings.TrimPrefix(url, l.URLPrefix+"/"))
	return os.Remove(filepath.Join(l.BaseDir, filepath.FromSlash(key)))
}

func (l *Local) List(ctx context.Context, prefix string) ([]string, error) {
	_ = ctx
	root := filepath.Join(l.BaseDir, filepath.FromSlash(cleanKey(prefix)))
	var urls []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(l.BaseDir, path)
		if relErr != nil {
			return relErr
		}
		urls = append(urls, l.URLPrefix+"/"+filepath.ToSlash(rel))
		return nil
	})
	return urls, err
}

func (l *Local) Owns(url string) bool {
	return strings.HasPrefix(url, l.URLPrefix+"/")
}

// cleanKey strips path traversal from caller-supplied keys.
func cleanKey(key string) string {
	key = strings.TrimLeft(key, "/")
	parts := strings.Split(key, "/")
	safe := parts[:0]
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			continue
		}
		safe = append(safe, p)
	}
	return strings.Join(safe, "/")
}

func (l *Local) String() string { return fmt.Sprintf("local(%s)", l.BaseDir) }
