package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// Storage is the blob store the image pipeline uploads into. Delete takes a
// public URL and must be a no-op for URLs outside the managed namespace.
type Storage interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (url string, err error)
	Delete(ctx context.Context, url string) error
	List(ctx context.Context, prefix string) ([]string, error)
	// Owns reports whether a URL belongs to this store's namespace.
	Owns(url string) bool
}

const (
	VariantSmall  = "small"
	VariantMedium = "medium"
	VariantBig    = "big"
)

// VariantKey builds the products/{productId}/{timestamp}_{filename}_{variant}
// key convention.
func VariantKey(productID, filename, variant string, now time.Time) string {
	return fmt.Sprintf("products/%s/%d_%s_%s.jpg", productID, now.UnixMilli(), sanitizeName(filename), variant)
}

// ProductPrefix is the key prefix holding every blob of one product.
func ProductPrefix(productID string) string {
	return fmt.Sprintf("products/%s/", productID)
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
	if name == "" {
		name = "image"
	}
	return name
}
