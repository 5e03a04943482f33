package service

import (
	"context"
	"io"
)

// Asset describes a file accepted by the asset store.
type Asset struct {
	URL          string
	PublicID     string
	ResourceType string
	Format       string
	Bytes        int
	OriginalName string
}

// Uploader is the external asset store used for profile photos and resumes.
// Delete needs the resource type reported by Upload; an empty type means image.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder string, publicID string) (*Asset, error)
	Delete(ctx context.Context, publicID string, resourceType string) error
}
