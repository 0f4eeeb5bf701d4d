package assets

import (
	"context"
	"io"
)

// AssetKind classifies an uploaded file. Raw assets are the purchasable
// downloads and live under a private prefix; video and image assets are
// public presentation media.
type AssetKind string

const (
	KindVideo AssetKind = "video"
	KindImage AssetKind = "image"
	KindRaw   AssetKind = "raw"
)

// Storage defines the interface for asset storage operations.
type Storage interface {
	// Upload stores a file and returns the result with key and URL.
	Upload(ctx context.Context, input *UploadInput) (*UploadResult, error)

	// Delete removes a file by its key.
	Delete(ctx context.Context, key string) error
}

// UploadInput holds the parameters for uploading an asset.
type UploadInput struct {
	Kind        AssetKind
	Filename    string
	ContentType string
	Size        int64
	Data        io.Reader
}

// UploadResult holds the result of a successful upload.
type UploadResult struct {
	Key string
	URL string
}
