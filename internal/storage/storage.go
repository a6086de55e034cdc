package storage

import "context"

// UploadOptions conveys upload destination metadata.
type UploadOptions struct {
	Bucket    string
	KeyPrefix string
}

// Service uploads receipt images to remote object storage, returning a
// publicly resolvable URL for the stored object.
type Service interface {
	UploadFile(ctx context.Context, localPath string, opts UploadOptions) (string, error)
}
