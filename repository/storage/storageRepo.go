package storagerepo

import (
	"context"
	"io"
)

// Repo is the external object-storage collaborator. Upload streams the file
// bytes and returns the public URL the provider assigned.
type Repo interface {
	Upload(ctx context.Context, filename string, contentType string, body io.Reader) (string, error)
}
