package media

import "context"

// ObjectStorage is the object-storage collaborator: store bytes under a
// path, get back a public URL. The storefront only ever uploads product and
// banner images through it.
type ObjectStorage interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
}
