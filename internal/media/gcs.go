package media

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
)

type GCSStorage struct {
	bucket     *storage.BucketHandle
	bucketName string
}

func NewGCSStorage(ctx context.Context, bucketName string) (*GCSStorage, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &GCSStorage{
		bucket:     client.Bucket(bucketName),
		bucketName: bucketName,
	}, nil
}

// Upload writes the object and returns its public URL. The bucket is
// expected to allow public reads; access control is not this service's job.
func (g *GCSStorage) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	w := g.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write object %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object %s: %w", path, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucketName, path), nil
}
