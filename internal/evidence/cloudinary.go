// Package evidence uploads complaint images to durable object storage
// and hands back public URLs.
package evidence

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"civicpulse/backend/internal/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// Store is implemented by anything that can persist image bytes and
// return a public URL.
type Store interface {
	Put(ctx context.Context, data []byte, contentType string) (string, error)
}

// Disabled stands in when no object storage is configured. Uploads fail,
// which the intake pipeline reports as an upload failure; image-less
// submissions are unaffected.
type Disabled struct{}

func (Disabled) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	return "", fmt.Errorf("evidence store not configured")
}

// CloudinaryStore uploads evidence to a Cloudinary folder.
type CloudinaryStore struct {
	client *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStore initializes the client from a cloudinary:// URL.
func NewCloudinaryStore(cloudinaryURL string) (*CloudinaryStore, error) {
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("CLOUDINARY_URL not set in environment")
	}

	client, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	return &CloudinaryStore{client: client, folder: "civicpulse/evidence"}, nil
}

// Put uploads the image and returns its secure URL. The upload carries
// its own timeout so a stalled transfer cannot block intake.
func (s *CloudinaryStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, config.UploadTimeout)
	defer cancel()

	publicID := fmt.Sprintf("evidence_%s_%d", uuid.New().String(), time.Now().Unix())
	overwrite := false

	result, err := s.client.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     publicID,
		ResourceType: "image",
		Overwrite:    &overwrite,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}

	return result.SecureURL, nil
}
