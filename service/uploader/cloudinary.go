package uploader

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Folder holding every credential image
const Folder = "gatepass/credentials"

// Cloudinary service
type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

// Constuctor for cloudinary service
func NewCld(cloudName, cloudKey, cloudSecret string) (*CloudinaryService, error) {
	if cloudName == "" || cloudKey == "" || cloudSecret == "" {
		return nil, errors.New("missing cloudinary credentials")
	}

	cld, err := cloudinary.NewFromParams(cloudName, cloudKey, cloudSecret)
	if err != nil {
		return nil, err
	}
	cld.Config.URL.Secure = true
	return &CloudinaryService{cld: cld}, nil
}

// Upload a PNG under the given public ID and return its HTTPS URL.
// Uploading the same name twice replaces the previous image, so resending a credential reuses its URL
func (cld *CloudinaryService) Upload(ctx context.Context, name string, png []byte) (string, error) {
	resp, err := cld.cld.Upload.Upload(ctx, bytes.NewReader(png), uploader.UploadParams{
		PublicID:       name,
		Folder:         Folder,
		Overwrite:      api.Bool(true),
		Invalidate:     api.Bool(true),
		UniqueFilename: api.Bool(false),
		ResourceType:   "image",
	})
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	// Cloudinary reports API errors in the body, not as a Go error
	if resp.Error.Message != "" {
		return "", fmt.Errorf("upload failed: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}
