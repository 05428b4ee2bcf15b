package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go"
	"github.com/cloudinary/cloudinary-go/api/uploader"
)

// ImageUploader stores product images in an external object store and
// removes them when products are updated or deleted.
type ImageUploader interface {
	Upload(ctx context.Context, file multipart.File, publicIDHint string) (string, error)
	Destroy(ctx context.Context, imageURL string) error
}

// CloudinaryUploader implements ImageUploader backed by Cloudinary.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cloudinaryURL, folder string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryUploader{cld: cld, folder: folder}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, file multipart.File, publicIDHint string) (string, error) {
	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID: publicIDHint,
		Folder:   u.folder,
	})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}

func (u *CloudinaryUploader) Destroy(ctx context.Context, imageURL string) error {
	publicID := ExtractPublicID(imageURL)
	if publicID == "" {
		return nil
	}
	_, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}

var versionPrefix = regexp.MustCompile(`^v\d+/`)

// ExtractPublicID recovers the Cloudinary public id from a delivery URL.
// Returns "" for URLs that are not in the expected format.
func ExtractPublicID(imageURL string) string {
	parts := strings.SplitN(imageURL, "/upload/", 2)
	if len(parts) < 2 || parts[1] == "" {
		return ""
	}
	id := versionPrefix.ReplaceAllString(parts[1], "")
	if dot := strings.LastIndex(id, "."); dot > strings.LastIndex(id, "/") {
		id = id[:dot]
	}
	return id
}
