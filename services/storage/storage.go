package storage

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/asset"
)

// CloudinaryStorage implements StorageService on Cloudinary.
type CloudinaryStorage struct {
	cld           *cloudinary.Cloudinary
	cloudName     string
	apiSecret     string
	encryptionKey string
}

// NewCloudinaryStorage wraps a configured Cloudinary client. Passport scans are
// encrypted with encryptionKey before upload when it is non-empty.
func NewCloudinaryStorage(cld *cloudinary.Cloudinary, cloudName, apiSecret, encryptionKey string) *CloudinaryStorage {
	return &CloudinaryStorage{
		cld:           cld,
		cloudName:     cloudName,
		apiSecret:     apiSecret,
		encryptionKey: encryptionKey,
	}
}

// UploadFile uploads a file into destFolder and returns its public ID.
func (s *CloudinaryStorage) UploadFile(ctx context.Context, localFilePath, destFolder string) (string, error) {
	result, err := s.cld.Upload.Upload(ctx, localFilePath, uploader.UploadParams{Folder: destFolder})
	if err != nil {
		return "", fmt.Errorf("storage: failed to upload file: %w", err)
	}
	if result.PublicID == "" {
		return "", fmt.Errorf("storage: no public ID returned")
	}
	return result.PublicID, nil
}

// UploadDocument routes an upload to its kind's folder.
func (s *CloudinaryStorage) UploadDocument(ctx context.Context, localFilePath, kind string) (string, error) {
	folder, ok := FolderFor(kind)
	if !ok {
		return "", fmt.Errorf("storage: unknown upload kind %q", kind)
	}
	if kind == KindPassport && s.encryptionKey != "" {
		encryptedPath, err := encryptFile(localFilePath, s.encryptionKey)
		if err != nil {
			return "", fmt.Errorf("storage: failed to encrypt passport scan: %w", err)
		}
		defer os.Remove(encryptedPath)
		return s.UploadFile(ctx, encryptedPath, folder)
	}
	return s.UploadFile(ctx, localFilePath, folder)
}

// DeleteFile deletes a file given its public ID.
func (s *CloudinaryStorage) DeleteFile(ctx context.Context, publicID string) error {
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("storage: failed to delete file: %w", err)
	}
	return nil
}

func (s *CloudinaryStorage) getAsset(resourceType, publicID string) (*asset.Asset, error) {
	switch resourceType {
	case "image":
		return s.cld.Image(publicID)
	case "video":
		return s.cld.Video(publicID)
	default:
		return s.cld.Media(publicID)
	}
}

// GetDownloadURL returns the public delivery URL of an asset.
func (s *CloudinaryStorage) GetDownloadURL(ctx context.Context, resourceType, publicID string, expires time.Duration) (string, error) {
	a, err := s.getAsset(resourceType, publicID)
	if err != nil {
		return "", fmt.Errorf("storage: failed to get asset: %w", err)
	}
	url, err := a.String()
	if err != nil {
		return "", fmt.Errorf("storage: failed to build URL: %w", err)
	}
	return url, nil
}

// GetSecureDownloadURL signs a short-lived URL for an authenticated asset.
func (s *CloudinaryStorage) GetSecureDownloadURL(ctx context.Context, resourceType, publicID string, expires time.Duration) (string, error) {
	expiresAt := time.Now().Add(expires).Unix()
	signature := computeSHA1(fmt.Sprintf("expires_at=%d&public_id=%s%s", expiresAt, publicID, s.apiSecret))
	return fmt.Sprintf("https://res.cloudinary.com/%s/%s/authenticated/s--%s--/expires_%d/%s",
		s.cloudName, resourceType, signature, expiresAt, publicID), nil
}

func computeSHA1(input string) string {
	h := sha1.New()
	h.Write([]byte(input))
	return hex.EncodeToString(h.Sum(nil))
}
