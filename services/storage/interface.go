package storage

import (
	"context"
	"time"
)

// Upload kinds accepted by the storefront and the agency portal.
const (
	KindPaymentProof = "payment_proof"
	KindWalletProof  = "wallet_proof"
	KindPassport     = "passport"
	KindPackageImage = "package_image"
)

// StorageService stores images attached to bookings, wallet requests and packages.
type StorageService interface {
	UploadFile(ctx context.Context, localFilePath, destFolder string) (string, error)
	UploadDocument(ctx context.Context, localFilePath, kind string) (string, error)
	DeleteFile(ctx context.Context, publicID string) error
	GetDownloadURL(ctx context.Context, resourceType, publicID string, expires time.Duration) (string, error)
	GetSecureDownloadURL(ctx context.Context, resourceType, publicID string, expires time.Duration) (string, error)
}

// FolderFor returns the destination folder for an upload kind.
func FolderFor(kind string) (string, bool) {
	switch kind {
	case KindPaymentProof:
		return "travel/payments/proofs", true
	case KindWalletProof:
		return "travel/wallet/proofs", true
	case KindPassport:
		return "travel/private/passports", true
	case KindPackageImage:
		return "travel/packages", true
	default:
		return "", false
	}
}
