package utils

import (
	"fmt"

	"travelagency/config"
	"travelagency/services/storage"

	"github.com/cloudinary/cloudinary-go/v2"
)

// Cloudinary builds the image storage service from configuration.
func Cloudinary() (storage.StorageService, error) {
	cloudName := config.AppConfig.CloudinaryCloudName
	apiKey := config.AppConfig.CloudinaryAPIKey
	apiSecret := config.AppConfig.CloudinaryAPISecret

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("utils.Cloudinary: failed to initialize Cloudinary: %w", err)
	}
	return storage.NewCloudinaryStorage(cld, cloudName, apiSecret, config.AppConfig.PassportEncryptKey), nil
}
