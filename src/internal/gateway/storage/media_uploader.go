package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/viper"

	"negotiation-service/src/pkg/log"
)

// MediaUploader stores message attachments in object storage and returns
// their public URLs.
type MediaUploader struct {
	Client  *minio.Client
	Bucket  string
	BaseURL string
	Log     log.Log
}

func NewMediaUploader(v *viper.Viper, logger log.Log) (*MediaUploader, error) {
	client, err := minio.New(v.GetString("minio.endpoint"), &minio.Options{
		Creds:  credentials.NewStaticV4(v.GetString("minio.access_key"), v.GetString("minio.secret_key"), ""),
		Secure: v.GetBool("minio.use_ssl"),
	})
	if err != nil {
		return nil, err
	}

	return &MediaUploader{
		Client:  client,
		Bucket:  v.GetString("minio.bucket"),
		BaseURL: v.GetString("minio.base_url"),
		Log:     logger,
	}, nil
}

// UploadBase64 decodes one attachment and stores it under a random object
// name derived from the sniffed content type.
func (u *MediaUploader) UploadBase64(ctx context.Context, encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode attachment: %w", err)
	}

	contentType := http.DetectContentType(data)
	objectName := fmt.Sprintf("messages/%s%s", uuid.NewString(), extensionFor(contentType))

	_, err = u.Client.PutObject(ctx, u.Bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		u.Log.Error("storage", fmt.Sprintf("upload failed: %v", err), "UploadBase64", objectName)
		return "", err
	}

	return fmt.Sprintf("%s/%s/%s", u.BaseURL, u.Bucket, objectName), nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	default:
		return ".bin"
	}
}
