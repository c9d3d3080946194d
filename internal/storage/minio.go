package storage

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/atelier-studio/atelier-go/internal/config"
	"github.com/google/uuid"
	minioSDK "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var Client *minioSDK.Client
var BucketName string

func InitMinio() {
	BucketName = config.MinioBucket

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
		},
	}

	minioClient, err := minioSDK.New(config.MinioEndpoint, &minioSDK.Options{
		Creds:     credentials.NewStaticV4(config.MinioAccessKey, config.MinioSecretKey, ""),
		Secure:    config.MinioUseSSL,
		Transport: transport,
	})
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}

	ctx := context.Background()
	exists, err := minioClient.BucketExists(ctx, BucketName)
	if err != nil {
		log.Fatalf("Failed to check bucket existence: %v", err)
	}
	if !exists {
		if err := minioClient.MakeBucket(ctx, BucketName, minioSDK.MakeBucketOptions{}); err != nil {
			log.Fatalf("Failed to create bucket: %v", err)
		}
		log.Printf("Bucket created: %s", BucketName)
	}

	Client = minioClient
}

// ObjectKey builds a collision-free object name for an uploaded file,
// keeping the original extension for content-type sniffing downstream.
func ObjectKey(filename string) string {
	return fmt.Sprintf("uploads/%s%s", uuid.NewString(), path.Ext(filename))
}

func UploadObject(ctx context.Context, objectName, contentType string, r io.Reader, size int64) error {
	_, err := Client.PutObject(ctx, BucketName, objectName, r, size, minioSDK.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func DeleteObject(ctx context.Context, objectName string) error {
	return Client.RemoveObject(ctx, BucketName, objectName, minioSDK.RemoveObjectOptions{})
}

// PresignedURL returns a time-limited download URL for an object.
func PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", path.Base(objectName)))
	u, err := Client.PresignedGetObject(ctx, BucketName, objectName, expiry, params)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
