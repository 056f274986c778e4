package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ImageBucket holds all listing images.
const ImageBucket = "property-images"

// MaxImageSize is the per-file upload cap (10 MB).
const MaxImageSize = 10 << 20

type StorageService interface {
	UploadImage(ctx context.Context, objectName, contentType string, reader io.Reader, objectSize int64) (string, error)
	PresignedGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	PresignedPutURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	DeleteImage(ctx context.Context, objectName string) error
	EnsureBucket(ctx context.Context) error
	Ping(ctx context.Context) error
}

type minioStorage struct {
	client    *minio.Client
	publicURL string
}

// NewMinioStorage connects to the object store. publicURL is the external
// base under which uploaded objects are reachable.
func NewMinioStorage(endpoint, accessKey, secretKey string, useSSL bool, publicURL string) (StorageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	if publicURL == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, endpoint)
	}
	return &minioStorage{client: client, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// ImageObjectName builds the canonical object key for a listing image.
func ImageObjectName(userID, propertyID uuid.UUID, filename string) string {
	// Keep only the basename so uploaded paths cannot escape the prefix.
	if idx := strings.LastIndexAny(filename, "/\\"); idx >= 0 {
		filename = filename[idx+1:]
	}
	return fmt.Sprintf("properties/%s/%s/%s-%s", userID, propertyID, uuid.NewString(), filename)
}

func (m *minioStorage) UploadImage(ctx context.Context, objectName, contentType string, reader io.Reader, objectSize int64) (string, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	_, err := m.client.PutObject(ctx, ImageBucket, objectName, reader, objectSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", m.publicURL, ImageBucket, objectName), nil
}

func (m *minioStorage) PresignedGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedGetObject(ctx, ImageBucket, objectName, expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (m *minioStorage) PresignedPutURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedPutObject(ctx, ImageBucket, objectName, expiry)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (m *minioStorage) DeleteImage(ctx context.Context, objectName string) error {
	return m.client.RemoveObject(ctx, ImageBucket, objectName, minio.RemoveObjectOptions{})
}

func (m *minioStorage) EnsureBucket(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, ImageBucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, ImageBucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (m *minioStorage) Ping(ctx context.Context) error {
	_, err := m.client.BucketExists(ctx, ImageBucket)
	return err
}
