package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"catalogadmin/admin-service/internal/app/admin/infrastructure"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectPutter часть minio.Client, нужная загрузчику
type ObjectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinioUploader кладет изображение товара в бакет и отдает публичный URL
type MinioUploader struct {
	client  ObjectPutter
	bucket  string
	baseURL string // scheme://endpoint
}

// NewMinioUploader подключается к MinIO по статическим ключам
func NewMinioUploader(endpoint, accessKey, secretKey, bucket string, secure bool) (*MinioUploader, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	scheme := "http"
	if secure {
		scheme = "https"
	}
	return NewMinioUploaderWithClient(client, bucket, scheme+"://"+endpoint), nil
}

// NewMinioUploaderWithClient используется в тестах
func NewMinioUploaderWithClient(client ObjectPutter, bucket, baseURL string) *MinioUploader {
	return &MinioUploader{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload загружает объект и вызывает done(err, result) ровно один раз
// Имя объекта - uuid с расширением исходного файла
func (u *MinioUploader) Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string, done infrastructure.UploadCallback) {
	objectName := uuid.NewString() + strings.ToLower(path.Ext(name))

	_, err := u.client.PutObject(ctx, u.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		done(fmt.Errorf("failed to upload image: %w", err), nil)
		return
	}

	done(nil, &infrastructure.UploadResult{
		URL: fmt.Sprintf("%s/%s/%s", u.baseURL, u.bucket, objectName),
	})
}
