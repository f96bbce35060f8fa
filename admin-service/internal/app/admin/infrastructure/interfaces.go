package infrastructure

import (
	"context"
	"io"

	"catalogadmin/admin-service/internal/app/admin/entity"
)

// CatalogAPI контракт удаленного Catalog API
type CatalogAPI interface {
	ListProducts(ctx context.Context, query entity.SearchQuery) (*entity.ProductListResponse, error)
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	CreateProduct(ctx context.Context, input *entity.ProductInput) (*entity.Product, error)
	EditProduct(ctx context.Context, id string, input *entity.ProductInput) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id string) (string, error)
	ListCategories(ctx context.Context) ([]entity.Category, error)
	CreateCategory(ctx context.Context, name string) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id string) (string, error)
}

// Notifier получатель уведомлений {message, status}
type Notifier interface {
	Notify(ctx context.Context, n entity.Notification) error
	Close() error
}

// UploadResult результат загрузки изображения
type UploadResult struct {
	URL string `json:"url"`
}

// UploadCallback завершение загрузки в форме (error, result)
type UploadCallback func(err error, result *UploadResult)

// ImageUploader загрузчик изображений, результат отдается через callback
type ImageUploader interface {
	Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string, done UploadCallback)
}
