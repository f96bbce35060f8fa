package service

import (
	"context"

	"catalogadmin/admin-service/internal/app/admin/entity"
)

// Orchestrator набор асинхронных операций каталога
// Вызовы блокируют текущую горутину до ответа Catalog API
type Orchestrator interface {
	ListProducts(ctx context.Context, query entity.SearchQuery) (*entity.ProductListResponse, error)
	BeginListProducts() uint64
	FetchProducts(ctx context.Context, seq uint64, query entity.SearchQuery) (*entity.ProductListResponse, error)
	GetProductDetail(ctx context.Context, id string) (*entity.Product, error)
	CreateProduct(ctx context.Context, input *entity.ProductInput) (*entity.Product, []entity.Notification, error)
	EditProduct(ctx context.Context, id string, input *entity.ProductInput) (*entity.Product, []entity.Notification, error)
	EditSelectedProduct(ctx context.Context, input *entity.ProductInput) (*entity.Product, []entity.Notification, error)
	DeleteProduct(ctx context.Context, id string) (string, []entity.Notification, error)
	ListCategories(ctx context.Context) ([]entity.Category, error)
	CreateCategory(ctx context.Context, name string) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id string) (string, error)
}

var _ Orchestrator = (*CatalogService)(nil)
