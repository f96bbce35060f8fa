package mocks

import (
	"context"
	"io"

	"catalogadmin/admin-service/internal/app/admin/entity"
	"catalogadmin/admin-service/internal/app/admin/infrastructure"

	"github.com/stretchr/testify/mock"
)

// MockCatalogAPI мок для CatalogAPI
type MockCatalogAPI struct {
	mock.Mock
}

func (m *MockCatalogAPI) ListProducts(ctx context.Context, query entity.SearchQuery) (*entity.ProductListResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ProductListResponse), args.Error(1)
}

func (m *MockCatalogAPI) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockCatalogAPI) CreateProduct(ctx context.Context, input *entity.ProductInput) (*entity.Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockCatalogAPI) EditProduct(ctx context.Context, id string, input *entity.ProductInput) (*entity.Product, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockCatalogAPI) DeleteProduct(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockCatalogAPI) ListCategories(ctx context.Context) ([]entity.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

func (m *MockCatalogAPI) CreateCategory(ctx context.Context, name string) (*entity.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCatalogAPI) DeleteCategory(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

// MockCategoryCache мок для CategoryCache
type MockCategoryCache struct {
	mock.Mock
}

func (m *MockCategoryCache) SetCategories(ctx context.Context, categories []entity.Category) error {
	args := m.Called(ctx, categories)
	return args.Error(0)
}

func (m *MockCategoryCache) GetCategories(ctx context.Context) ([]entity.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

func (m *MockCategoryCache) DeleteCategories(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCategoryCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockNotifier мок для Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n entity.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotifier) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockImageUploader мок для ImageUploader
// Результат передается в callback синхронно
type MockImageUploader struct {
	mock.Mock
}

func (m *MockImageUploader) Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string, done infrastructure.UploadCallback) {
	args := m.Called(ctx, name, r, size, contentType)
	var result *infrastructure.UploadResult
	if args.Get(0) != nil {
		result = args.Get(0).(*infrastructure.UploadResult)
	}
	done(args.Error(1), result)
}

// MockDispatcher мок для Dispatcher диалога
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) CreateProduct(ctx context.Context, input *entity.ProductInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockDispatcher) EditProduct(ctx context.Context, input *entity.ProductInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockDispatcher) CreateCategory(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockDispatcher) DeleteCategory(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDispatcher) ListCategories(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
