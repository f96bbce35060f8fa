package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"catalogadmin/admin-service/internal/app/admin/entity"
	"catalogadmin/admin-service/internal/app/admin/infrastructure"
	remote "catalogadmin/admin-service/internal/app/admin/infrastructure/http"
	"catalogadmin/admin-service/internal/app/admin/store"
	"catalogadmin/admin-service/internal/app/admin/util"
	"catalogadmin/pkg/logger"

	"github.com/rs/zerolog"
)

var (
	// Ошибки, при которых запрос в Catalog API не отправляется
	ErrEmptyCategoryName = errors.New("category name is empty")
	ErrEmptyID           = errors.New("id is empty")
	ErrNilInput          = errors.New("product input is nil")

	ErrProductNotSelected = errors.New("product not selected")
)

// Тексты уведомлений об успешных мутациях товара
const (
	MsgProductCreated = "Success add new Item"
	MsgProductEdited  = "Success edit Item"
	MsgProductDeleted = "Success delete Item"
)

// CatalogService оркестрирует вызовы Catalog API и переходы статусов в CatalogStore
// Каждая операция: Begin -> запрос -> Resolve*/Reject. Повторов нет, ошибка терминальна.
// Уведомления не отправляются отсюда, а возвращаются вызывающему
type CatalogService struct {
	api   infrastructure.CatalogAPI
	store *store.CatalogStore
	cache util.CategoryCache
	log   zerolog.Logger
}

// NewCatalogService создает оркестратор; cache может быть nil
func NewCatalogService(api infrastructure.CatalogAPI, st *store.CatalogStore, cache util.CategoryCache) *CatalogService {
	if cache == nil {
		cache = util.NoopCache{}
	}
	return &CatalogService{
		api:   api,
		store: st,
		cache: cache,
		log:   logger.Component("orchestrator"),
	}
}

// Store возвращает CatalogStore, которым управляет сервис
func (s *CatalogService) Store() *store.CatalogStore {
	return s.store
}

// === PRODUCTS ===

// ListProducts загружает страницу товаров по фильтру
// При ошибке предыдущий список остается в store
func (s *CatalogService) ListProducts(ctx context.Context, query entity.SearchQuery) (*entity.ProductListResponse, error) {
	return s.FetchProducts(ctx, s.BeginListProducts(), query)
}

// BeginListProducts резервирует номер загрузки списка
// Номер берется в порядке отправки запросов, ответ с устаревшим номером отбрасывается
func (s *CatalogService) BeginListProducts() uint64 {
	return s.store.Begin(store.KindListProducts)
}

// FetchProducts выполняет загрузку, начатую BeginListProducts
func (s *CatalogService) FetchProducts(ctx context.Context, seq uint64, query entity.SearchQuery) (*entity.ProductListResponse, error) {
	query = query.Normalize()

	resp, err := s.api.ListProducts(ctx, query)
	if err != nil {
		s.reject(store.KindListProducts, seq, err)
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if !s.store.ResolveProductList(seq, resp.Products, resp.TotalPageNum) {
		s.log.Debug().Int("page", query.Page).Str("name", query.Name).Msg("Stale product list response discarded")
	}
	return resp, nil
}

// GetProductDetail загружает товар и делает его выбранным
func (s *CatalogService) GetProductDetail(ctx context.Context, id string) (*entity.Product, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	seq := s.store.Begin(store.KindProductDetail)

	product, err := s.api.GetProduct(ctx, id)
	if err != nil {
		s.reject(store.KindProductDetail, seq, err)
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	s.store.ResolveProductDetail(seq, product)
	return product, nil
}

// CreateProduct создает товар
// При успехе поднимается флаг success и возвращается уведомление для пользователя
func (s *CatalogService) CreateProduct(ctx context.Context, input *entity.ProductInput) (*entity.Product, []entity.Notification, error) {
	if input == nil {
		return nil, nil, ErrNilInput
	}
	seq := s.store.Begin(store.KindCreateProduct)

	product, err := s.api.CreateProduct(ctx, input)
	if err != nil {
		s.reject(store.KindCreateProduct, seq, err)
		return nil, nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.store.ResolveProductSaved(store.KindCreateProduct, seq, product)
	s.log.Info().Str("product_id", product.ID).Str("sku", input.SKU).Msg("Product created")

	return product, []entity.Notification{entity.NewNotification(MsgProductCreated, entity.NotificationSuccess)}, nil
}

// EditProduct заменяет запись товара целиком
func (s *CatalogService) EditProduct(ctx context.Context, id string, input *entity.ProductInput) (*entity.Product, []entity.Notification, error) {
	if input == nil {
		return nil, nil, ErrNilInput
	}
	if id == "" {
		return nil, nil, ErrEmptyID
	}
	seq := s.store.Begin(store.KindEditProduct)

	product, err := s.api.EditProduct(ctx, id, input)
	if err != nil {
		s.reject(store.KindEditProduct, seq, err)
		return nil, nil, fmt.Errorf("failed to edit product: %w", err)
	}

	s.store.ResolveProductSaved(store.KindEditProduct, seq, product)
	s.log.Info().Str("product_id", id).Msg("Product edited")

	return product, []entity.Notification{entity.NewNotification(MsgProductEdited, entity.NotificationSuccess)}, nil
}

// EditSelectedProduct редактирует товар, выбранный в store
func (s *CatalogService) EditSelectedProduct(ctx context.Context, input *entity.ProductInput) (*entity.Product, []entity.Notification, error) {
	selected := s.store.Snapshot().SelectedProduct
	if selected == nil || selected.ID == "" {
		return nil, nil, ErrProductNotSelected
	}
	return s.EditProduct(ctx, selected.ID, input)
}

// DeleteProduct удаляет товар, возвращает его id
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) (string, []entity.Notification, error) {
	if id == "" {
		return "", nil, ErrEmptyID
	}
	seq := s.store.Begin(store.KindDeleteProduct)

	deletedID, err := s.api.DeleteProduct(ctx, id)
	if err != nil {
		s.reject(store.KindDeleteProduct, seq, err)
		return "", nil, fmt.Errorf("failed to delete product: %w", err)
	}

	s.store.ResolveProductDeleted(seq, deletedID)
	s.log.Info().Str("product_id", deletedID).Msg("Product deleted")

	return deletedID, []entity.Notification{entity.NewNotification(MsgProductDeleted, entity.NotificationSuccess)}, nil
}

// === CATEGORIES ===

// ListCategories загружает категории, сначала пробуя кеш
func (s *CatalogService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	seq := s.store.Begin(store.KindListCategories)

	categories, err := s.cache.GetCategories(ctx)
	if err == nil && len(categories) > 0 {
		s.store.ResolveCategories(seq, categories)
		return categories, nil
	}
	if err != nil {
		// Кеш не критичен, идем в Catalog API
		s.log.Warn().Err(err).Msg("Failed to read categories cache")
	}

	categories, err = s.api.ListCategories(ctx)
	if err != nil {
		s.reject(store.KindListCategories, seq, err)
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	if err := s.cache.SetCategories(ctx, categories); err != nil {
		s.log.Warn().Err(err).Msg("Failed to cache categories")
	}

	s.store.ResolveCategories(seq, categories)
	return categories, nil
}

// CreateCategory создает категорию и инвалидирует кеш
func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*entity.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyCategoryName
	}
	seq := s.store.Begin(store.KindCreateCategory)

	category, err := s.api.CreateCategory(ctx, name)
	if err != nil {
		s.reject(store.KindCreateCategory, seq, err)
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.invalidateCategories(ctx)
	s.store.ResolveCategoryMutation(store.KindCreateCategory, seq)
	return category, nil
}

// DeleteCategory удаляет категорию и инвалидирует кеш
// Товары со ссылкой на имя категории не изменяются
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", ErrEmptyID
	}
	seq := s.store.Begin(store.KindDeleteCategory)

	deletedID, err := s.api.DeleteCategory(ctx, id)
	if err != nil {
		s.reject(store.KindDeleteCategory, seq, err)
		return "", fmt.Errorf("failed to delete category: %w", err)
	}

	s.invalidateCategories(ctx)
	s.store.ResolveCategoryMutation(store.KindDeleteCategory, seq)
	return deletedID, nil
}

func (s *CatalogService) invalidateCategories(ctx context.Context) {
	if err := s.cache.DeleteCategories(ctx); err != nil {
		s.log.Warn().Err(err).Msg("Failed to invalidate categories cache")
	}
}

// reject сохраняет в store одно человекочитаемое сообщение
func (s *CatalogService) reject(kind store.Kind, seq uint64, err error) {
	message := ErrorMessage(err)
	s.store.Reject(kind, seq, message)
	s.log.Warn().Str("kind", string(kind)).Str("error", message).Msg("Catalog request rejected")
}

// ErrorMessage текст ошибки для пользователя: сообщение Catalog API или текст ошибки транспорта
func ErrorMessage(err error) string {
	var remoteErr *remote.RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Message
	}
	return err.Error()
}
