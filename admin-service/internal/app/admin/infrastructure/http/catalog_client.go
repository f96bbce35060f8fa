package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"catalogadmin/admin-service/internal/app/admin/entity"
	"catalogadmin/pkg/metrics"
)

// RemoteError ответ Catalog API с не-2xx статусом
// Message показывается пользователю как есть
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// CatalogClient клиент удаленного Catalog API
// Все методы принимают context, таймаут задается на уровне http.Client
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
	authToken  string // Bearer токен передается как есть, проверкой занимается сервер
}

// NewCatalogClient создает клиент Catalog API
func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogClient {
	return &CatalogClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetAuthToken задает токен для заголовка Authorization
func (c *CatalogClient) SetAuthToken(token string) {
	c.authToken = token
}

// ListProducts GET /product?page=&name=
// Пустое имя в запрос не попадает
func (c *CatalogClient) ListProducts(ctx context.Context, query entity.SearchQuery) (*entity.ProductListResponse, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(query.Normalize().Page))
	if query.Name != "" {
		params.Set("name", query.Name)
	}

	var resp entity.ProductListResponse
	if err := c.do(ctx, "list_products", http.MethodGet, "/product?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProduct GET /product/{id}
func (c *CatalogClient) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	var product entity.Product
	if err := c.do(ctx, "get_product", http.MethodGet, "/product/"+url.PathEscape(id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct POST /product (неидемпотентный)
func (c *CatalogClient) CreateProduct(ctx context.Context, input *entity.ProductInput) (*entity.Product, error) {
	var product entity.Product
	if err := c.do(ctx, "create_product", http.MethodPost, "/product", input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// EditProduct PUT /product/{id}, запись заменяется целиком
func (c *CatalogClient) EditProduct(ctx context.Context, id string, input *entity.ProductInput) (*entity.Product, error) {
	var product entity.Product
	if err := c.do(ctx, "edit_product", http.MethodPut, "/product/"+url.PathEscape(id), input, &product); err != nil {
		return nil, err
	}
	if product.ID == "" {
		product.ID = id
	}
	return &product, nil
}

// DeleteProduct DELETE /product/{id}, возвращает id удаленного товара
func (c *CatalogClient) DeleteProduct(ctx context.Context, id string) (string, error) {
	return c.deleteByID(ctx, "delete_product", "/product/", id)
}

// ListCategories GET /category
func (c *CatalogClient) ListCategories(ctx context.Context) ([]entity.Category, error) {
	var categories []entity.Category
	if err := c.do(ctx, "list_categories", http.MethodGet, "/category", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory POST /category {name} (неидемпотентный)
func (c *CatalogClient) CreateCategory(ctx context.Context, name string) (*entity.Category, error) {
	var category entity.Category
	body := entity.CreateCategoryRequest{Name: name}
	if err := c.do(ctx, "create_category", http.MethodPost, "/category", body, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory DELETE /category/{id}, возвращает id удаленной категории
func (c *CatalogClient) DeleteCategory(ctx context.Context, id string) (string, error) {
	return c.deleteByID(ctx, "delete_category", "/category/", id)
}

// deleteByID сервер может вернуть id строкой, объектом или пустое тело
// Во всех случаях, кроме строки, возвращается запрошенный id
func (c *CatalogClient) deleteByID(ctx context.Context, operation, prefix, id string) (string, error) {
	var raw json.RawMessage
	if err := c.do(ctx, operation, http.MethodDelete, prefix+url.PathEscape(id), nil, &raw); err != nil {
		return "", err
	}

	var deleted string
	if len(raw) > 0 && json.Unmarshal(raw, &deleted) == nil && deleted != "" {
		return deleted, nil
	}
	return id, nil
}

// do выполняет запрос и декодирует тело ответа в out
func (c *CatalogClient) do(ctx context.Context, operation, method, path string, in, out interface{}) (err error) {
	timer := metrics.NewCatalogTimer(operation)
	defer func() { timer.Done(err) }()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RemoteError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(unwrapData(data), out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// unwrapData снимает конверт {"status": ..., "data": ...}, если он есть
func unwrapData(data []byte) []byte {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return data
	}
	if inner, ok := envelope["data"]; ok && len(inner) > 0 && string(inner) != "null" {
		return inner
	}
	return data
}

// errorMessage достает message или error из тела ошибки
func errorMessage(status int, data []byte) string {
	var body struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		var text string
		if json.Unmarshal(body.Error, &text) == nil && text != "" {
			return text
		}
	}
	return fmt.Sprintf("unexpected status code: %d", status)
}
