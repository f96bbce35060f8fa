//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"catalogadmin/admin-service/internal/app/admin/entity"
	"catalogadmin/admin-service/internal/app/admin/filter"
	"catalogadmin/admin-service/internal/app/admin/handler"
	remote "catalogadmin/admin-service/internal/app/admin/infrastructure/http"
	"catalogadmin/admin-service/internal/app/admin/infrastructure/messaging"
	"catalogadmin/admin-service/internal/app/admin/session"
	"catalogadmin/admin-service/internal/app/admin/util"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

const pageSize = 2

// fakeCatalog in-memory Catalog API с пагинацией по pageSize
type fakeCatalog struct {
	mu         sync.Mutex
	nextID     int
	products   map[string]entity.Product
	categories map[string]entity.Category
	listCalls  int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		products:   make(map[string]entity.Product),
		categories: make(map[string]entity.Category),
	}
}

func (f *fakeCatalog) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /product", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.listCalls++

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		name := strings.ToLower(r.URL.Query().Get("name"))

		var matched []entity.Product
		for _, p := range f.products {
			if strings.Contains(strings.ToLower(p.Name), name) {
				matched = append(matched, p)
			}
		}
		sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

		total := (len(matched) + pageSize - 1) / pageSize
		if total == 0 {
			total = 1
		}
		start := (page - 1) * pageSize
		end := start + pageSize
		if start > len(matched) {
			start = len(matched)
		}
		if end > len(matched) {
			end = len(matched)
		}
		writeJSON(w, http.StatusOK, entity.ProductListResponse{Products: matched[start:end], TotalPageNum: total})
	})

	mux.HandleFunc("GET /product/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		p, ok := f.products[r.PathValue("id")]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Product not found"})
			return
		}
		writeJSON(w, http.StatusOK, p)
	})

	mux.HandleFunc("POST /product", func(w http.ResponseWriter, r *http.Request) {
		var in entity.ProductInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad body"})
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		for _, p := range f.products {
			if p.SKU == in.SKU {
				writeJSON(w, http.StatusBadRequest, map[string]string{"message": "sku already exists"})
				return
			}
		}
		f.nextID++
		p := productFromInput(fmt.Sprintf("p%02d", f.nextID), in)
		f.products[p.ID] = p
		writeJSON(w, http.StatusCreated, p)
	})

	mux.HandleFunc("PUT /product/{id}", func(w http.ResponseWriter, r *http.Request) {
		var in entity.ProductInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad body"})
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		id := r.PathValue("id")
		if _, ok := f.products[id]; !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Product not found"})
			return
		}
		p := productFromInput(id, in)
		f.products[id] = p
		writeJSON(w, http.StatusOK, p)
	})

	mux.HandleFunc("DELETE /product/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		id := r.PathValue("id")
		delete(f.products, id)
		writeJSON(w, http.StatusOK, id)
	})

	mux.HandleFunc("GET /category", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		out := make([]entity.Category, 0, len(f.categories))
		for _, c := range f.categories {
			out = append(out, c)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		writeJSON(w, http.StatusOK, out)
	})

	mux.HandleFunc("POST /category", func(w http.ResponseWriter, r *http.Request) {
		var in entity.CreateCategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad body"})
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		f.nextID++
		c := entity.Category{ID: fmt.Sprintf("c%02d", f.nextID), Name: in.Name}
		f.categories[c.ID] = c
		writeJSON(w, http.StatusCreated, c)
	})

	mux.HandleFunc("DELETE /category/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		id := r.PathValue("id")
		if _, ok := f.categories[id]; !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Category not found"})
			return
		}
		delete(f.categories, id)
		writeJSON(w, http.StatusOK, id)
	})

	return mux
}

func productFromInput(id string, in entity.ProductInput) entity.Product {
	return entity.Product{
		ID:          id,
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Image:       in.Image,
		Status:      in.Status,
		Category:    in.Category,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// AdminFlowTestSuite прогоняет admin API поверх настоящего клиента Catalog API
// Catalog API подменен httptest сервером, Redis - miniredis
type AdminFlowTestSuite struct {
	suite.Suite
	catalog  *fakeCatalog
	backend  *httptest.Server
	redis    *miniredis.Miniredis
	cache    *util.RedisClient
	location *filter.MemoryLocation
	session  *session.Session
	router   *gin.Engine
}

func (s *AdminFlowTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

// SetupTest поднимает новое окружение перед каждым тестом
func (s *AdminFlowTestSuite) SetupTest() {
	s.catalog = newFakeCatalog()
	s.backend = httptest.NewServer(s.catalog.handler())

	s.redis = miniredis.RunT(s.T())
	s.cache = util.NewRedisClientWithConn(redis.NewClient(&redis.Options{Addr: s.redis.Addr()}), time.Minute)

	s.location = filter.NewMemoryLocation("")
	s.session = session.New(session.Dependencies{
		API:      remote.NewCatalogClient(s.backend.URL, 5*time.Second),
		Cache:    s.cache,
		Notifier: messaging.NewLogNotifier(),
		Location: s.location,
	})
	s.Require().NoError(s.session.Start(context.Background()))
	s.session.Wait()

	s.router = handler.SetupRoutes(handler.NewAdminHandler(s.session), []string{"http://localhost:3000"})
}

func (s *AdminFlowTestSuite) TearDownTest() {
	s.session.Stop()
	s.backend.Close()
	_ = s.cache.Close()
}

func (s *AdminFlowTestSuite) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *AdminFlowTestSuite) state() session.State {
	s.session.Wait()
	rec := s.do(http.MethodGet, "/admin/state", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var st session.State
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &st))
	return st
}

func (s *AdminFlowTestSuite) createCategory(name string) {
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/admin/dialog", entity.OpenDialogRequest{Mode: "new"}).Code)
	s.Require().Equal(http.StatusOK, s.do(http.MethodPut, "/admin/dialog/new-category", entity.NewCategoryNameRequest{Name: name}).Code)
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/admin/dialog/new-category", nil).Code)
	s.Require().Equal(http.StatusOK, s.do(http.MethodDelete, "/admin/dialog", nil).Code)
}

func (s *AdminFlowTestSuite) createProduct(sku, name string) {
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/admin/dialog", entity.OpenDialogRequest{Mode: "new"}).Code)
	for field, value := range map[string]string{
		"sku":         sku,
		"name":        name,
		"description": name + " description",
		"price":       "10",
	} {
		s.Require().Equal(http.StatusOK, s.do(http.MethodPut, "/admin/dialog/fields", entity.SetFieldRequest{Field: field, Value: value}).Code)
	}
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/admin/dialog/stock", nil).Code)
	s.Require().Equal(http.StatusOK, s.do(http.MethodPut, "/admin/dialog/stock/0", entity.StockRowRequest{Size: "m", Quantity: "5"}).Code)
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/admin/dialog/categories/toggle", entity.ToggleCategoryRequest{Name: "Shoes"}).Code)
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/admin/dialog/submit", nil).Code)
}

// ==================== Flow ====================

func (s *AdminFlowTestSuite) TestStart_LoadsFirstPage() {
	st := s.state()

	s.Equal("page=1", st.Location)
	s.Equal(1, s.catalog.listCalls)
	s.Empty(st.Catalog.Products)
	s.False(st.Catalog.Loading)
}

func (s *AdminFlowTestSuite) TestCategoryLifecycle_RefreshesAndCaches() {
	// Act
	s.createCategory("shoes")

	// Assert
	st := s.state()
	s.Require().Len(st.Catalog.Categories, 1)
	s.Equal("shoes", st.Catalog.Categories[0].Name)

	cached, err := s.cache.GetCategories(context.Background())
	s.Require().NoError(err)
	s.Len(cached, 1)

	// Удаление инвалидирует кеш и перечитывает категории
	rec := s.do(http.MethodDelete, "/admin/categories/"+st.Catalog.Categories[0].ID, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Empty(s.state().Catalog.Categories)
}

func (s *AdminFlowTestSuite) TestCreateProduct_EmitsNotificationAndClosesDialog() {
	// Act
	s.createProduct("SKU-1", "Runner")

	// Assert
	st := s.state()
	s.True(st.Catalog.Success)
	s.False(st.Dialog.Visible)

	rec := s.do(http.MethodGet, "/admin/notifications", nil)
	s.Contains(rec.Body.String(), "Success add new Item")

	stored := s.catalog.products["p01"]
	s.Equal(map[string]int{"m": 5}, stored.Stock)
	s.Equal([]string{"shoes"}, stored.Category)
	s.Equal(10.0, stored.Price)
}

func (s *AdminFlowTestSuite) TestCreateProduct_DuplicateSKUKeepsDialogOpen() {
	s.createProduct("SKU-1", "Runner")

	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/admin/dialog", entity.OpenDialogRequest{Mode: "new"}).Code)
	for field, value := range map[string]string{"sku": "SKU-1", "name": "Copy", "description": "d", "price": "3"} {
		s.do(http.MethodPut, "/admin/dialog/fields", entity.SetFieldRequest{Field: field, Value: value})
	}
	s.do(http.MethodPost, "/admin/dialog/stock", nil)
	s.do(http.MethodPut, "/admin/dialog/stock/0", entity.StockRowRequest{Size: "s", Quantity: "1"})
	s.do(http.MethodPost, "/admin/dialog/categories/toggle", entity.ToggleCategoryRequest{Name: "shoes"})

	rec := s.do(http.MethodPost, "/admin/dialog/submit", nil)

	s.Equal(http.StatusBadGateway, rec.Code)
	st := s.state()
	s.True(st.Dialog.Visible)
	s.Equal("sku already exists", st.Catalog.Error)
	s.Nil(st.Dialog.Error)
}

func (s *AdminFlowTestSuite) TestFilterAndPagination() {
	// Arrange
	s.createProduct("SKU-1", "Runner")
	s.createProduct("SKU-2", "Trail Runner")
	s.createProduct("SKU-3", "Cap")

	// Act
	rec := s.do(http.MethodPut, "/admin/filter", entity.SetNameFilterRequest{Name: "runner"})
	s.Require().Equal(http.StatusOK, rec.Code)

	// Assert
	st := s.state()
	s.Equal("page=1&name=runner", st.Location)
	s.Len(st.Catalog.Products, 2)
	s.Equal(1, st.Page.PageCount)

	s.Require().Equal(http.StatusOK, s.do(http.MethodPut, "/admin/filter", entity.SetNameFilterRequest{Name: ""}).Code)
	s.Require().Equal(http.StatusOK, s.do(http.MethodPut, "/admin/filter/page", entity.SetPageRequest{Selected: 1}).Code)

	st = s.state()
	s.Equal("page=2", st.Location)
	s.Equal(2, st.Page.PageCount)
	s.Require().Len(st.Catalog.Products, 1)
	s.Equal("Cap", st.Catalog.Products[0].Name)
}

func (s *AdminFlowTestSuite) TestNavigate_ReseedsFilter() {
	s.createProduct("SKU-1", "Runner")

	rec := s.do(http.MethodPut, "/admin/location", entity.NavigateRequest{Query: "?page=1&name=run"})

	s.Equal(http.StatusOK, rec.Code)
	st := s.state()
	s.Equal("run", st.Filter.Name)
	s.Len(st.Catalog.Products, 1)
}

func (s *AdminFlowTestSuite) TestEditProduct_ReplacesRecord() {
	// Arrange
	s.createProduct("SKU-1", "Runner")
	s.Require().NoError(s.session.Refresh())
	s.session.Wait()

	// Act
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/admin/products/p01/edit", nil).Code)
	s.Require().Equal(http.StatusOK, s.do(http.MethodPut, "/admin/dialog/fields", entity.SetFieldRequest{Field: "price", Value: "25"}).Code)
	rec := s.do(http.MethodPost, "/admin/dialog/submit", nil)

	// Assert
	s.Equal(http.StatusOK, rec.Code)
	st := s.state()
	s.Require().Len(st.Catalog.Products, 1)
	s.Equal(25.0, st.Catalog.Products[0].Price)
	s.Equal(25.0, s.catalog.products["p01"].Price)
	s.Contains(s.do(http.MethodGet, "/admin/notifications", nil).Body.String(), "Success edit Item")
}

func (s *AdminFlowTestSuite) TestOpenEdit_UnknownProduct() {
	rec := s.do(http.MethodPost, "/admin/products/missing/edit", nil)

	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *AdminFlowTestSuite) TestDeleteProduct_RefetchesPage() {
	// Arrange
	s.createProduct("SKU-1", "Runner")
	s.Require().NoError(s.session.Refresh())
	s.session.Wait()
	before := s.catalog.listCalls

	// Act
	rec := s.do(http.MethodDelete, "/admin/products/p01", nil)

	// Assert
	s.Equal(http.StatusOK, rec.Code)
	st := s.state()
	s.Empty(st.Catalog.Products)
	s.Equal(before+1, s.catalog.listCalls)
	s.Contains(s.do(http.MethodGet, "/admin/notifications", nil).Body.String(), "Success delete Item")
}

func TestAdminFlowSuite(t *testing.T) {
	suite.Run(t, new(AdminFlowTestSuite))
}
