package filter

import (
	"context"
	"errors"
	"sync"

	"catalogadmin/admin-service/internal/app/admin/entity"
	"catalogadmin/admin-service/internal/app/admin/store"
	"catalogadmin/pkg/logger"

	"github.com/rs/zerolog"
)

var (
	ErrNotMounted     = errors.New("synchronizer is not mounted")
	ErrAlreadyMounted = errors.New("synchronizer is already mounted")
	ErrInvalidPage    = errors.New("selected page must not be negative")
)

// ProductLister загрузка страницы товаров (реализуется оркестратором)
// BeginListProducts вызывается синхронно в порядке изменений фильтра, FetchProducts в фоне
type ProductLister interface {
	BeginListProducts() uint64
	FetchProducts(ctx context.Context, seq uint64, query entity.SearchQuery) (*entity.ProductListResponse, error)
}

// StateReader источник числа страниц
type StateReader interface {
	Snapshot() store.State
}

// PageView состояние пагинатора: выбранная страница с нуля и число страниц
type PageView struct {
	Selected  int `json:"selected"`
	PageCount int `json:"page_count"`
}

// Synchronizer связывает SearchQuery со строкой запроса Location
// Фильтр -> Location при каждом изменении, каждое изменение Location -> ListProducts
type Synchronizer struct {
	location Location
	lister   ProductLister
	state    StateReader
	log      zerolog.Logger

	// dispatchMu упорядочивает запись фильтра и резервирование номера загрузки
	dispatchMu sync.Mutex

	mu          sync.Mutex
	query       entity.SearchQuery
	ctx         context.Context
	unsubscribe func()

	inflight sync.WaitGroup
}

// NewSynchronizer создает синхронизатор, до Mount фильтр равен значению по умолчанию
func NewSynchronizer(location Location, lister ProductLister, state StateReader) *Synchronizer {
	return &Synchronizer{
		location: location,
		lister:   lister,
		state:    state,
		query:    entity.DefaultSearchQuery(),
		log:      logger.Component("filter"),
	}
}

// Mount засевает фильтр из Location, подписывается на изменения и записывает
// нормализованный фильтр обратно. Запись вызывает ровно одну загрузку списка
func (s *Synchronizer) Mount(ctx context.Context) error {
	s.mu.Lock()
	if s.unsubscribe != nil {
		s.mu.Unlock()
		return ErrAlreadyMounted
	}
	s.ctx = ctx
	s.query = ParseQuery(s.location.Query())
	query := s.query
	s.unsubscribe = s.location.Subscribe(s.onLocationChange)
	s.mu.Unlock()

	s.log.Debug().Int("page", query.Page).Str("name", query.Name).Msg("Filter mounted")
	s.location.Replace(EncodeQuery(query))
	return nil
}

// Unmount отписывается от Location и ждет завершения загрузок
func (s *Synchronizer) Unmount() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	s.inflight.Wait()
}

// Query текущий фильтр
func (s *Synchronizer) Query() entity.SearchQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// SetName меняет подстроку имени; страница сохраняется
func (s *Synchronizer) SetName(name string) error {
	return s.update(func(q *entity.SearchQuery) {
		q.Name = name
	})
}

// SetPage принимает номер страницы пагинатора с нуля и хранит его с единицы
func (s *Synchronizer) SetPage(selected int) error {
	if selected < 0 {
		return ErrInvalidPage
	}
	return s.update(func(q *entity.SearchQuery) {
		q.Page = selected + 1
	})
}

// SelectedPage номер страницы для пагинатора (page-1)
func (s *Synchronizer) SelectedPage() int {
	return s.Query().Page - 1
}

// PageView состояние пагинатора, число страниц берется из store
func (s *Synchronizer) PageView() PageView {
	pageCount := 1
	if s.state != nil {
		pageCount = s.state.Snapshot().TotalPageNum
	}
	return PageView{Selected: s.SelectedPage(), PageCount: pageCount}
}

// Refresh повторяет загрузку с текущим фильтром без изменения Location
func (s *Synchronizer) Refresh() error {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	if s.unsubscribe == nil {
		s.mu.Unlock()
		return ErrNotMounted
	}
	query := s.query
	s.mu.Unlock()

	s.dispatch(query)
	return nil
}

// Wait ждет завершения всех начатых загрузок
func (s *Synchronizer) Wait() {
	s.inflight.Wait()
}

func (s *Synchronizer) update(apply func(q *entity.SearchQuery)) error {
	s.mu.Lock()
	if s.unsubscribe == nil {
		s.mu.Unlock()
		return ErrNotMounted
	}
	apply(&s.query)
	s.query = s.query.Normalize()
	query := s.query
	s.mu.Unlock()

	s.location.Replace(EncodeQuery(query))
	return nil
}

// onLocationChange вызывается на каждую замену Location, включая внешнюю навигацию
func (s *Synchronizer) onLocationChange(raw string) {
	query := ParseQuery(raw)

	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	s.query = query
	s.mu.Unlock()

	s.dispatch(query)
}

// dispatch резервирует номер загрузки до запуска горутины, вызывается под dispatchMu
// Последний примененный фильтр всегда получает наибольший номер
func (s *Synchronizer) dispatch(query entity.SearchQuery) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	seq := s.lister.BeginListProducts()

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		if _, err := s.lister.FetchProducts(ctx, seq, query); err != nil {
			s.log.Warn().Err(err).Int("page", query.Page).Str("name", query.Name).Msg("Product list fetch failed")
		}
	}()
}
