package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"catalogadmin/admin-service/internal/app/admin/entity"
	"catalogadmin/admin-service/internal/app/admin/filter"
	"catalogadmin/admin-service/internal/app/admin/form"
	"catalogadmin/admin-service/internal/app/admin/infrastructure"
	remote "catalogadmin/admin-service/internal/app/admin/infrastructure/http"
	"catalogadmin/admin-service/internal/app/admin/service"
	"catalogadmin/admin-service/internal/app/admin/store"
	"catalogadmin/admin-service/internal/app/admin/util"
	"catalogadmin/pkg/logger"

	"github.com/rs/zerolog"
)

// recentLimit сколько последних уведомлений хранит сессия
const recentLimit = 50

var (
	ErrProductNotFound = errors.New("product not found")
	ErrUploadsDisabled = errors.New("image uploads are not configured")
)

// Dependencies внешние зависимости сессии
// Cache, Notifier и Uploader необязательны
type Dependencies struct {
	API      infrastructure.CatalogAPI
	Cache    util.CategoryCache
	Notifier infrastructure.Notifier
	Uploader infrastructure.ImageUploader
	Location filter.Location
}

// State снимок всей страницы администратора
type State struct {
	Catalog  store.State        `json:"catalog"`
	Filter   entity.SearchQuery `json:"filter"`
	Page     filter.PageView    `json:"page"`
	Location string             `json:"location"`
	Dialog   form.View          `json:"dialog"`
}

// Session одна страница администратора: store, оркестратор, фильтр и диалог
type Session struct {
	store    *store.CatalogStore
	service  *service.CatalogService
	filter   *filter.Synchronizer
	form     *form.Controller
	location filter.Location
	notifier infrastructure.Notifier
	uploader infrastructure.ImageUploader
	log      zerolog.Logger

	mu     sync.Mutex
	ctx    context.Context
	recent []entity.Notification
	unhook func()
}

// New собирает сессию; до Start список товаров не загружается
func New(deps Dependencies) *Session {
	st := store.New()
	svc := service.NewCatalogService(deps.API, st, deps.Cache)

	location := deps.Location
	if location == nil {
		location = filter.NewMemoryLocation("")
	}

	s := &Session{
		store:    st,
		service:  svc,
		filter:   filter.NewSynchronizer(location, svc, st),
		location: location,
		notifier: deps.Notifier,
		uploader: deps.Uploader,
		log:      logger.Component("session"),
		ctx:      context.Background(),
	}
	s.form = form.NewController(st, &formDispatcher{s: s})
	s.unhook = st.OnSettle(s.onSettle)
	return s
}

// Start монтирует синхронизатор фильтра, что запускает первую загрузку списка
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	if err := s.filter.Mount(ctx); err != nil {
		return fmt.Errorf("failed to mount filter: %w", err)
	}
	s.log.Info().Str("location", s.location.Query()).Msg("Admin session started")
	return nil
}

// Stop отписывает все наблюдатели и ждет завершения загрузок
func (s *Session) Stop() {
	s.filter.Unmount()
	s.form.Detach()
	if s.unhook != nil {
		s.unhook()
	}
	s.log.Info().Msg("Admin session stopped")
}

func (s *Session) Store() *store.CatalogStore {
	return s.store
}

func (s *Session) Form() *form.Controller {
	return s.form
}

func (s *Session) Filter() *filter.Synchronizer {
	return s.filter
}

// State собирает снимок для слоя отображения
func (s *Session) State() State {
	return State{
		Catalog:  s.store.Snapshot(),
		Filter:   s.filter.Query(),
		Page:     s.filter.PageView(),
		Location: s.location.Query(),
		Dialog:   s.form.View(),
	}
}

// SetNameFilter поле поиска
func (s *Session) SetNameFilter(name string) error {
	return s.filter.SetName(name)
}

// SetPage пагинатор, номер с нуля
func (s *Session) SetPage(selected int) error {
	return s.filter.SetPage(selected)
}

// Navigate внешняя навигация (назад/вперед): фильтр засевается заново
func (s *Session) Navigate(query string) {
	s.location.Replace(query)
}

// Refresh перезагружает текущую страницу
func (s *Session) Refresh() error {
	return s.filter.Refresh()
}

// Wait ждет фоновые загрузки списка
func (s *Session) Wait() {
	s.filter.Wait()
}

// OpenEdit выбирает товар и открывает диалог редактирования
// Товар берется из текущей страницы, иначе загружается из Catalog API
func (s *Session) OpenEdit(ctx context.Context, productID string) error {
	if productID == "" {
		return ErrProductNotFound
	}

	var selected *entity.Product
	for _, p := range s.store.Snapshot().Products {
		if p.ID == productID {
			selected = &p
			break
		}
	}

	if selected != nil {
		s.store.SelectProduct(selected)
	} else if _, err := s.service.GetProductDetail(ctx, productID); err != nil {
		var remoteErr *remote.RemoteError
		if errors.As(err, &remoteErr) && remoteErr.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
		}
		return err
	}

	return s.form.Open(ctx, form.ModeEdit)
}

// DeleteProduct удаляет товар и перезагружает текущую страницу
func (s *Session) DeleteProduct(ctx context.Context, productID string) error {
	_, notifications, err := s.service.DeleteProduct(ctx, productID)
	if err != nil {
		return err
	}
	s.emit(ctx, notifications)

	if err := s.filter.Refresh(); err != nil && !errors.Is(err, filter.ErrNotMounted) {
		return fmt.Errorf("failed to refresh product list: %w", err)
	}
	return nil
}

// UploadImage загружает изображение, результат попадает в диалог через callback
func (s *Session) UploadImage(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	if s.uploader == nil {
		return ErrUploadsDisabled
	}
	s.uploader.Upload(ctx, name, r, size, contentType, s.form.UploadComplete)
	return nil
}

// Notifications последние уведомления, старые первыми
func (s *Session) Notifications() []entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Notification(nil), s.recent...)
}

// emit пересылает уведомления получателю и сохраняет их в кольце последних
func (s *Session) emit(ctx context.Context, notifications []entity.Notification) {
	for _, n := range notifications {
		s.mu.Lock()
		s.recent = append(s.recent, n)
		if len(s.recent) > recentLimit {
			s.recent = s.recent[len(s.recent)-recentLimit:]
		}
		s.mu.Unlock()

		if s.notifier == nil {
			continue
		}
		if err := s.notifier.Notify(ctx, n); err != nil {
			s.log.Warn().Err(err).Str("message", n.Message).Msg("Failed to emit notification")
		}
	}
}

// onSettle обновляет список категорий, когда мутация категории завершилась
func (s *Session) onSettle(kind store.Kind, status entity.RequestStatus) {
	if kind != store.KindCreateCategory && kind != store.KindDeleteCategory {
		return
	}

	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	if _, err := s.service.ListCategories(ctx); err != nil {
		s.log.Warn().Err(err).Str("after", string(kind)).Msg("Failed to refresh categories")
	}
	s.log.Debug().Str("kind", string(kind)).Str("phase", string(status.Phase)).Msg("Category mutation settled")
}

// formDispatcher связывает диалог с оркестратором и получателем уведомлений
type formDispatcher struct {
	s *Session
}

func (d *formDispatcher) CreateProduct(ctx context.Context, input *entity.ProductInput) error {
	_, notifications, err := d.s.service.CreateProduct(ctx, input)
	d.s.emit(ctx, notifications)
	return err
}

func (d *formDispatcher) EditProduct(ctx context.Context, input *entity.ProductInput) error {
	_, notifications, err := d.s.service.EditSelectedProduct(ctx, input)
	d.s.emit(ctx, notifications)
	return err
}

func (d *formDispatcher) CreateCategory(ctx context.Context, name string) error {
	_, err := d.s.service.CreateCategory(ctx, name)
	return err
}

func (d *formDispatcher) DeleteCategory(ctx context.Context, id string) error {
	_, err := d.s.service.DeleteCategory(ctx, id)
	return err
}

func (d *formDispatcher) ListCategories(ctx context.Context) error {
	_, err := d.s.service.ListCategories(ctx)
	return err
}
