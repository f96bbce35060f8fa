package form

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"catalogadmin/admin-service/internal/app/admin/entity"
	"catalogadmin/admin-service/internal/app/admin/infrastructure"
	"catalogadmin/admin-service/internal/app/admin/service"
	"catalogadmin/admin-service/internal/app/admin/store"
	"catalogadmin/pkg/logger"
	"catalogadmin/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Mode режим диалога
type Mode string

const (
	ModeNew  Mode = "new"
	ModeEdit Mode = "edit"
)

// Поля, которые можно менять через SetField
const (
	FieldSKU         = "sku"
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldStatus      = "status"
)

// Dispatcher асинхронные операции, которые запускает диалог
// Реализуется сессией: она же пересылает уведомления
type Dispatcher interface {
	CreateProduct(ctx context.Context, input *entity.ProductInput) error
	EditProduct(ctx context.Context, input *entity.ProductInput) error
	CreateCategory(ctx context.Context, name string) error
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) error
}

// StoreView часть CatalogStore, которую читает диалог
type StoreView interface {
	Snapshot() store.State
	Subscribe(fn store.Listener) func()
	ClearError()
}

// VisibilityListener вызывается при открытии (true) и закрытии (false) диалога
type VisibilityListener func(visible bool)

// View снимок состояния диалога
type View struct {
	Visible         bool             `json:"visible"`
	Mode            Mode             `json:"mode"`
	Draft           Draft            `json:"draft"`
	Error           *ValidationError `json:"error,omitempty"`
	NewCategoryName string           `json:"new_category_name"`
	UploadError     string           `json:"upload_error,omitempty"`
	Submitting      bool             `json:"submitting"`
}

type visibilityEntry struct {
	id int
	fn VisibilityListener
}

// Controller диалог создания/редактирования товара
// Владеет только черновиком; store меняется исключительно через Dispatcher
type Controller struct {
	store      StoreView
	dispatcher Dispatcher
	validate   *validator.Validate
	log        zerolog.Logger

	mu          sync.Mutex
	visible     bool
	mode        Mode
	draft       Draft
	err         *ValidationError
	newCategory string
	uploadErr   string
	submitting  bool
	lastSuccess bool

	nextID      int
	listeners   []visibilityEntry
	unsubscribe func()
}

// NewController создает закрытый диалог и подписывает его на store
func NewController(st StoreView, dispatcher Dispatcher) *Controller {
	c := &Controller{
		store:      st,
		dispatcher: dispatcher,
		validate:   newValidator(),
		log:        logger.Component("form"),
		mode:       ModeNew,
		draft:      NewDraft(),
	}
	c.lastSuccess = st.Snapshot().Success
	c.unsubscribe = st.Subscribe(c.onStoreChange)
	return c
}

// Detach отписывает диалог от store
func (c *Controller) Detach() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

// OnVisibilityChange регистрирует наблюдателя видимости, возвращает функцию отписки
func (c *Controller) OnVisibilityChange(fn VisibilityListener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, visibilityEntry{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// View возвращает копию состояния диалога
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	var verr *ValidationError
	if c.err != nil {
		cp := *c.err
		verr = &cp
	}
	return View{
		Visible:         c.visible,
		Mode:            c.mode,
		Draft:           c.draft.Clone(),
		Error:           verr,
		NewCategoryName: c.newCategory,
		UploadError:     c.uploadErr,
		Submitting:      c.submitting,
	}
}

// Open открывает диалог в режиме mode
// Черновик заново засевается шаблоном режима, ошибки store очищаются, категории обновляются
func (c *Controller) Open(ctx context.Context, mode Mode) error {
	var draft Draft
	switch mode {
	case ModeNew:
		draft = NewDraft()
	case ModeEdit:
		selected := c.store.Snapshot().SelectedProduct
		if selected == nil {
			return service.ErrProductNotSelected
		}
		draft = DraftFromProduct(selected)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	c.store.ClearError()

	c.mu.Lock()
	c.mode = mode
	c.draft = draft
	c.err = nil
	c.newCategory = ""
	c.uploadErr = ""
	c.visible = true
	listeners := c.listenersLocked()
	c.mu.Unlock()

	notifyVisibility(listeners, true)

	if err := c.dispatcher.ListCategories(ctx); err != nil {
		c.log.Warn().Err(err).Msg("Failed to refresh categories on open")
	}
	return nil
}

// Close закрывает диалог и сбрасывает черновик
func (c *Controller) Close() {
	c.mu.Lock()
	wasVisible := c.visible
	c.resetLocked()
	listeners := c.listenersLocked()
	c.mu.Unlock()

	if wasVisible {
		notifyVisibility(listeners, false)
	}
}

// SetField меняет текстовое поле черновика
func (c *Controller) SetField(field, value string) error {
	return c.edit(func(d *Draft) error {
		switch field {
		case FieldSKU:
			d.SKU = value
		case FieldName:
			d.Name = value
		case FieldDescription:
			d.Description = value
		case FieldPrice:
			d.Price = value
		case FieldStatus:
			d.Status = value
		default:
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
		return nil
	})
}

// AddStockRow добавляет пустую строку остатков
func (c *Controller) AddStockRow() error {
	return c.edit(func(d *Draft) error {
		d.Stock = append(d.Stock, StockRow{})
		return nil
	})
}

// SetStockRow меняет строку index
func (c *Controller) SetStockRow(index int, row StockRow) error {
	return c.edit(func(d *Draft) error {
		if index < 0 || index >= len(d.Stock) {
			return ErrRowOutOfRange
		}
		d.Stock[index] = row
		return nil
	})
}

// RemoveStockRow удаляет строку index
func (c *Controller) RemoveStockRow(index int) error {
	return c.edit(func(d *Draft) error {
		if index < 0 || index >= len(d.Stock) {
			return ErrRowOutOfRange
		}
		d.Stock = append(d.Stock[:index], d.Stock[index+1:]...)
		return nil
	})
}

// SizeOptions варианты селектора размера строки index
func (c *Controller) SizeOptions(index int) []SizeOption {
	c.mu.Lock()
	defer c.mu.Unlock()
	return SizeOptions(c.draft.Stock, index)
}

// ToggleCategory переключает категорию (по имени в нижнем регистре)
// Возвращает true, если категория теперь выбрана
func (c *Controller) ToggleCategory(name string) (bool, error) {
	var selected bool
	err := c.edit(func(d *Draft) error {
		selected = d.Category.Toggle(strings.ToLower(strings.TrimSpace(name)))
		return nil
	})
	return selected, err
}

// SetImage сохраняет URL изображения как есть
func (c *Controller) SetImage(url string) error {
	return c.edit(func(d *Draft) error {
		d.Image = url
		c.uploadErr = ""
		return nil
	})
}

// UploadComplete callback загрузчика изображений
func (c *Controller) UploadComplete(err error, result *infrastructure.UploadResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.uploadErr = err.Error()
		c.log.Warn().Err(err).Msg("Image upload failed")
		return
	}
	if result != nil {
		c.draft.Image = result.URL
		c.uploadErr = ""
	}
}

// SetNewCategoryName меняет поле ввода новой категории
func (c *Controller) SetNewCategoryName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.newCategory = name
}

// SubmitNewCategory создает категорию из поля ввода и очищает его
// Список категорий обновляется по завершении мутации
func (c *Controller) SubmitNewCategory(ctx context.Context) error {
	c.mu.Lock()
	name := strings.TrimSpace(c.newCategory)
	if name == "" {
		c.mu.Unlock()
		return ErrMissingCategoryName
	}
	c.newCategory = ""
	c.mu.Unlock()

	if err := c.dispatcher.CreateCategory(ctx, name); err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// DeleteCategory удаляет категорию; товары с этим тегом не меняются
func (c *Controller) DeleteCategory(ctx context.Context, id string) error {
	if err := c.dispatcher.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// Submit проверяет черновик и запускает create или edit в зависимости от режима
// Диалог закрывается наблюдателем store, когда флаг success поднимется
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if !c.visible {
		c.mu.Unlock()
		return ErrDialogClosed
	}
	if c.submitting {
		c.mu.Unlock()
		return ErrSubmitInProgress
	}

	c.err = nil
	input, err := c.draft.Build(c.validate)
	if err != nil {
		if verr, ok := err.(*ValidationError); ok {
			c.err = verr
			metrics.FormValidationFailures.WithLabelValues(verr.Field).Inc()
		}
		c.mu.Unlock()
		return err
	}
	mode := c.mode
	c.submitting = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	// Блокировка снята: store вызывает onStoreChange синхронно во время запроса
	if mode == ModeEdit {
		err = c.dispatcher.EditProduct(ctx, input)
	} else {
		err = c.dispatcher.CreateProduct(ctx, input)
	}
	if err != nil {
		return fmt.Errorf("failed to submit product: %w", err)
	}
	return nil
}

// onStoreChange закрывает видимый диалог ровно один раз на подъем success false -> true
func (c *Controller) onStoreChange(state store.State) {
	c.mu.Lock()
	rising := state.Success && !c.lastSuccess
	c.lastSuccess = state.Success
	if !rising || !c.visible {
		c.mu.Unlock()
		return
	}
	c.resetLocked()
	listeners := c.listenersLocked()
	c.mu.Unlock()

	c.log.Debug().Msg("Dialog closed after successful save")
	notifyVisibility(listeners, false)
}

// edit применяет изменение к черновику открытого диалога
func (c *Controller) edit(apply func(d *Draft) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.visible {
		return ErrDialogClosed
	}
	return apply(&c.draft)
}

func (c *Controller) resetLocked() {
	c.visible = false
	c.draft = NewDraft()
	c.err = nil
	c.newCategory = ""
	c.uploadErr = ""
}

func (c *Controller) listenersLocked() []VisibilityListener {
	out := make([]VisibilityListener, 0, len(c.listeners))
	for _, l := range c.listeners {
		out = append(out, l.fn)
	}
	return out
}

func notifyVisibility(listeners []VisibilityListener, visible bool) {
	for _, fn := range listeners {
		fn(visible)
	}
}
