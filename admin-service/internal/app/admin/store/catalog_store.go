package store

import (
	"sync"

	"catalogadmin/admin-service/internal/app/admin/entity"
	"catalogadmin/pkg/metrics"
)

// Kind вид запроса к Catalog API, у каждого вида свой RequestStatus
type Kind string

const (
	KindListProducts   Kind = "list_products"
	KindProductDetail  Kind = "get_product"
	KindCreateProduct  Kind = "create_product"
	KindEditProduct    Kind = "edit_product"
	KindDeleteProduct  Kind = "delete_product"
	KindListCategories Kind = "list_categories"
	KindCreateCategory Kind = "create_category"
	KindDeleteCategory Kind = "delete_category"
)

// productKinds поднимают флаг Loading
var productKinds = []Kind{KindListProducts, KindProductDetail, KindCreateProduct, KindEditProduct, KindDeleteProduct}

// categoryMutationKinds поднимают отдельный флаг CategoryLoading
var categoryMutationKinds = []Kind{KindCreateCategory, KindDeleteCategory}

// State снимок Catalog Store
// Loading и CategoryLoading вычисляются из Statuses
type State struct {
	Products        []entity.Product              `json:"products"`
	SelectedProduct *entity.Product               `json:"selected_product"`
	TotalPageNum    int                           `json:"total_page_num"`
	Categories      []entity.Category             `json:"categories"`
	Loading         bool                          `json:"loading"`
	CategoryLoading bool                          `json:"category_loading"`
	Error           string                        `json:"error"`
	Success         bool                          `json:"success"`
	Statuses        map[Kind]entity.RequestStatus `json:"statuses"`
}

// Status возвращает статус вида, idle если вид еще не запускался
func (s State) Status(kind Kind) entity.RequestStatus {
	if st, ok := s.Statuses[kind]; ok {
		return st
	}
	return entity.RequestStatus{Phase: entity.PhaseIdle}
}

// Listener получает снимок после каждого изменения состояния
type Listener func(State)

// SettleHook вызывается, когда запрос вида завершился (fulfilled или rejected)
type SettleHook func(kind Kind, status entity.RequestStatus)

type listenerEntry struct {
	id int
	fn Listener
}

type hookEntry struct {
	id int
	fn SettleHook
}

// CatalogStore единственный владелец списка товаров, категорий и статусов запросов
// Изменяется только через Begin/Resolve*/Reject, подписчики вызываются вне блокировки
type CatalogStore struct {
	mu sync.Mutex

	products     []entity.Product
	selected     *entity.Product
	totalPageNum int
	categories   []entity.Category
	errMsg       string
	errKind      Kind
	success      bool
	statuses     map[Kind]entity.RequestStatus

	// seq номер последнего запуска каждого вида, более старые ответы отбрасываются
	seq map[Kind]uint64

	nextID    int
	listeners []listenerEntry
	hooks     []hookEntry
}

// New создает пустой store; TotalPageNum по умолчанию 1
func New() *CatalogStore {
	return &CatalogStore{
		totalPageNum: 1,
		statuses:     make(map[Kind]entity.RequestStatus),
		seq:          make(map[Kind]uint64),
	}
}

// Snapshot глубокая копия текущего состояния
func (s *CatalogStore) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe регистрирует подписчика, возвращает функцию отписки
func (s *CatalogStore) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// OnSettle регистрирует хук завершения запросов, возвращает функцию отписки
func (s *CatalogStore) OnSettle(fn SettleHook) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.hooks = append(s.hooks, hookEntry{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, h := range s.hooks {
			if h.id == id {
				s.hooks = append(s.hooks[:i], s.hooks[i+1:]...)
				return
			}
		}
	}
}

// Begin переводит вид в pending и возвращает номер запуска
// Ошибка этого же вида и флаг success (для create/edit) сбрасываются
func (s *CatalogStore) Begin(kind Kind) uint64 {
	s.mu.Lock()

	s.seq[kind]++
	seq := s.seq[kind]

	s.statuses[kind] = entity.RequestStatus{Phase: entity.PhasePending}
	if s.errKind == kind {
		s.errMsg = ""
		s.errKind = ""
	}
	if kind == KindCreateProduct || kind == KindEditProduct {
		s.success = false
	}

	snapshot := s.snapshotLocked()
	listeners := s.listenersLocked()
	s.mu.Unlock()

	notify(listeners, snapshot)
	return seq
}

// ResolveProductList сохраняет страницу товаров и очищает ошибку
func (s *CatalogStore) ResolveProductList(seq uint64, products []entity.Product, totalPageNum int) bool {
	return s.settle(KindListProducts, seq, entity.PhaseFulfilled, "", func() {
		s.products = cloneProducts(products)
		s.totalPageNum = totalPageNum
		s.errMsg = ""
		s.errKind = ""
	})
}

// ResolveProductDetail делает полученный товар выбранным
func (s *CatalogStore) ResolveProductDetail(seq uint64, product *entity.Product) bool {
	return s.settle(KindProductDetail, seq, entity.PhaseFulfilled, "", func() {
		s.selected = product.Clone()
	})
}

// ResolveProductSaved завершает create/edit: поднимает success и очищает ошибку
// Для edit обновленная запись заменяет товар в текущей странице
func (s *CatalogStore) ResolveProductSaved(kind Kind, seq uint64, product *entity.Product) bool {
	return s.settle(kind, seq, entity.PhaseFulfilled, "", func() {
		s.success = true
		s.errMsg = ""
		s.errKind = ""
		if kind == KindEditProduct && product != nil {
			for i := range s.products {
				if s.products[i].ID == product.ID {
					s.products[i] = *product.Clone()
				}
			}
			if s.selected != nil && s.selected.ID == product.ID {
				s.selected = product.Clone()
			}
		}
	})
}

// ResolveProductDeleted убирает товар из текущей страницы и из выбранного
func (s *CatalogStore) ResolveProductDeleted(seq uint64, id string) bool {
	return s.settle(KindDeleteProduct, seq, entity.PhaseFulfilled, "", func() {
		kept := s.products[:0]
		for _, p := range s.products {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		s.products = kept
		if s.selected != nil && s.selected.ID == id {
			s.selected = nil
		}
	})
}

// ResolveCategories сохраняет список категорий
func (s *CatalogStore) ResolveCategories(seq uint64, categories []entity.Category) bool {
	return s.settle(KindListCategories, seq, entity.PhaseFulfilled, "", func() {
		s.categories = append([]entity.Category(nil), categories...)
	})
}

// ResolveCategoryMutation завершает create/delete категории
// Товары, ссылающиеся на удаленную категорию по имени, не меняются
func (s *CatalogStore) ResolveCategoryMutation(kind Kind, seq uint64) bool {
	return s.settle(kind, seq, entity.PhaseFulfilled, "", nil)
}

// Reject сохраняет сообщение об ошибке, данные предыдущего успешного запроса не трогаются
func (s *CatalogStore) Reject(kind Kind, seq uint64, message string) bool {
	return s.settle(kind, seq, entity.PhaseRejected, message, func() {
		s.errMsg = message
		s.errKind = kind
		if kind == KindCreateProduct || kind == KindEditProduct {
			s.success = false
		}
	})
}

// SelectProduct задает товар для диалога редактирования
func (s *CatalogStore) SelectProduct(product *entity.Product) {
	s.mu.Lock()
	s.selected = product.Clone()
	snapshot := s.snapshotLocked()
	listeners := s.listenersLocked()
	s.mu.Unlock()

	notify(listeners, snapshot)
}

// ClearError сбрасывает общую ошибку и флаг success (при открытии диалога)
func (s *CatalogStore) ClearError() {
	s.mu.Lock()
	s.errMsg = ""
	s.errKind = ""
	s.success = false
	snapshot := s.snapshotLocked()
	listeners := s.listenersLocked()
	s.mu.Unlock()

	notify(listeners, snapshot)
}

// settle общий переход в fulfilled/rejected
// Возвращает false, если seq устарел: был запущен более новый запрос того же вида
func (s *CatalogStore) settle(kind Kind, seq uint64, phase entity.RequestPhase, message string, apply func()) bool {
	s.mu.Lock()

	if seq != s.seq[kind] {
		s.mu.Unlock()
		metrics.StaleResponsesDiscarded.WithLabelValues(string(kind)).Inc()
		return false
	}

	status := entity.RequestStatus{Phase: phase, Error: message}
	s.statuses[kind] = status
	if apply != nil {
		apply()
	}

	snapshot := s.snapshotLocked()
	listeners := s.listenersLocked()
	hooks := make([]SettleHook, 0, len(s.hooks))
	for _, h := range s.hooks {
		hooks = append(hooks, h.fn)
	}
	s.mu.Unlock()

	metrics.RequestsSettled.WithLabelValues(string(kind), string(phase)).Inc()

	notify(listeners, snapshot)
	for _, h := range hooks {
		h(kind, status)
	}
	return true
}

func (s *CatalogStore) listenersLocked() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		out = append(out, l.fn)
	}
	return out
}

func (s *CatalogStore) snapshotLocked() State {
	statuses := make(map[Kind]entity.RequestStatus, len(s.statuses))
	for k, v := range s.statuses {
		statuses[k] = v
	}

	return State{
		Products:        cloneProducts(s.products),
		SelectedProduct: s.selected.Clone(),
		TotalPageNum:    s.totalPageNum,
		Categories:      append([]entity.Category(nil), s.categories...),
		Loading:         anyPending(statuses, productKinds),
		CategoryLoading: anyPending(statuses, categoryMutationKinds),
		Error:           s.errMsg,
		Success:         s.success,
		Statuses:        statuses,
	}
}

func anyPending(statuses map[Kind]entity.RequestStatus, kinds []Kind) bool {
	for _, k := range kinds {
		if statuses[k].Phase == entity.PhasePending {
			return true
		}
	}
	return false
}

func cloneProducts(products []entity.Product) []entity.Product {
	if products == nil {
		return nil
	}
	out := make([]entity.Product, len(products))
	for i := range products {
		out[i] = *products[i].Clone()
	}
	return out
}

func notify(listeners []Listener, snapshot State) {
	for _, l := range listeners {
		l(snapshot)
	}
}
