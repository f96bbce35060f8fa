package entity

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ProductStatus статус товара в каталоге
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusNew      ProductStatus = "new"
	ProductStatusInactive ProductStatus = "inactive"
)

// ProductStatuses варианты для выпадающего списка статуса
var ProductStatuses = []ProductStatus{ProductStatusActive, ProductStatusNew, ProductStatusInactive}

// Sizes известные размеры в порядке отображения
var Sizes = []string{"xs", "s", "m", "l", "xl"}

// Product представляет товар удаленного каталога
// Stock - размер -> количество, Category - теги-имена категорий (слабая ссылка, без каскада)
type Product struct {
	ID          string         `json:"id"`
	SKU         string         `json:"sku"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Stock       map[string]int `json:"stock"`
	Image       string         `json:"image"`
	Status      ProductStatus  `json:"status"`
	Category    []string       `json:"category"`
}

// UnmarshalJSON принимает как id, так и _id (формат удаленного сервиса)
func (p *Product) UnmarshalJSON(data []byte) error {
	type alias Product
	aux := struct {
		*alias
		DocumentID string `json:"_id"`
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = aux.DocumentID
	}
	return nil
}

// Clone возвращает глубокую копию товара
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Stock != nil {
		cp.Stock = make(map[string]int, len(p.Stock))
		for size, qty := range p.Stock {
			cp.Stock[size] = qty
		}
	}
	if p.Category != nil {
		cp.Category = append([]string(nil), p.Category...)
	}
	return &cp
}

// Category представляет категорию товаров
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c *Category) UnmarshalJSON(data []byte) error {
	type alias Category
	aux := struct {
		*alias
		DocumentID string `json:"_id"`
	}{alias: (*alias)(c)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = aux.DocumentID
	}
	return nil
}

// SearchQuery фильтр списка товаров: страница (с 1) и подстрока имени
type SearchQuery struct {
	Page int    `json:"page" validate:"gte=1"`
	Name string `json:"name,omitempty"`
}

// DefaultSearchQuery фильтр по умолчанию: первая страница без имени
func DefaultSearchQuery() SearchQuery {
	return SearchQuery{Page: 1}
}

// Normalize поднимает страницу до 1
func (q SearchQuery) Normalize() SearchQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	return q
}

// RequestPhase фаза запроса одного вида
type RequestPhase string

const (
	PhaseIdle      RequestPhase = "idle"
	PhasePending   RequestPhase = "pending"
	PhaseFulfilled RequestPhase = "fulfilled"
	PhaseRejected  RequestPhase = "rejected"
)

// RequestStatus состояние последнего запроса вида
// fulfilled/rejected остаются до следующего запуска того же вида
type RequestStatus struct {
	Phase RequestPhase `json:"phase"`
	Error string       `json:"error,omitempty"`
}

// Settled true для fulfilled и rejected
func (s RequestStatus) Settled() bool {
	return s.Phase == PhaseFulfilled || s.Phase == PhaseRejected
}

// NotificationStatus тип уведомления
type NotificationStatus string

const (
	NotificationSuccess NotificationStatus = "success"
	NotificationError   NotificationStatus = "error"
)

// Notification краткое сообщение пользователю (toast)
type Notification struct {
	ID        uuid.UUID          `json:"id"`
	Message   string             `json:"message"`
	Status    NotificationStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}

// NewNotification создает уведомление с новым ID
func NewNotification(message string, status NotificationStatus) Notification {
	return Notification{
		ID:        uuid.New(),
		Message:   message,
		Status:    status,
		CreatedAt: time.Now(),
	}
}

// SortSizes упорядочивает размеры: сначала известные по Sizes, затем остальные по алфавиту
func SortSizes(sizes []string) {
	rank := make(map[string]int, len(Sizes))
	for i, s := range Sizes {
		rank[s] = i
	}
	sort.SliceStable(sizes, func(i, j int) bool {
		ri, iKnown := rank[sizes[i]]
		rj, jKnown := rank[sizes[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return sizes[i] < sizes[j]
		}
	})
}
