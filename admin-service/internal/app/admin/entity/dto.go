package entity

// ProductInput поля товара для POST /product и PUT /product/{id}
// Редактирование заменяет запись целиком, частичных обновлений нет
type ProductInput struct {
	SKU         string         `json:"sku" validate:"required"`
	Name        string         `json:"name" validate:"required"`
	Description string         `json:"description" validate:"required"`
	Price       float64        `json:"price" validate:"gt=0"`
	Stock       map[string]int `json:"stock" validate:"required,min=1,dive,gte=0"`
	Image       string         `json:"image"`
	Status      ProductStatus  `json:"status" validate:"required,oneof=active new inactive"`
	Category    []string       `json:"category" validate:"required,min=1"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// ProductListResponse ответ GET /product
type ProductListResponse struct {
	Products     []Product `json:"products"`
	TotalPageNum int       `json:"totalPageNum"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// === Запросы admin API ===

type SetNameFilterRequest struct {
	Name string `json:"name" validate:"max=200"`
}

type SetPageRequest struct {
	Selected int `json:"selected" validate:"gte=0"`
}

type NavigateRequest struct {
	Query string `json:"query"`
}

type OpenDialogRequest struct {
	Mode string `json:"mode" validate:"required,oneof=new"`
}

type SetFieldRequest struct {
	Field string `json:"field" validate:"required,oneof=sku name description price status"`
	Value string `json:"value"`
}

type StockRowRequest struct {
	Size     string `json:"size"`
	Quantity string `json:"quantity"`
}

type ToggleCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type ImageURLRequest struct {
	URL string `json:"url"`
}

type NewCategoryNameRequest struct {
	Name string `json:"name" validate:"max=100"`
}
