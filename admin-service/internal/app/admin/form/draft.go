package form

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"

	"catalogadmin/admin-service/internal/app/admin/entity"

	"github.com/go-playground/validator/v10"
)

// Draft черновик диалога: поля хранятся так, как их ввел пользователь
type Draft struct {
	SKU         string         `json:"sku"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       string         `json:"price"`
	Status      string         `json:"status"`
	Image       string         `json:"image"`
	Stock       []StockRow     `json:"stock"`
	Category    *entity.TagSet `json:"category"`
}

// NewDraft шаблон режима new: пустые строки, цена 0, статус active
func NewDraft() Draft {
	return Draft{
		Price:    "0",
		Status:   string(entity.ProductStatusActive),
		Stock:    []StockRow{},
		Category: entity.NewTagSet(),
	}
}

// DraftFromProduct шаблон режима edit из выбранного товара
func DraftFromProduct(p *entity.Product) Draft {
	status := string(p.Status)
	if status == "" {
		status = string(entity.ProductStatusActive)
	}
	return Draft{
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
		Status:      status,
		Image:       p.Image,
		Stock:       ExpandStock(p.Stock),
		Category:    entity.NewTagSet(p.Category...),
	}
}

// Clone копия черновика без общих срезов
func (d Draft) Clone() Draft {
	cp := d
	cp.Stock = append([]StockRow{}, d.Stock...)
	if d.Category != nil {
		cp.Category = d.Category.Clone()
	} else {
		cp.Category = entity.NewTagSet()
	}
	return cp
}

// newValidator валидатор с именами полей из json тегов
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Build проверяет черновик и собирает ProductInput
// Порядок: остатки, цена, категория, разбор остатков, обязательные текстовые поля
func (d Draft) Build(v *validator.Validate) (*entity.ProductInput, error) {
	if len(d.Stock) == 0 {
		return nil, ErrMissingStock
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(d.Price), 64)
	// Цена должна быть конечным положительным числом
	if err != nil || math.IsInf(price, 0) || math.IsNaN(price) || price <= 0 {
		return nil, ErrMissingPrice
	}

	if d.Category == nil || d.Category.Len() == 0 {
		return nil, ErrMissingCategory
	}

	stock, err := CollapseStock(d.Stock)
	if err != nil {
		return nil, err
	}

	input := &entity.ProductInput{
		SKU:         strings.TrimSpace(d.SKU),
		Name:        strings.TrimSpace(d.Name),
		Description: strings.TrimSpace(d.Description),
		Price:       price,
		Stock:       stock,
		Image:       d.Image,
		Status:      entity.ProductStatus(d.Status),
		Category:    d.Category.Values(),
	}

	if err := v.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			if fe.Tag() == "required" {
				return nil, missingField(fe.Field())
			}
			return nil, invalidField(fe.Field())
		}
		return nil, err
	}

	return input, nil
}
