package form

import (
	"strconv"
	"strings"

	"catalogadmin/admin-service/internal/app/admin/entity"
)

// StockRow строка редактора остатков: размер и количество в виде введенного текста
type StockRow struct {
	Size     string `json:"size"`
	Quantity string `json:"quantity"`
}

// SizeOption вариант селектора размера; уже выбранные в других строках недоступны
type SizeOption struct {
	Size     string `json:"size"`
	Disabled bool   `json:"disabled"`
}

// CollapseStock сворачивает строки в map размер -> количество
// Размер обязателен, количество целое неотрицательное, повтор размера отклоняется
func CollapseStock(rows []StockRow) (map[string]int, error) {
	stock := make(map[string]int, len(rows))
	for _, row := range rows {
		size := strings.TrimSpace(row.Size)
		if size == "" {
			return nil, ErrInvalidStock
		}
		qty, err := strconv.Atoi(strings.TrimSpace(row.Quantity))
		if err != nil || qty < 0 {
			return nil, ErrInvalidStock
		}
		if _, exists := stock[size]; exists {
			return nil, ErrDuplicateSize
		}
		stock[size] = qty
	}
	return stock, nil
}

// ExpandStock разворачивает map в строки в порядке известных размеров, затем по алфавиту
func ExpandStock(stock map[string]int) []StockRow {
	sizes := make([]string, 0, len(stock))
	for size := range stock {
		sizes = append(sizes, size)
	}
	entity.SortSizes(sizes)

	rows := make([]StockRow, 0, len(sizes))
	for _, size := range sizes {
		rows = append(rows, StockRow{Size: size, Quantity: strconv.Itoa(stock[size])})
	}
	return rows
}

// SizeOptions варианты размера для строки index
func SizeOptions(rows []StockRow, index int) []SizeOption {
	taken := make(map[string]bool, len(rows))
	for i, row := range rows {
		if i != index && row.Size != "" {
			taken[row.Size] = true
		}
	}

	options := make([]SizeOption, 0, len(entity.Sizes))
	for _, size := range entity.Sizes {
		options = append(options, SizeOption{Size: size, Disabled: taken[size]})
	}
	return options
}
