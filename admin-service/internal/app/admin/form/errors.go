package form

import (
	"errors"
	"fmt"
)

// ValidationError локальная ошибка формы, в сеть не уходит
// Reason машинное описание, Message текст для диалога
type ValidationError struct {
	Field   string `json:"field"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Is сравнивает по полю и причине
func (e *ValidationError) Is(target error) bool {
	var t *ValidationError
	if !errors.As(target, &t) {
		return false
	}
	return e.Field == t.Field && e.Reason == t.Reason
}

var (
	ErrMissingStock        = &ValidationError{Field: "stock", Reason: "missing stock", Message: "Please add stock"}
	ErrMissingPrice        = &ValidationError{Field: "price", Reason: "missing price", Message: "Please add price"}
	ErrMissingCategory     = &ValidationError{Field: "category", Reason: "missing category", Message: "Please check category"}
	ErrInvalidStock        = &ValidationError{Field: "stock", Reason: "invalid stock", Message: "Please check stock"}
	ErrDuplicateSize       = &ValidationError{Field: "stock", Reason: "duplicate stock size", Message: "Each size can be added only once"}
	ErrMissingCategoryName = &ValidationError{Field: "new_category", Reason: "missing category name", Message: "Please enter category name"}
)

// Ошибки управления диалогом
var (
	ErrInvalidMode      = errors.New("invalid dialog mode")
	ErrDialogClosed     = errors.New("dialog is not open")
	ErrUnknownField     = errors.New("unknown field")
	ErrRowOutOfRange    = errors.New("stock row out of range")
	ErrSubmitInProgress = errors.New("submit already in progress")
)

func missingField(field string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Reason:  "missing " + field,
		Message: fmt.Sprintf("Please fill in %s", field),
	}
}

func invalidField(field string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Reason:  "invalid " + field,
		Message: fmt.Sprintf("Please check %s", field),
	}
}
