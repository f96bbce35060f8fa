package util

import (
	"context"

	"catalogadmin/admin-service/internal/app/admin/entity"
)

// CategoryCache кеш списка категорий
// Используется для dependency injection и упрощения тестирования
type CategoryCache interface {
	SetCategories(ctx context.Context, categories []entity.Category) error
	GetCategories(ctx context.Context) ([]entity.Category, error)
	DeleteCategories(ctx context.Context) error
	Close() error
}

// NoopCache используется, когда Redis не настроен: всегда промах
type NoopCache struct{}

func (NoopCache) SetCategories(context.Context, []entity.Category) error { return nil }

func (NoopCache) GetCategories(context.Context) ([]entity.Category, error) { return nil, nil }

func (NoopCache) DeleteCategories(context.Context) error { return nil }

func (NoopCache) Close() error { return nil }
