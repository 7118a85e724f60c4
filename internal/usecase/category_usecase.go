package usecase

import (
	"context"

	"catalog/internal/domain/entity"
)

// CategoryInput is the allow-listed field set accepted by category create and update.
type CategoryInput struct {
	Title       string
	Description string
}

// CategoryUsecase defines the category resource operations. actor is the authenticated caller.
type CategoryUsecase interface {
	ListCategories(ctx context.Context, actor *entity.User) ([]*entity.Category, error)
	CreateCategory(ctx context.Context, actor *entity.User, input *CategoryInput) (*entity.Category, error)
	GetCategory(ctx context.Context, actor *entity.User, id uint) (*entity.Category, error)
	UpdateCategory(ctx context.Context, actor *entity.User, id uint, input *CategoryInput) (*entity.Category, error)

	// DeleteCategory detaches the category from its products and removes it. Products are kept.
	DeleteCategory(ctx context.Context, actor *entity.User, id uint) error
}
