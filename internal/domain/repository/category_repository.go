package repository

import (
	"context"
	"errors"

	"catalog/internal/domain/entity"
)

// ErrCategoryNotFound is returned when no category matches the requested id.
var ErrCategoryNotFound = errors.New("category not found")

// CategoryRepository persists categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]*entity.Category, error)

	// ListTitles returns the title of every category ordered by id.
	ListTitles(ctx context.Context) ([]string, error)

	FindByID(ctx context.Context, id uint) (*entity.Category, error)

	// FindByIDs returns the categories matching ids. Unknown ids are silently absent from the result.
	FindByIDs(ctx context.Context, ids []uint) ([]*entity.Category, error)

	Create(ctx context.Context, category *entity.Category) error
	Update(ctx context.Context, category *entity.Category) error

	// DetachProducts removes every join row of the category. Products are untouched.
	DetachProducts(ctx context.Context, categoryID uint) error

	// Delete removes the category row. Returns ErrCategoryNotFound when no row matched.
	Delete(ctx context.Context, id uint) error
}
