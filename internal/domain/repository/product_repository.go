package repository

import (
	"context"
	"errors"

	"catalog/internal/domain/entity"
)

// ErrProductNotFound is returned when no product matches the requested id.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository persists products and their category associations.
// Reads always load the associated categories.
type ProductRepository interface {
	List(ctx context.Context) ([]*entity.Product, error)
	FindByID(ctx context.Context, id uint) (*entity.Product, error)

	// Create inserts the product row only; associations are written by AttachCategories.
	Create(ctx context.Context, product *entity.Product) error

	// Update overwrites the scalar columns and picture of an existing product.
	Update(ctx context.Context, product *entity.Product) error

	// Delete removes the product and its join rows. Returns ErrProductNotFound when no row matched.
	Delete(ctx context.Context, id uint) error

	// AttachCategories adds associations without touching existing ones. Already attached ids are skipped.
	AttachCategories(ctx context.Context, productID uint, categoryIDs []uint) error

	// SyncCategories makes the association set exactly categoryIDs: missing rows are inserted,
	// rows not in the set are removed, unchanged rows are left alone.
	// Callers run it inside a transaction so readers never see a half-applied set.
	SyncCategories(ctx context.Context, productID uint, categoryIDs []uint) error
}
