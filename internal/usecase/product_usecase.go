package usecase

import (
	"context"
	"io"

	"catalog/internal/domain/entity"
)

// PictureUpload is an uploaded picture file as received from the client.
type PictureUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// ProductInput is the allow-listed field set accepted by product create and update.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	Picture     *PictureUpload // Nil keeps the current picture.

	// CategoryIDs is only applied when HasCategories is set: attached on create, synced on update.
	CategoryIDs   []uint
	HasCategories bool
}

// ProductListOutput is the product listing together with every category title.
type ProductListOutput struct {
	Products   []*entity.Product
	Categories []string
}

// ProductUsecase defines the product resource operations. actor is the authenticated caller.
type ProductUsecase interface {
	ListProducts(ctx context.Context, actor *entity.User) (*ProductListOutput, error)
	CreateProduct(ctx context.Context, actor *entity.User, input *ProductInput) (*entity.Product, error)
	GetProduct(ctx context.Context, actor *entity.User, id uint) (*entity.Product, error)
	UpdateProduct(ctx context.Context, actor *entity.User, id uint, input *ProductInput) (*entity.Product, error)
	DeleteProduct(ctx context.Context, actor *entity.User, id uint) error

	// OpenPicture streams a stored picture by its storage path.
	OpenPicture(ctx context.Context, path string) (io.ReadCloser, string, error)
}
