package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"catalog/config"
	deliverycontext "catalog/internal/delivery/context"
	"catalog/internal/domain/entity"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/domain/repository"
	"catalog/internal/domain/service"
	"catalog/internal/usecase"
	"catalog/internal/util"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// allowedPictureExtensions are the accepted upload formats.
var allowedPictureExtensions = []string{"jpeg", "png", "jpg", "gif", "svg"}

// productService implements the ProductUsecase interface.
type productService struct {
	txManager      repository.TransactionManager
	productRepo    repository.ProductRepository
	categoryRepo   repository.CategoryRepository
	pictures       service.PictureStore
	maxPictureSize int64
	logger         *slog.Logger
}

// ProductServiceParams holds dependencies for ProductService, injected by Fx.
type ProductServiceParams struct {
	fx.In

	Config       *config.Config
	TxManager    repository.TransactionManager
	ProductRepo  repository.ProductRepository
	CategoryRepo repository.CategoryRepository
	Pictures     service.PictureStore
	Logger       *slog.Logger
}

// NewProductService is the constructor for productService.
func NewProductService(params ProductServiceParams) usecase.ProductUsecase {
	var maxSize int64
	if params.Config != nil && params.Config.Storage != nil {
		maxSize = params.Config.Storage.MaxPictureSize
	}

	return &productService{
		txManager:      params.TxManager,
		productRepo:    params.ProductRepo,
		categoryRepo:   params.CategoryRepo,
		pictures:       params.Pictures,
		maxPictureSize: maxSize,
		logger:         params.Logger,
	}
}

func (srv *productService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListProducts returns every product together with every category title.
func (srv *productService) ListProducts(ctx context.Context, _ *entity.User) (*usecase.ProductListOutput, error) {
	products, err := srv.productRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	titles, err := srv.categoryRepo.ListTitles(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list category titles")
	}

	return &usecase.ProductListOutput{Products: products, Categories: titles}, nil
}

// CreateProduct stores the picture first, then creates the product and attaches its categories in one transaction.
func (srv *productService) CreateProduct(ctx context.Context, actor *entity.User, input *usecase.ProductInput) (*entity.Product, error) {
	if err := srv.prepare(ctx, input); err != nil {
		return nil, err
	}

	picture, err := srv.savePicture(ctx, input.Picture)
	if err != nil {
		return nil, err
	}

	product := &entity.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Picture:     picture,
	}

	var created *entity.Product
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.NewProductRepository()
		if err := productRepo.Create(ctx, product); err != nil {
			return errors.Wrap(err, "failed to create product")
		}

		if input.HasCategories {
			if err := productRepo.AttachCategories(ctx, product.ID, input.CategoryIDs); err != nil {
				return errors.Wrap(err, "failed to attach categories")
			}
		}

		var err error
		created, err = productRepo.FindByID(ctx, product.ID)

		return err
	})
	if err != nil {
		srv.discardPicture(ctx, picture)

		return nil, mapProductNotFound(err)
	}

	srv.log(ctx).Info("Product created",
		slog.Uint64("productID", uint64(created.ID)),
		slog.Int("categories", len(created.Categories)),
		slog.Uint64("actorID", actorID(actor)),
	)

	return created, nil
}

func (srv *productService) GetProduct(ctx context.Context, _ *entity.User, id uint) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapProductNotFound(err)
	}

	return product, nil
}

// UpdateProduct overwrites the product fields and, when categories are given, replaces the full association set.
// A replaced picture is removed only after the update committed.
func (srv *productService) UpdateProduct(ctx context.Context, actor *entity.User, id uint, input *usecase.ProductInput) (*entity.Product, error) {
	if err := srv.prepare(ctx, input); err != nil {
		return nil, err
	}

	picture, err := srv.savePicture(ctx, input.Picture)
	if err != nil {
		return nil, err
	}

	var (
		updated    *entity.Product
		oldPicture *string
	)
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.NewProductRepository()
		product, err := productRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		product.Name = input.Name
		product.Description = input.Description
		product.Price = input.Price
		product.Stock = input.Stock
		if picture != nil {
			oldPicture = product.Picture
			product.Picture = picture
		}

		if err := productRepo.Update(ctx, product); err != nil {
			return errors.Wrap(err, "failed to update product")
		}

		if input.HasCategories {
			if err := productRepo.SyncCategories(ctx, id, input.CategoryIDs); err != nil {
				return errors.Wrap(err, "failed to sync categories")
			}
		}

		updated, err = productRepo.FindByID(ctx, id)

		return err
	})
	if err != nil {
		srv.discardPicture(ctx, picture)

		return nil, mapProductNotFound(err)
	}

	srv.discardPicture(ctx, oldPicture)

	srv.log(ctx).Info("Product updated", slog.Uint64("productID", uint64(id)), slog.Uint64("actorID", actorID(actor)))

	return updated, nil
}

// DeleteProduct removes the product with its join rows, then its picture.
func (srv *productService) DeleteProduct(ctx context.Context, actor *entity.User, id uint) error {
	var picture *string
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.NewProductRepository()
		product, err := productRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		picture = product.Picture

		return productRepo.Delete(ctx, id)
	})
	if err != nil {
		return mapProductNotFound(err)
	}

	srv.discardPicture(ctx, picture)

	srv.log(ctx).Info("Product deleted", slog.Uint64("productID", uint64(id)), slog.Uint64("actorID", actorID(actor)))

	return nil
}

func (srv *productService) OpenPicture(ctx context.Context, path string) (io.ReadCloser, string, error) {
	rc, contentType, err := srv.pictures.Open(ctx, path)
	if err != nil {
		return nil, "", errors.Wrapf(err, "failed to open picture %s", path)
	}

	return rc, contentType, nil
}

// prepare checks the picture metadata and that every referenced category exists.
func (srv *productService) prepare(ctx context.Context, input *usecase.ProductInput) error {
	if input.Picture != nil {
		ext := util.FileExtension(input.Picture.Filename)
		if !slices.Contains(allowedPictureExtensions, ext) {
			return domainerrors.ErrInvalidPicture.WithDetails(fmt.Sprintf("unsupported extension %q", ext))
		}
		if srv.maxPictureSize > 0 && input.Picture.Size > srv.maxPictureSize {
			return domainerrors.ErrPictureTooLarge.WithDetails(
				fmt.Sprintf("%s exceeds %s", util.FormatBytes(input.Picture.Size), util.FormatBytes(srv.maxPictureSize)),
			)
		}
	}

	if !input.HasCategories || len(input.CategoryIDs) == 0 {
		return nil
	}

	found, err := srv.categoryRepo.FindByIDs(ctx, input.CategoryIDs)
	if err != nil {
		return errors.Wrap(err, "failed to look up categories")
	}

	known := make(map[uint]struct{}, len(found))
	for _, category := range found {
		known[category.ID] = struct{}{}
	}

	var missing []string
	for _, id := range input.CategoryIDs {
		if _, ok := known[id]; !ok {
			missing = append(missing, fmt.Sprint(id))
		}
	}
	if len(missing) > 0 {
		return domainerrors.ErrUnknownCategory.WithDetails("unknown category ids: " + strings.Join(missing, ", "))
	}

	return nil
}

func (srv *productService) savePicture(ctx context.Context, upload *usecase.PictureUpload) (*string, error) {
	if upload == nil {
		return nil, nil
	}

	path, err := srv.pictures.Save(ctx, upload.Content, util.FileExtension(upload.Filename))
	if err != nil {
		return nil, errors.Wrap(err, "failed to store picture")
	}

	return &path, nil
}

// discardPicture removes a stored picture. Failures are logged and otherwise ignored.
func (srv *productService) discardPicture(ctx context.Context, path *string) {
	if path == nil || *path == "" {
		return
	}

	if err := srv.pictures.Delete(ctx, *path); err != nil {
		srv.log(ctx).Warn("Failed to delete picture", slog.String("path", *path), slog.Any("error", err))
	}
}

func mapProductNotFound(err error) error {
	if errors.Is(err, repository.ErrProductNotFound) {
		return errors.Wrap(domainerrors.ErrProductNotFound, err.Error())
	}

	return errors.WithStack(err)
}
