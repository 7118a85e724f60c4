package impl

import (
	"context"
	"log/slog"

	deliverycontext "catalog/internal/delivery/context"
	"catalog/internal/domain/entity"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/domain/repository"
	"catalog/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// categoryService implements the CategoryUsecase interface.
type categoryService struct {
	txManager    repository.TransactionManager
	categoryRepo repository.CategoryRepository
	logger       *slog.Logger
}

// CategoryServiceParams holds dependencies for CategoryService, injected by Fx.
type CategoryServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	CategoryRepo repository.CategoryRepository
	Logger       *slog.Logger
}

// NewCategoryService is the constructor for categoryService.
func NewCategoryService(params CategoryServiceParams) usecase.CategoryUsecase {
	return &categoryService{
		txManager:    params.TxManager,
		categoryRepo: params.CategoryRepo,
		logger:       params.Logger,
	}
}

func (srv *categoryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *categoryService) ListCategories(ctx context.Context, _ *entity.User) ([]*entity.Category, error) {
	categories, err := srv.categoryRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	return categories, nil
}

func (srv *categoryService) CreateCategory(ctx context.Context, actor *entity.User, input *usecase.CategoryInput) (*entity.Category, error) {
	category := &entity.Category{
		Title:       input.Title,
		Description: input.Description,
	}
	if err := srv.categoryRepo.Create(ctx, category); err != nil {
		return nil, errors.Wrap(err, "failed to create category")
	}

	srv.log(ctx).Info("Category created", slog.Uint64("categoryID", uint64(category.ID)), slog.Uint64("actorID", actorID(actor)))

	return category, nil
}

func (srv *categoryService) GetCategory(ctx context.Context, _ *entity.User, id uint) (*entity.Category, error) {
	category, err := srv.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapCategoryNotFound(err)
	}

	return category, nil
}

func (srv *categoryService) UpdateCategory(ctx context.Context, actor *entity.User, id uint, input *usecase.CategoryInput) (*entity.Category, error) {
	category, err := srv.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapCategoryNotFound(err)
	}

	category.Title = input.Title
	category.Description = input.Description
	if err := srv.categoryRepo.Update(ctx, category); err != nil {
		return nil, mapCategoryNotFound(err)
	}

	srv.log(ctx).Info("Category updated", slog.Uint64("categoryID", uint64(id)), slog.Uint64("actorID", actorID(actor)))

	return category, nil
}

// DeleteCategory removes the join rows and then the category in one transaction.
func (srv *categoryService) DeleteCategory(ctx context.Context, actor *entity.User, id uint) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		categoryRepo := repoFactory.NewCategoryRepository()
		if err := categoryRepo.DetachProducts(ctx, id); err != nil {
			return err
		}

		return categoryRepo.Delete(ctx, id)
	})
	if err != nil {
		return mapCategoryNotFound(err)
	}

	srv.log(ctx).Info("Category deleted", slog.Uint64("categoryID", uint64(id)), slog.Uint64("actorID", actorID(actor)))

	return nil
}

func mapCategoryNotFound(err error) error {
	if errors.Is(err, repository.ErrCategoryNotFound) {
		return errors.Wrap(domainerrors.ErrCategoryNotFound, err.Error())
	}

	return errors.WithStack(err)
}
