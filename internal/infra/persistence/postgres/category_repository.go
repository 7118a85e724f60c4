package postgres

import (
	"context"
	"time"

	"catalog/internal/domain/entity"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/domain/repository"
	"catalog/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// categoryRepository implements the domain.CategoryRepository interface using GORM.
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository is the constructor for categoryRepository.
func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (repo *categoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	var categoryModels []*model.CategoryModel
	if err := repo.db.WithContext(ctx).Order("id").Find(&categoryModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	return toCategoryDomains(categoryModels), nil
}

// ListTitles plucks the title column of every category.
func (repo *categoryRepository) ListTitles(ctx context.Context) ([]string, error) {
	titles := []string{}
	if err := repo.db.WithContext(ctx).Model(&model.CategoryModel{}).Order("id").Pluck("title", &titles).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list category titles")
	}

	return titles, nil
}

func (repo *categoryRepository) FindByID(ctx context.Context, id uint) (*entity.Category, error) {
	var categoryM model.CategoryModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&categoryM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCategoryNotFound
		}

		return nil, errors.Wrap(err, "failed to find category by id")
	}

	return toCategoryDomain(&categoryM), nil
}

func (repo *categoryRepository) FindByIDs(ctx context.Context, ids []uint) ([]*entity.Category, error) {
	if len(ids) == 0 {
		return []*entity.Category{}, nil
	}

	var categoryModels []*model.CategoryModel
	if err := repo.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&categoryModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find categories by ids")
	}

	return toCategoryDomains(categoryModels), nil
}

func (repo *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	categoryM := fromCategoryDomain(category)

	if err := repo.db.WithContext(ctx).Create(categoryM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create category")
	}

	category.ID = categoryM.ID
	category.CreatedAt = categoryM.CreatedAt
	category.UpdatedAt = categoryM.UpdatedAt

	return nil
}

func (repo *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	categoryM := fromCategoryDomain(category)
	categoryM.UpdatedAt = time.Now()

	result := repo.db.WithContext(ctx).
		Model(&model.CategoryModel{ID: category.ID}).
		Select("Title", "Description", "UpdatedAt").
		Updates(categoryM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update category")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCategoryNotFound
	}

	category.UpdatedAt = categoryM.UpdatedAt

	return nil
}

// DetachProducts deletes the join rows of the category only.
func (repo *categoryRepository) DetachProducts(ctx context.Context, categoryID uint) error {
	if err := repo.db.WithContext(ctx).Where("category_id = ?", categoryID).Delete(&model.ProductCategoryModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to detach category products")
	}

	return nil
}

func (repo *categoryRepository) Delete(ctx context.Context, id uint) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.CategoryModel{})
	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return domainerrors.NewDatabaseExecuteError(result.Error, "category is still attached to products")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete category")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCategoryNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toCategoryDomain(data *model.CategoryModel) *entity.Category {
	if data == nil {
		return nil
	}

	return &entity.Category{
		ID:          data.ID,
		Title:       data.Title,
		Description: data.Description,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func toCategoryDomains(data []*model.CategoryModel) []*entity.Category {
	categories := make([]*entity.Category, 0, len(data))
	for _, categoryM := range data {
		categories = append(categories, toCategoryDomain(categoryM))
	}

	return categories
}

func fromCategoryDomain(data *entity.Category) *model.CategoryModel {
	if data == nil {
		return nil
	}

	return &model.CategoryModel{
		ID:          data.ID,
		Title:       data.Title,
		Description: data.Description,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
