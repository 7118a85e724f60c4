package postgres

import (
	"context"
	"slices"
	"time"

	"catalog/internal/domain/entity"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/domain/repository"
	"catalog/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// productRepository implements the domain.ProductRepository interface using GORM.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func preloadCategories(db *gorm.DB) *gorm.DB {
	return db.Preload("Categories", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("categories.id")
	})
}

// List returns every product with its categories, ordered by id.
func (repo *productRepository) List(ctx context.Context) ([]*entity.Product, error) {
	var productModels []*model.ProductModel
	if err := preloadCategories(repo.db.WithContext(ctx)).Order("id").Find(&productModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	products := make([]*entity.Product, 0, len(productModels))
	for _, productM := range productModels {
		products = append(products, toProductDomain(productM))
	}

	return products, nil
}

// FindByID retrieves a product and its categories.
func (repo *productRepository) FindByID(ctx context.Context, id uint) (*entity.Product, error) {
	var productM model.ProductModel
	if err := preloadCategories(repo.db.WithContext(ctx)).Where("id = ?", id).First(&productM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by id")
	}

	return toProductDomain(&productM), nil
}

// Create inserts the product row. Categories on the entity are ignored.
func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(productM).Error; err != nil {
		if isCheckConstraintViolation(err) || isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WithDetails("product violates a column constraint")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create product")
	}

	product.ID = productM.ID
	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// Update overwrites the scalar columns and the picture of an existing product.
func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)
	productM.UpdatedAt = time.Now()

	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{ID: product.ID}).
		Select("Name", "Description", "Price", "Stock", "Picture", "UpdatedAt").
		Updates(productM)
	if err := result.Error; err != nil {
		if isCheckConstraintViolation(err) || isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WithDetails("product violates a column constraint")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// Delete removes the join rows of the product and then the product itself.
func (repo *productRepository) Delete(ctx context.Context, id uint) error {
	db := repo.db.WithContext(ctx)

	if err := db.Where("product_id = ?", id).Delete(&model.ProductCategoryModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to detach product categories")
	}

	result := db.Where("id = ?", id).Delete(&model.ProductModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// AttachCategories inserts the missing join rows. Existing rows are kept.
func (repo *productRepository) AttachCategories(ctx context.Context, productID uint, categoryIDs []uint) error {
	ids := uniqueIDs(categoryIDs)
	if len(ids) == 0 {
		return nil
	}

	rows := make([]model.ProductCategoryModel, 0, len(ids))
	for _, categoryID := range ids {
		rows = append(rows, model.ProductCategoryModel{ProductID: productID, CategoryID: categoryID})
	}

	if err := repo.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUnknownCategory.WrapMessage("attach categories")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to attach categories")
	}

	return nil
}

// SyncCategories replaces the association set of the product with categoryIDs.
func (repo *productRepository) SyncCategories(ctx context.Context, productID uint, categoryIDs []uint) error {
	ids := uniqueIDs(categoryIDs)

	stale := repo.db.WithContext(ctx).Where("product_id = ?", productID)
	if len(ids) > 0 {
		stale = stale.Where("category_id NOT IN ?", ids)
	}
	if err := stale.Delete(&model.ProductCategoryModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to detach categories")
	}

	return repo.AttachCategories(ctx, productID, ids)
}

// uniqueIDs drops duplicates and zero ids, preserving first-seen order.
func uniqueIDs(ids []uint) []uint {
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}

	return out
}

// --- Mapper Functions ---

func toProductDomain(data *model.ProductModel) *entity.Product {
	if data == nil {
		return nil
	}

	categories := make([]*entity.Category, 0, len(data.Categories))
	for _, categoryM := range data.Categories {
		categories = append(categories, toCategoryDomain(categoryM))
	}

	return &entity.Product{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		Price:       data.Price,
		Stock:       data.Stock,
		Picture:     data.Picture,
		Categories:  categories,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromProductDomain(data *entity.Product) *model.ProductModel {
	if data == nil {
		return nil
	}

	return &model.ProductModel{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		Price:       data.Price,
		Stock:       data.Stock,
		Picture:     data.Picture,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
