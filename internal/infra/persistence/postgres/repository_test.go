package postgres

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"catalog/internal/domain/entity"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/domain/repository"
	"catalog/internal/infra/persistence/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with the catalog schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))

	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *entity.User {
	t.Helper()

	user := &entity.User{Name: "User " + email, Email: email, PasswordHash: "hash"}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))

	return user
}

func seedCategories(t *testing.T, db *gorm.DB, titles ...string) []*entity.Category {
	t.Helper()

	repo := NewCategoryRepository(db)
	categories := make([]*entity.Category, 0, len(titles))
	for _, title := range titles {
		c := &entity.Category{Title: title, Description: title + " description"}
		require.NoError(t, repo.Create(context.Background(), c))
		categories = append(categories, c)
	}

	return categories
}

func seedProduct(t *testing.T, db *gorm.DB, name string) *entity.Product {
	t.Helper()

	p := &entity.Product{Name: name, Description: "d", Price: 9.99, Stock: 5}
	require.NoError(t, NewProductRepository(db).Create(context.Background(), p))

	return p
}

func categoryIDs(p *entity.Product) []uint {
	ids := make([]uint, 0, len(p.Categories))
	for _, c := range p.Categories {
		ids = append(ids, c.ID)
	}

	return ids
}

func TestUserRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "a@b.com")
	assert.NotZero(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", found.Email)
	assert.Equal(t, "hash", found.PasswordHash)

	found, err = repo.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	user.Name = "Renamed"
	user.Email = "c@d.com"
	require.NoError(t, repo.Update(ctx, user))

	found, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", found.Name)
	assert.Equal(t, "c@d.com", found.Email)

	seedUser(t, db, "e@f.com")
	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, user.ID, users[0].ID)

	require.NoError(t, repo.Delete(ctx, user.ID))
	_, err = repo.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, 99)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	_, err = repo.FindByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	_, err = repo.FindByEmailForUpdate(ctx, "missing@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	assert.ErrorIs(t, repo.Update(ctx, &entity.User{ID: 99, Name: "x", Email: "x@y.z", PasswordHash: "h"}), repository.ErrUserNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 99), repository.ErrUserNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "dup@example.com")

	err := NewUserRepository(db).Create(context.Background(), &entity.User{Name: "Other", Email: "dup@example.com", PasswordHash: "h"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
}

func TestSessionRepository_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "s@example.com")

	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	first := &entity.Session{ID: uuid.New(), UserID: user.ID, Name: "app_token", TokenHash: "hash-1", Abilities: []string{entity.AbilityAll}, ExpiresAt: &expires}
	second := &entity.Session{ID: uuid.New(), UserID: user.ID, Name: "app_token", TokenHash: "hash-2", Abilities: []string{entity.AbilityAll}}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	found, err := repo.FindByTokenHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
	assert.Equal(t, user.ID, found.UserID)
	assert.Equal(t, []string{entity.AbilityAll}, found.Abilities)
	require.NotNil(t, found.ExpiresAt)
	assert.True(t, expires.Equal(*found.ExpiresAt))

	count, err := repo.CountByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, repo.Delete(ctx, first.ID))
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), repository.ErrSessionNotFound)
	_, err = repo.FindByTokenHash(ctx, "hash-1")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)

	removed, err := repo.DeleteByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	// Revoking a user without sessions is not an error
	removed, err = repo.DeleteByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestProductRepository_CreateWithoutPicture(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	p := seedProduct(t, db, "Widget")

	found, err := NewProductRepository(db).FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, found.Picture)
	assert.Equal(t, "Widget", found.Name)
	assert.InDelta(t, 9.99, found.Price, 0.0001)
	assert.Equal(t, 5, found.Stock)
	assert.Empty(t, found.Categories)
}

func TestProductRepository_AttachAndSync(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	cats := seedCategories(t, db, "CatA", "CatB", "CatC")
	p := seedProduct(t, db, "Widget")

	require.NoError(t, repo.AttachCategories(ctx, p.ID, []uint{cats[0].ID, cats[1].ID}))
	// Attach is additive and ignores already attached ids
	require.NoError(t, repo.AttachCategories(ctx, p.ID, []uint{cats[1].ID}))

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"CatA", "CatB"}, found.CategoryTitles())

	target := []uint{cats[1].ID, cats[2].ID}
	for range 2 {
		require.NoError(t, repo.SyncCategories(ctx, p.ID, target))

		found, err = repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, target, categoryIDs(found))
	}

	require.NoError(t, repo.SyncCategories(ctx, p.ID, nil))
	found, err = repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Categories)
}

func TestProductRepository_UpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	cats := seedCategories(t, db, "CatA")
	p := seedProduct(t, db, "Widget")
	require.NoError(t, repo.AttachCategories(ctx, p.ID, []uint{cats[0].ID}))

	picture := "picture/1-a.png"
	p.Name = "Gadget"
	p.Price = 1.5
	p.Stock = 0
	p.Picture = &picture
	require.NoError(t, repo.Update(ctx, p))

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gadget", found.Name)
	assert.Equal(t, 0, found.Stock)
	require.NotNil(t, found.Picture)
	assert.Equal(t, picture, *found.Picture)

	assert.ErrorIs(t, repo.Update(ctx, &entity.Product{ID: 404, Name: "x", Description: "y"}), repository.ErrProductNotFound)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), repository.ErrProductNotFound)

	var joinRows int64
	require.NoError(t, db.Model(&model.ProductCategoryModel{}).Count(&joinRows).Error)
	assert.Zero(t, joinRows)
}

func TestProductRepository_List(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	cats := seedCategories(t, db, "CatA", "CatB")
	first := seedProduct(t, db, "First")
	second := seedProduct(t, db, "Second")
	require.NoError(t, repo.AttachCategories(ctx, first.ID, []uint{cats[1].ID, cats[0].ID}))

	products, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, first.ID, products[0].ID)
	assert.Equal(t, []string{"CatA", "CatB"}, products[0].CategoryTitles())
	assert.Equal(t, second.ID, products[1].ID)
	assert.Empty(t, products[1].Categories)
}

func TestCategoryRepository_DeleteKeepsProducts(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryRepository(db)
	products := NewProductRepository(db)
	ctx := context.Background()

	cats := seedCategories(t, db, "CatA", "CatB")
	p := seedProduct(t, db, "Widget")
	require.NoError(t, products.AttachCategories(ctx, p.ID, []uint{cats[0].ID, cats[1].ID}))

	require.NoError(t, categories.DetachProducts(ctx, cats[0].ID))
	require.NoError(t, categories.Delete(ctx, cats[0].ID))

	found, err := products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", found.Name)
	assert.Equal(t, []string{"CatB"}, found.CategoryTitles())

	_, err = categories.FindByID(ctx, cats[0].ID)
	assert.ErrorIs(t, err, repository.ErrCategoryNotFound)
	assert.ErrorIs(t, categories.Delete(ctx, cats[0].ID), repository.ErrCategoryNotFound)
}

func TestCategoryRepository_QueriesAndUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	titles, err := repo.ListTitles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{}, titles)

	cats := seedCategories(t, db, "CatA", "CatB", "CatC")

	titles, err = repo.ListTitles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"CatA", "CatB", "CatC"}, titles)

	found, err := repo.FindByIDs(ctx, []uint{cats[2].ID, cats[0].ID, 999})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "CatA", found[0].Title)
	assert.Equal(t, "CatC", found[1].Title)

	empty, err := repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	cats[1].Title = "Renamed"
	require.NoError(t, repo.Update(ctx, cats[1]))
	c, err := repo.FindByID(ctx, cats[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", c.Title)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	assert.ErrorIs(t, repo.Update(ctx, &entity.Category{ID: 999, Title: "x", Description: "y"}), repository.ErrCategoryNotFound)
}

func TestTransactionManager_RollbackOnError(t *testing.T) {
	db := newTestDB(t)
	tm := NewTransactionManager(db)
	ctx := context.Background()

	errBoom := errors.New("boom")
	err := tm.Execute(ctx, func(factory repository.RepositoryFactory) error {
		if err := factory.NewUserRepository().Create(ctx, &entity.User{Name: "T", Email: "t@example.com", PasswordHash: "h"}); err != nil {
			return err
		}

		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	_, err = NewUserRepository(db).FindByEmail(ctx, "t@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestTransactionManager_Commit(t *testing.T) {
	db := newTestDB(t)
	tm := NewTransactionManager(db)
	ctx := context.Background()
	user := seedUser(t, db, "login@example.com")
	require.NoError(t, NewSessionRepository(db).Create(ctx, &entity.Session{ID: uuid.New(), UserID: user.ID, Name: "app_token", TokenHash: "old", Abilities: []string{entity.AbilityAll}}))

	err := tm.Execute(ctx, func(factory repository.RepositoryFactory) error {
		locked, err := factory.NewUserRepository().FindByEmailForUpdate(ctx, "login@example.com")
		if err != nil {
			return err
		}

		sessions := factory.NewSessionRepository()
		if _, err := sessions.DeleteByUserID(ctx, locked.ID); err != nil {
			return err
		}

		return sessions.Create(ctx, &entity.Session{ID: uuid.New(), UserID: locked.ID, Name: "app_token", TokenHash: "new", Abilities: []string{entity.AbilityAll}})
	})
	require.NoError(t, err)

	sessions := NewSessionRepository(db)
	count, err := sessions.CountByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = sessions.FindByTokenHash(ctx, "new")
	require.NoError(t, err)
}

func TestTransactionManager_RollbackOnPanic(t *testing.T) {
	db := newTestDB(t)
	tm := NewTransactionManager(db)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = tm.Execute(ctx, func(factory repository.RepositoryFactory) error {
			_ = factory.NewCategoryRepository().Create(ctx, &entity.Category{Title: "T", Description: "D"})
			panic("boom")
		})
	})

	titles, err := NewCategoryRepository(db).ListTitles(ctx)
	require.NoError(t, err)
	assert.Empty(t, titles)
}
