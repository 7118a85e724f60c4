// Package seed fills an empty catalog with sample categories and products.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"

	"catalog/internal/domain/entity"
	"catalog/internal/domain/repository"

	"github.com/pkg/errors"
)

// DefaultCategories are created when the catalog has no category yet.
var DefaultCategories = []entity.Category{
	{Title: "Electronics", Description: "Phones, computers and accessories"},
	{Title: "Books", Description: "Printed and digital books"},
	{Title: "Home", Description: "Furniture and household goods"},
	{Title: "Garden", Description: "Tools and plants"},
	{Title: "Toys", Description: "Games and toys for all ages"},
	{Title: "Sports", Description: "Equipment and clothing"},
	{Title: "Food", Description: "Groceries and snacks"},
}

// Options controls how much sample data is written.
type Options struct {
	Products                int
	MaxCategoriesPerProduct int
}

// DefaultOptions seeds 20 products with one to five categories each.
func DefaultOptions() Options {
	return Options{Products: 20, MaxCategoriesPerProduct: 5}
}

// Result reports what a run created.
type Result struct {
	CategoriesCreated int
	Products          []*entity.Product
}

// Seeder writes sample data through the repositories.
type Seeder struct {
	txManager repository.TransactionManager
	rand      *rand.Rand
	logger    *slog.Logger
}

// NewSeeder creates a seeder. A nil r uses a randomly seeded source.
func NewSeeder(txManager repository.TransactionManager, r *rand.Rand, logger *slog.Logger) *Seeder {
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Seeder{txManager: txManager, rand: r, logger: logger}
}

// Run creates the products in a single transaction, attaching each to a random subset of the categories.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Products <= 0 {
		return &Result{}, nil
	}
	if opts.MaxCategoriesPerProduct <= 0 {
		opts.MaxCategoriesPerProduct = 1
	}

	result := &Result{}
	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		categoryRepo := repoFactory.NewCategoryRepository()
		productRepo := repoFactory.NewProductRepository()

		categories, err := categoryRepo.List(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to list categories")
		}
		if len(categories) == 0 {
			for _, def := range DefaultCategories {
				category := def
				if err := categoryRepo.Create(ctx, &category); err != nil {
					return errors.Wrapf(err, "failed to create category %q", def.Title)
				}
				categories = append(categories, &category)
			}
			result.CategoriesCreated = len(categories)
		}

		for i := range opts.Products {
			product := s.sampleProduct(i + 1)
			if err := productRepo.Create(ctx, product); err != nil {
				return errors.Wrapf(err, "failed to create product %q", product.Name)
			}

			if err := productRepo.AttachCategories(ctx, product.ID, s.pickCategories(categories, opts.MaxCategoriesPerProduct)); err != nil {
				return errors.Wrapf(err, "failed to attach categories to product %d", product.ID)
			}

			result.Products = append(result.Products, product)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Catalog seeded",
		slog.Int("categoriesCreated", result.CategoriesCreated),
		slog.Int("products", len(result.Products)),
	)

	return result, nil
}

var (
	adjectives = []string{"Classic", "Compact", "Deluxe", "Eco", "Smart", "Vintage", "Rugged", "Portable"}
	nouns      = []string{"Lamp", "Backpack", "Speaker", "Notebook", "Kettle", "Chair", "Puzzle", "Bottle"}
	words      = []string{"durable", "light", "handmade", "everyday", "premium", "reliable", "simple", "quality", "design", "use"}
)

// sampleProduct draws a price in [0, 40] with two decimals and a stock in [0, 100].
func (s *Seeder) sampleProduct(n int) *entity.Product {
	name := fmt.Sprintf("%s %s %d", adjectives[s.rand.IntN(len(adjectives))], nouns[s.rand.IntN(len(nouns))], n)

	description := make([]string, 0, 12)
	for range 12 {
		description = append(description, words[s.rand.IntN(len(words))])
	}

	return &entity.Product{
		Name:        name,
		Description: strings.Join(description, " ") + ".",
		Price:       math.Round(s.rand.Float64()*40*100) / 100,
		Stock:       s.rand.IntN(101),
	}
}

// pickCategories returns between 1 and maxCount distinct category ids.
func (s *Seeder) pickCategories(categories []*entity.Category, maxCount int) []uint {
	if len(categories) == 0 {
		return nil
	}

	count := 1 + s.rand.IntN(min(maxCount, len(categories)))
	ids := make([]uint, 0, count)
	for _, idx := range s.rand.Perm(len(categories))[:count] {
		ids = append(ids, categories[idx].ID)
	}

	return ids
}
