package entity

import "time"

// Product is a catalog item. Categories is populated by reads that join the
// product_category table; it is nil when the categories were not loaded.
type Product struct {
	ID          uint
	Name        string
	Description string
	Price       float64
	Stock       int
	Picture     *string // Storage key of the uploaded picture, nil when none was uploaded.
	Categories  []*Category
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CategoryTitles flattens the loaded categories into their titles.
func (p *Product) CategoryTitles() []string {
	titles := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		titles = append(titles, c.Title)
	}

	return titles
}
