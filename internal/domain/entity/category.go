package entity

import "time"

// Category labels products. It shares the product_category join rows with Product;
// neither side owns the other.
type Category struct {
	ID          uint
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
