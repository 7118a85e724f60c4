package model

import "time"

// ProductModel mirrors the 'products' table. Categories are reached through 'product_category'.
type ProductModel struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"`
	Name        string  `gorm:"type:varchar(255);not null"`
	Description string  `gorm:"type:text;not null"`
	Price       float64 `gorm:"type:numeric(10,2);not null"`
	Stock       int     `gorm:"not null"`
	Picture     *string `gorm:"type:varchar(255)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Categories []*CategoryModel `gorm:"many2many:product_category;joinForeignKey:ProductID;joinReferences:CategoryID"`
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}

// CategoryModel mirrors the 'categories' table.
type CategoryModel struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	Title       string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (CategoryModel) TableName() string {
	return "categories"
}

// ProductCategoryModel mirrors the 'product_category' join table.
type ProductCategoryModel struct {
	ProductID  uint `gorm:"primaryKey"`
	CategoryID uint `gorm:"primaryKey;index"`
}

// TableName explicitly sets the table name for GORM.
func (ProductCategoryModel) TableName() string {
	return "product_category"
}
