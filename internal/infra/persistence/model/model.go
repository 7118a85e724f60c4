// Package model holds the GORM persistence models. They never leave the infra layer;
// repositories map them to domain entities.
package model

// All lists every model in dependency order, for AutoMigrate in tests and tooling.
func All() []any {
	return []any{
		&UserModel{},
		&SessionModel{},
		&CategoryModel{},
		&ProductModel{},
		&ProductCategoryModel{},
	}
}
