package usecase

import (
	"context"

	"catalog/internal/domain/entity"
)

// UserInput is the allow-listed field set accepted by user create and update.
type UserInput struct {
	Name     string
	Email    string
	Password string
}

// UserUsecase defines the user resource operations. actor is the authenticated caller.
type UserUsecase interface {
	ListUsers(ctx context.Context, actor *entity.User) ([]*entity.User, error)
	CreateUser(ctx context.Context, actor *entity.User, input *UserInput) (*entity.User, error)
	GetUser(ctx context.Context, actor *entity.User, id uint) (*entity.User, error)
	UpdateUser(ctx context.Context, actor *entity.User, id uint, input *UserInput) (*entity.User, error)

	// DeleteUser removes the user and revokes all of its tokens.
	DeleteUser(ctx context.Context, actor *entity.User, id uint) error
}
