package impl

import (
	"context"
	"log/slog"

	deliverycontext "catalog/internal/delivery/context"
	"catalog/internal/domain/entity"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/domain/repository"
	"catalog/internal/domain/service"
	"catalog/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	hasher    service.PasswordHasher
	logger    *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Hasher    service.PasswordHasher
	Logger    *slog.Logger
}

// NewUserService is the constructor for userService.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		hasher:    params.Hasher,
		logger:    params.Logger,
	}
}

func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *userService) ListUsers(ctx context.Context, _ *entity.User) ([]*entity.User, error) {
	users, err := srv.userRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return users, nil
}

func (srv *userService) CreateUser(ctx context.Context, actor *entity.User, input *usecase.UserInput) (*entity.User, error) {
	hashedPassword, err := srv.hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
	}
	if err := srv.userRepo.Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}

	srv.log(ctx).Info("User created", slog.Uint64("userID", uint64(user.ID)), slog.Uint64("actorID", actorID(actor)))

	return user, nil
}

func (srv *userService) GetUser(ctx context.Context, _ *entity.User, id uint) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapUserNotFound(err)
	}

	return user, nil
}

func (srv *userService) UpdateUser(ctx context.Context, actor *entity.User, id uint, input *usecase.UserInput) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapUserNotFound(err)
	}

	hashedPassword, err := srv.hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user.Name = input.Name
	user.Email = input.Email
	user.PasswordHash = hashedPassword

	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, mapUserNotFound(err)
	}

	srv.log(ctx).Info("User updated", slog.Uint64("userID", uint64(user.ID)), slog.Uint64("actorID", actorID(actor)))

	return user, nil
}

// DeleteUser revokes the user's sessions and removes the user in one transaction.
func (srv *userService) DeleteUser(ctx context.Context, actor *entity.User, id uint) error {
	var revoked int64
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		revoked, err = repoFactory.NewSessionRepository().DeleteByUserID(ctx, id)
		if err != nil {
			return errors.Wrap(err, "failed to revoke user sessions")
		}

		return repoFactory.NewUserRepository().Delete(ctx, id)
	})
	if err != nil {
		return mapUserNotFound(err)
	}

	srv.log(ctx).Info("User deleted",
		slog.Uint64("userID", uint64(id)),
		slog.Int64("revokedSessions", revoked),
		slog.Uint64("actorID", actorID(actor)),
	)

	return nil
}

func (srv *userService) hashPassword(password string) (string, error) {
	if err := srv.hasher.ValidatePasswordStrength(password); err != nil {
		return "", errors.Wrap(err, "password does not meet security requirements")
	}

	hashedPassword, err := srv.hasher.Hash(password)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash password")
	}

	return hashedPassword, nil
}

func mapUserNotFound(err error) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return errors.Wrap(domainerrors.ErrUserNotFound, err.Error())
	}

	return errors.WithStack(err)
}

// actorID is the id of the authenticated caller for log records, 0 when anonymous.
func actorID(actor *entity.User) uint64 {
	if actor == nil {
		return 0
	}

	return uint64(actor.ID)
}
