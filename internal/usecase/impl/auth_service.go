// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "catalog/internal/delivery/context"
	"catalog/internal/domain/entity"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/domain/repository"
	"catalog/internal/domain/service"
	"catalog/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// tokenName labels every issued session.
const tokenName = "app_token"

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	sessionRepo  repository.SessionRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
	now          func() time.Time
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	SessionRepo  repository.SessionRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		sessionRepo:  params.SessionRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
		now:          time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates the user and its first session atomically.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.TokenOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		srv.log(ctx).Warn("Password validation failed during registration", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "password does not meet security requirements")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	var output *usecase.TokenOutput
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		newUser := &entity.User{
			Name:         input.Name,
			Email:        input.Email,
			PasswordHash: hashedPassword,
		}
		if err := repoFactory.NewUserRepository().Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user during registration")
		}

		token, err := srv.issueSession(ctx, repoFactory.NewSessionRepository(), newUser)
		if err != nil {
			return err
		}

		output = &usecase.TokenOutput{Token: token, User: newUser}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	srv.log(ctx).Info("Registration completed", slog.Uint64("userID", uint64(output.User.ID)))

	return output, nil
}

// Login revokes all prior sessions of the user and issues one new session.
// The user row stays locked from the credential check until commit, so two logins
// of the same user cannot interleave their revoke and issue steps.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.TokenOutput, error) {
	var output *usecase.TokenOutput
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		user, err := repoFactory.NewUserRepository().FindByEmailForUpdate(ctx, input.Email)
		if errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(domainerrors.ErrInvalidCredentials, "unknown email")
		}
		if err != nil {
			return errors.Wrap(err, "failed to find user for login")
		}

		if !srv.hasher.Check(input.Password, user.PasswordHash) {
			return errors.Wrap(domainerrors.ErrInvalidCredentials, "password mismatch")
		}

		sessionRepo := repoFactory.NewSessionRepository()
		revoked, err := sessionRepo.DeleteByUserID(ctx, user.ID)
		if err != nil {
			return errors.Wrap(err, "failed to revoke previous sessions")
		}

		token, err := srv.issueSession(ctx, sessionRepo, user)
		if err != nil {
			return err
		}

		srv.log(ctx).Debug("Previous sessions revoked", slog.Uint64("userID", uint64(user.ID)), slog.Int64("revoked", revoked))
		output = &usecase.TokenOutput{Token: token, User: user}

		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvalidCredentials) {
			srv.log(ctx).Warn("Login rejected", slog.String("email", input.Email))
		} else {
			srv.log(ctx).Error("Login failed", slog.String("email", input.Email), slog.Any("error", err))
		}

		return nil, errors.Wrap(err, "failed to execute login transaction")
	}

	srv.log(ctx).Info("User logged in", slog.Uint64("userID", uint64(output.User.ID)))

	return output, nil
}

// Authenticate resolves the token through its stored session; the signature alone is not enough.
func (srv *authService) Authenticate(ctx context.Context, token string) (*usecase.Principal, error) {
	if token == "" {
		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "missing bearer token")
	}

	claims, err := srv.tokenService.ValidateToken(token)
	if err != nil {
		srv.log(ctx).Debug("Bearer token rejected", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "invalid bearer token")
	}

	session, err := srv.sessionRepo.FindByTokenHash(ctx, srv.tokenService.HashToken(token))
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "session revoked")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find session")
	}

	if session.UserID != claims.UserID || session.ID != claims.SessionID {
		srv.log(ctx).Warn("Token claims do not match stored session", slog.String("sessionID", session.ID.String()))

		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "session mismatch")
	}

	if session.IsExpired(srv.now()) {
		if err := srv.sessionRepo.Delete(ctx, session.ID); err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
			srv.log(ctx).Warn("Failed to delete expired session", slog.String("sessionID", session.ID.String()), slog.Any("error", err))
		}

		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "session expired")
	}

	user, err := srv.userRepo.FindByID(ctx, session.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "session owner no longer exists")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load session owner")
	}

	return &usecase.Principal{User: user, Session: session}, nil
}

// Logout deletes the caller's session. A session that is already gone counts as logged out.
func (srv *authService) Logout(ctx context.Context, principal *usecase.Principal) error {
	if principal == nil || principal.Session == nil {
		return errors.Wrap(domainerrors.ErrUnauthenticated, "no session to revoke")
	}

	if err := srv.sessionRepo.Delete(ctx, principal.Session.ID); err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
		return errors.Wrap(err, "failed to revoke session")
	}

	srv.log(ctx).Info("User logged out", slog.Uint64("userID", uint64(principal.Session.UserID)))

	return nil
}

// issueSession signs a token for user and stores its session through sessionRepo.
func (srv *authService) issueSession(ctx context.Context, sessionRepo repository.SessionRepository, user *entity.User) (string, error) {
	issued, err := srv.tokenService.Issue(user.ID, []string{entity.AbilityAll})
	if err != nil {
		return "", errors.Wrap(err, "failed to issue token")
	}

	session := &entity.Session{
		ID:        issued.SessionID,
		UserID:    user.ID,
		Name:      tokenName,
		TokenHash: issued.Hash,
		Abilities: []string{entity.AbilityAll},
		ExpiresAt: issued.ExpiresAt,
	}
	if err := sessionRepo.Create(ctx, session); err != nil {
		return "", errors.Wrap(err, "failed to store session")
	}

	return issued.Token, nil
}
