package impl

import (
	"context"
	"testing"
	"time"

	"catalog/internal/domain/entity"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/domain/repository"
	"catalog/internal/domain/service"
	mockRepo "catalog/internal/mocks/repository"
	mockSvc "catalog/internal/mocks/service"
	"catalog/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service      *authService
	txManager    *mockRepo.MockTransactionManager
	factory      *mockRepo.MockRepositoryFactory
	txUserRepo   *mockRepo.MockUserRepository
	txSessions   *mockRepo.MockSessionRepository
	userRepo     *mockRepo.MockUserRepository
	sessionRepo  *mockRepo.MockSessionRepository
	hasher       *mockSvc.MockPasswordHasher
	tokenService *mockSvc.MockTokenService
}

func createTestAuthService(t *testing.T) authServiceFixtures {
	f := authServiceFixtures{
		txManager:    mockRepo.NewMockTransactionManager(t),
		factory:      mockRepo.NewMockRepositoryFactory(t),
		txUserRepo:   mockRepo.NewMockUserRepository(t),
		txSessions:   mockRepo.NewMockSessionRepository(t),
		userRepo:     mockRepo.NewMockUserRepository(t),
		sessionRepo:  mockRepo.NewMockSessionRepository(t),
		hasher:       mockSvc.NewMockPasswordHasher(t),
		tokenService: mockSvc.NewMockTokenService(t),
	}

	f.service = NewAuthService(AuthServiceParams{
		TxManager:    f.txManager,
		UserRepo:     f.userRepo,
		SessionRepo:  f.sessionRepo,
		Hasher:       f.hasher,
		TokenService: f.tokenService,
		Logger:       newDiscardLogger(),
	}).(*authService)

	return f
}

func (f authServiceFixtures) inTransaction() {
	f.txManager.PassThrough(f.factory)
	f.factory.On("NewUserRepository").Return(f.txUserRepo).Maybe()
	f.factory.On("NewSessionRepository").Return(f.txSessions).Maybe()
}

func TestAuthService_Register_Success(t *testing.T) {
	f := createTestAuthService(t)
	ctx := context.Background()
	input := &usecase.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "Passw0rd!"}
	sessionID := uuid.New()

	f.inTransaction()
	f.hasher.On("ValidatePasswordStrength", input.Password).Return(nil)
	f.hasher.On("Hash", input.Password).Return("hashed", nil)
	f.txUserRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return u.Email == input.Email && u.PasswordHash == "hashed"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.User).ID = 7
	}).Return(nil)
	f.tokenService.On("Issue", uint(7), []string{entity.AbilityAll}).
		Return(&service.IssuedToken{Token: "secret", Hash: "hash", SessionID: sessionID}, nil)
	f.txSessions.On("Create", mock.Anything, mock.MatchedBy(func(s *entity.Session) bool {
		return s.ID == sessionID && s.UserID == 7 && s.TokenHash == "hash" && s.Name == tokenName
	})).Return(nil)

	output, err := f.service.Register(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "secret", output.Token)
	assert.Equal(t, uint(7), output.User.ID)
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	f := createTestAuthService(t)

	f.hasher.On("ValidatePasswordStrength", "short").
		Return(domainerrors.ErrPasswordStrength.WithDetails("too short"))

	output, err := f.service.Register(context.Background(), &usecase.RegisterInput{
		Name: "Bob", Email: "bob@example.com", Password: "short",
	})

	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrPasswordStrength)
	f.txManager.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	f := createTestAuthService(t)
	input := &usecase.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "Passw0rd!"}

	f.inTransaction()
	f.hasher.On("ValidatePasswordStrength", input.Password).Return(nil)
	f.hasher.On("Hash", input.Password).Return("hashed", nil)
	f.txUserRepo.On("Create", mock.Anything, mock.Anything).Return(domainerrors.ErrUserAlreadyExists)

	_, err := f.service.Register(context.Background(), input)

	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestAuthService_Login_RevokesThenIssues(t *testing.T) {
	f := createTestAuthService(t)
	ctx := context.Background()
	user := &entity.User{ID: 3, Email: "a@b.com", PasswordHash: "hashed"}
	sessionID := uuid.New()

	f.inTransaction()
	f.txUserRepo.On("FindByEmailForUpdate", mock.Anything, "a@b.com").Return(user, nil)
	f.hasher.On("Check", "Passw0rd!", "hashed").Return(true)
	mock.InOrder(
		f.txSessions.On("DeleteByUserID", mock.Anything, uint(3)).Return(int64(2), nil),
		f.tokenService.On("Issue", uint(3), []string{entity.AbilityAll}).
			Return(&service.IssuedToken{Token: "fresh", Hash: "fresh-hash", SessionID: sessionID}, nil),
		f.txSessions.On("Create", mock.Anything, mock.AnythingOfType("*entity.Session")).Return(nil),
	)

	output, err := f.service.Login(ctx, &usecase.LoginInput{Email: "a@b.com", Password: "Passw0rd!"})

	require.NoError(t, err)
	assert.Equal(t, "fresh", output.Token)
	assert.Same(t, user, output.User)
}

func TestAuthService_Login_RevokesEvenWithoutPriorSessions(t *testing.T) {
	f := createTestAuthService(t)
	user := &entity.User{ID: 3, Email: "a@b.com", PasswordHash: "hashed"}

	f.inTransaction()
	f.txUserRepo.On("FindByEmailForUpdate", mock.Anything, user.Email).Return(user, nil)
	f.hasher.On("Check", "Passw0rd!", "hashed").Return(true)
	f.txSessions.On("DeleteByUserID", mock.Anything, uint(3)).Return(int64(0), nil).Once()
	f.tokenService.On("Issue", uint(3), mock.Anything).
		Return(&service.IssuedToken{Token: "fresh", Hash: "h", SessionID: uuid.New()}, nil)
	f.txSessions.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := f.service.Login(context.Background(), &usecase.LoginInput{Email: user.Email, Password: "Passw0rd!"})

	require.NoError(t, err)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	f := createTestAuthService(t)

	f.inTransaction()
	f.txUserRepo.On("FindByEmailForUpdate", mock.Anything, "a@b.com").Return(nil, repository.ErrUserNotFound)

	output, err := f.service.Login(context.Background(), &usecase.LoginInput{Email: "a@b.com", Password: "Passw0rd!"})

	assert.Nil(t, output)
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Invalid credentials", appErr.Message())
}

func TestAuthService_Login_WrongPasswordKeepsSessions(t *testing.T) {
	f := createTestAuthService(t)
	user := &entity.User{ID: 3, Email: "a@b.com", PasswordHash: "hashed"}

	f.inTransaction()
	f.txUserRepo.On("FindByEmailForUpdate", mock.Anything, user.Email).Return(user, nil)
	f.hasher.On("Check", "wrong", "hashed").Return(false)

	_, err := f.service.Login(context.Background(), &usecase.LoginInput{Email: user.Email, Password: "wrong"})

	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	f.txSessions.AssertNotCalled(t, "DeleteByUserID", mock.Anything, mock.Anything)
}

func TestAuthService_Login_TransactionError(t *testing.T) {
	f := createTestAuthService(t)

	f.txManager.On("Execute", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	_, err := f.service.Login(context.Background(), &usecase.LoginInput{Email: "a@b.com", Password: "x"})

	require.Error(t, err)
	assert.NotErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_Authenticate(t *testing.T) {
	sessionID := uuid.New()
	user := &entity.User{ID: 7, Email: "a@b.com"}
	claims := &service.Claims{UserID: 7, SessionID: sessionID}

	t.Run("valid token", func(t *testing.T) {
		f := createTestAuthService(t)
		session := &entity.Session{ID: sessionID, UserID: 7, Abilities: []string{entity.AbilityAll}}

		f.tokenService.On("ValidateToken", "tok").Return(claims, nil)
		f.tokenService.On("HashToken", "tok").Return("tok-hash")
		f.sessionRepo.On("FindByTokenHash", mock.Anything, "tok-hash").Return(session, nil)
		f.userRepo.On("FindByID", mock.Anything, uint(7)).Return(user, nil)

		principal, err := f.service.Authenticate(context.Background(), "tok")

		require.NoError(t, err)
		assert.Same(t, user, principal.User)
		assert.Same(t, session, principal.Session)
	})

	t.Run("missing token", func(t *testing.T) {
		f := createTestAuthService(t)

		_, err := f.service.Authenticate(context.Background(), "")

		assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
	})

	t.Run("bad signature", func(t *testing.T) {
		f := createTestAuthService(t)
		f.tokenService.On("ValidateToken", "tok").Return(nil, errors.New("signature is invalid"))

		_, err := f.service.Authenticate(context.Background(), "tok")

		assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
	})

	t.Run("revoked session", func(t *testing.T) {
		f := createTestAuthService(t)
		f.tokenService.On("ValidateToken", "tok").Return(claims, nil)
		f.tokenService.On("HashToken", "tok").Return("tok-hash")
		f.sessionRepo.On("FindByTokenHash", mock.Anything, "tok-hash").Return(nil, repository.ErrSessionNotFound)

		_, err := f.service.Authenticate(context.Background(), "tok")

		assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
	})

	t.Run("session of another user", func(t *testing.T) {
		f := createTestAuthService(t)
		f.tokenService.On("ValidateToken", "tok").Return(claims, nil)
		f.tokenService.On("HashToken", "tok").Return("tok-hash")
		f.sessionRepo.On("FindByTokenHash", mock.Anything, "tok-hash").
			Return(&entity.Session{ID: sessionID, UserID: 8}, nil)

		_, err := f.service.Authenticate(context.Background(), "tok")

		assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
	})

	t.Run("expired session is deleted", func(t *testing.T) {
		f := createTestAuthService(t)
		now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		expiredAt := now.Add(-time.Minute)
		f.service.now = func() time.Time { return now }

		f.tokenService.On("ValidateToken", "tok").Return(claims, nil)
		f.tokenService.On("HashToken", "tok").Return("tok-hash")
		f.sessionRepo.On("FindByTokenHash", mock.Anything, "tok-hash").
			Return(&entity.Session{ID: sessionID, UserID: 7, ExpiresAt: &expiredAt}, nil)
		f.sessionRepo.On("Delete", mock.Anything, sessionID).Return(nil)

		_, err := f.service.Authenticate(context.Background(), "tok")

		assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
	})

	t.Run("owner deleted", func(t *testing.T) {
		f := createTestAuthService(t)
		f.tokenService.On("ValidateToken", "tok").Return(claims, nil)
		f.tokenService.On("HashToken", "tok").Return("tok-hash")
		f.sessionRepo.On("FindByTokenHash", mock.Anything, "tok-hash").
			Return(&entity.Session{ID: sessionID, UserID: 7}, nil)
		f.userRepo.On("FindByID", mock.Anything, uint(7)).Return(nil, repository.ErrUserNotFound)

		_, err := f.service.Authenticate(context.Background(), "tok")

		assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
	})
}

func TestAuthService_Logout(t *testing.T) {
	sessionID := uuid.New()
	principal := &usecase.Principal{
		User:    &entity.User{ID: 7},
		Session: &entity.Session{ID: sessionID, UserID: 7},
	}

	t.Run("deletes the presented session", func(t *testing.T) {
		f := createTestAuthService(t)
		f.sessionRepo.On("Delete", mock.Anything, sessionID).Return(nil)

		require.NoError(t, f.service.Logout(context.Background(), principal))
	})

	t.Run("already revoked", func(t *testing.T) {
		f := createTestAuthService(t)
		f.sessionRepo.On("Delete", mock.Anything, sessionID).Return(repository.ErrSessionNotFound)

		require.NoError(t, f.service.Logout(context.Background(), principal))
	})

	t.Run("no principal", func(t *testing.T) {
		f := createTestAuthService(t)

		assert.ErrorIs(t, f.service.Logout(context.Background(), nil), domainerrors.ErrUnauthenticated)
	})
}
