package auth

import (
	"context"
	"testing"
	"time"
	"zemedic-service/internal/app/config"
	"zemedic-service/internal/app/contracts/mocks"
	"zemedic-service/internal/app/models"
	"zemedic-service/internal/app/services/shared/ratelimiter"
	"zemedic-service/internal/pkg/constvars"
	"zemedic-service/internal/pkg/dto/requests"
	"zemedic-service/internal/pkg/exceptions"
	"zemedic-service/internal/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type authFixture struct {
	userRepo       *mocks.UserRepository
	sessionService *mocks.SessionService
	redisRepo      *mocks.RedisRepository
	usecase        *authUsecase
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		userRepo:       new(mocks.UserRepository),
		sessionService: new(mocks.SessionService),
		redisRepo:      new(mocks.RedisRepository),
	}
	internalConfig := &config.InternalConfig{
		JWT:  config.AppJWT{Secret: "test-secret", ExpTimeInHour: 2},
		Auth: config.AppAuth{LoginMaxAttempts: 3, LoginWindowInSeconds: 60},
	}
	f.usecase = NewAuthUsecase(
		f.userRepo,
		f.sessionService,
		ratelimiter.NewResourceLimiter(f.redisRepo, zap.NewNop()),
		internalConfig,
		zap.NewNop(),
	).(*authUsecase)
	return f
}

func assertClientMessage(t *testing.T, err error, status int, message string) {
	t.Helper()
	var customErr *exceptions.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, status, customErr.StatusCode)
	assert.Equal(t, message, customErr.ClientMessage)
}

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()
	request := &requests.RegisterUser{Name: "Ada", Email: "ada@example.com", Password: "analytical-engine"}

	t.Run("Creates the user and a session", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("FindByEmail", ctx, "ada@example.com").Return(nil, nil)
		f.userRepo.On("CreateUser", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.Email == "ada@example.com" && utils.CheckPasswordHash("analytical-engine", u.Password)
		})).Return("65f0c0ffee0000000000abcd", nil)
		f.sessionService.On("CreateSession", ctx, mock.AnythingOfType("*models.Session"), 2*time.Hour).Return(nil)

		response, err := f.usecase.RegisterUser(ctx, request)
		require.NoError(t, err)
		assert.Equal(t, "bearer", response.TokenType)
		assert.Equal(t, "65f0c0ffee0000000000abcd", response.UserID)

		sessionID, err := utils.ParseJWT(response.AccessToken, "test-secret")
		require.NoError(t, err)
		created := f.sessionService.Calls[0].Arguments.Get(1).(*models.Session)
		assert.Equal(t, created.SessionID, sessionID)
		assert.Equal(t, "Ada", created.Name)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("FindByEmail", ctx, "ada@example.com").Return(&models.User{Email: "ada@example.com"}, nil)

		_, err := f.usecase.RegisterUser(ctx, request)
		assertClientMessage(t, err, constvars.StatusBadRequest, "Email already registered")
		f.userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})
}

func TestLoginUser(t *testing.T) {
	ctx := context.Background()
	hash, err := utils.HashPassword("analytical-engine")
	require.NoError(t, err)
	user := &models.User{ID: primitive.NewObjectID(), Name: "Ada", Email: "ada@example.com", Password: hash}

	t.Run("Valid credentials", func(t *testing.T) {
		f := newAuthFixture()
		f.redisRepo.On("IncrementWithTTL", ctx, mock.Anything, 61*time.Second).Return(1, nil)
		f.userRepo.On("FindByEmail", ctx, "ada@example.com").Return(user, nil)
		f.sessionService.On("CreateSession", ctx, mock.Anything, 2*time.Hour).Return(nil)

		response, err := f.usecase.LoginUser(ctx, &requests.LoginUser{Email: "ada@example.com", Password: "analytical-engine"})
		require.NoError(t, err)
		assert.Equal(t, user.ID.Hex(), response.UserID)
		assert.NotEmpty(t, response.AccessToken)
	})

	t.Run("Wrong password", func(t *testing.T) {
		f := newAuthFixture()
		f.redisRepo.On("IncrementWithTTL", ctx, mock.Anything, mock.Anything).Return(1, nil)
		f.userRepo.On("FindByEmail", ctx, "ada@example.com").Return(user, nil)

		_, err := f.usecase.LoginUser(ctx, &requests.LoginUser{Email: "ada@example.com", Password: "difference-engine"})
		assertClientMessage(t, err, constvars.StatusUnauthorized, "Incorrect email or password")
	})

	t.Run("Unknown email", func(t *testing.T) {
		f := newAuthFixture()
		f.redisRepo.On("IncrementWithTTL", ctx, mock.Anything, mock.Anything).Return(1, nil)
		f.userRepo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, nil)

		_, err := f.usecase.LoginUser(ctx, &requests.LoginUser{Email: "nobody@example.com", Password: "x"})
		assertClientMessage(t, err, constvars.StatusUnauthorized, "Incorrect email or password")
	})

	t.Run("Too many attempts", func(t *testing.T) {
		f := newAuthFixture()
		f.redisRepo.On("IncrementWithTTL", ctx, mock.Anything, mock.Anything).Return(4, nil)

		_, err := f.usecase.LoginUser(ctx, &requests.LoginUser{Email: "ada@example.com", Password: "analytical-engine"})
		assertClientMessage(t, err, constvars.StatusTooManyRequests, constvars.ErrClientTooManyRequests)
		f.userRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})
}

func TestLogoutUser(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	f.sessionService.On("ParseSessionData", ctx, "data").Return(&models.Session{SessionID: "s1"}, nil)
	f.sessionService.On("DeleteSession", ctx, "s1").Return(nil)

	require.NoError(t, f.usecase.LogoutUser(ctx, "data"))
	f.sessionService.AssertExpectations(t)
}
