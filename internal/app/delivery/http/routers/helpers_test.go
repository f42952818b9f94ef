package routers

import (
	"testing"
	"time"
	"zemedic-service/internal/app/config"
	"zemedic-service/internal/app/contracts/mocks"
	"zemedic-service/internal/app/delivery/http/middlewares"
	"zemedic-service/internal/pkg/utils"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testSecret      = "router-test-secret"
	testSessionData = `{"session_id":"s1","user_id":"user-1"}`
)

func newTestConfig() *config.InternalConfig {
	return &config.InternalConfig{
		App: config.App{
			EndpointPrefix:             "api",
			Version:                    "test",
			RequestTimeoutInSeconds:    5,
			RequestBodyLimitInMegabyte: 20,
			ImageMaxUploadSizeInMB:     1,
		},
		JWT:  config.AppJWT{Secret: testSecret, ExpTimeInHour: 1},
		Demo: config.AppDemo{Enabled: true, RequestsPerMinute: 60, Burst: 2, BlockTimeInSeconds: 60},
	}
}

// newAuthenticatedMiddlewares returns middlewares whose session store accepts
// the returned bearer token.
func newAuthenticatedMiddlewares(t *testing.T) (*middlewares.Middlewares, string) {
	t.Helper()
	sessionService := new(mocks.SessionService)
	sessionService.On("GetSessionData", mock.Anything, "s1").Return(testSessionData, nil)

	token, err := utils.GenerateSessionJWT("s1", testSecret, 1)
	require.NoError(t, err)

	return middlewares.NewMiddlewares(zap.NewNop(), sessionService, newTestConfig()), "Bearer " + token
}

func newTestDemoLimiter() *middlewares.RateLimiter {
	return middlewares.NewRateLimiter(60, 2, time.Minute, zap.NewNop())
}
