package routers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"zemedic-service/internal/app/contracts/mocks"
	"zemedic-service/internal/app/delivery/http/controllers"
	"zemedic-service/internal/pkg/constvars"
	"zemedic-service/internal/pkg/dto/requests"
	"zemedic-service/internal/pkg/dto/responses"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestUserRouter(t *testing.T) {
	mockUserUsecase := new(mocks.UserUsecase)
	mockAnalysisUsecase := new(mocks.AnalysisUsecase)
	middlewareInstance, bearer := newAuthenticatedMiddlewares(t)
	userController := controllers.NewUserController(zap.NewNop(), mockUserUsecase, newTestConfig())
	analysisController := controllers.NewAnalysisController(zap.NewNop(), mockAnalysisUsecase, newTestConfig())

	router := chi.NewRouter()
	attachUserRoutes(router, middlewareInstance, userController, analysisController)

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		req.Header.Set(constvars.HeaderAuthorization, bearer)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	t.Run("Get profile", func(t *testing.T) {
		mockUserUsecase.On("GetUserProfileBySession", mock.Anything, testSessionData).
			Return(&responses.UserProfile{UserID: "user-1", Name: "Ada"}, nil).Once()

		rr := serve(httptest.NewRequest(http.MethodGet, "/profile", nil))
		assert.Equal(t, http.StatusOK, rr.Code, "should return 200 OK for the profile")
		assert.Contains(t, rr.Body.String(), `"id":"user-1"`)
	})

	t.Run("Update profile with JSON", func(t *testing.T) {
		mockUserUsecase.On("UpdateUserProfileBySession", mock.Anything, testSessionData, &requests.UpdateProfile{Name: "Ada Lovelace"}).
			Return(&responses.UserProfile{UserID: "user-1", Name: "Ada Lovelace"}, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/profile", bytes.NewBufferString(`{"name":"  Ada   Lovelace "}`))
		req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
		assert.Equal(t, http.StatusOK, serve(req).Code)
	})

	t.Run("Update profile with a form", func(t *testing.T) {
		mockUserUsecase.On("UpdateUserProfileBySession", mock.Anything, testSessionData, &requests.UpdateProfile{Name: "Grace"}).
			Return(&responses.UserProfile{UserID: "user-1", Name: "Grace"}, nil).Once()

		form := url.Values{"name": {"Grace"}}
		req := httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader(form.Encode()))
		req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationForm)
		assert.Equal(t, http.StatusOK, serve(req).Code)
	})

	t.Run("Update profile with an empty name", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/profile", bytes.NewBufferString(`{"name":"   "}`))
		req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
		assert.Equal(t, http.StatusBadRequest, serve(req).Code, "should return 400 for an empty name")
	})

	t.Run("History", func(t *testing.T) {
		mockAnalysisUsecase.On("GetHistoryBySession", mock.Anything, testSessionData).
			Return([]responses.Analysis{{ID: "newer"}, {ID: "older"}}, nil).Once()

		rr := serve(httptest.NewRequest(http.MethodGet, "/history", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, strings.Index(rr.Body.String(), "newer") < strings.Index(rr.Body.String(), "older"))
	})
}
