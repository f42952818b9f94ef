package routers

import (
	"zemedic-service/internal/app/delivery/http/controllers"
	"zemedic-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachUserRoutes(router chi.Router, middlewares *middlewares.Middlewares, userController *controllers.UserController, analysisController *controllers.AnalysisController) {
	router.With(middlewares.Authenticate).Get("/profile", userController.GetUserProfileBySession)
	router.With(middlewares.Authenticate).Put("/profile", userController.UpdateUserBySession)
	router.With(middlewares.Authenticate).Get("/history", analysisController.GetHistoryBySession)
}
