package routers

import (
	"zemedic-service/internal/app/delivery/http/controllers"
	"zemedic-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachAnalysisRoutes(router chi.Router, middlewares *middlewares.Middlewares, analysisController *controllers.AnalysisController) {
	router.With(middlewares.Authenticate).Post("/analyze/{modality}", analysisController.Analyze)
	router.With(middlewares.Authenticate).Get("/analysis/{id}", analysisController.GetAnalysisByID)
	router.With(middlewares.Authenticate).Get("/analysis/{id}/report", analysisController.GetReportByID)
}
