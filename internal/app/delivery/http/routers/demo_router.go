package routers

import (
	"zemedic-service/internal/app/delivery/http/controllers"
	"zemedic-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachDemoRoutes(router chi.Router, demoLimiter *middlewares.RateLimiter, analysisController *controllers.AnalysisController) {
	router.With(demoLimiter.Limit).Post("/analyze/{modality}", analysisController.AnalyzeDemo)
}
