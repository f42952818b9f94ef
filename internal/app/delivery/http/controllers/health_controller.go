package controllers

import (
	"net/http"
	"time"
	"zemedic-service/internal/app/config"
	"zemedic-service/internal/pkg/constvars"
	"zemedic-service/internal/pkg/dto/responses"
	"zemedic-service/internal/pkg/utils"
)

type HealthController struct {
	InternalConfig *config.InternalConfig
}

func NewHealthController(internalConfig *config.InternalConfig) *HealthController {
	return &HealthController{InternalConfig: internalConfig}
}

func (ctrl *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	utils.BuildSuccessResponse(w, constvars.StatusOK, responses.Health{
		Status:    constvars.HealthStatusOK,
		Version:   ctrl.InternalConfig.App.Version,
		Timestamp: time.Now().UTC(),
	})
}
