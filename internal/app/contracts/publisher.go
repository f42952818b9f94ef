package contracts

import (
	"context"
	"zemedic-service/internal/app/models"
)

type EventPublisher interface {
	PublishAnalysisCompleted(ctx context.Context, event *models.AnalysisCompletedEvent) error
}
