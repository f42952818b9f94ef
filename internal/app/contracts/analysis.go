package contracts

import (
	"context"
	"zemedic-service/internal/app/models"
	"zemedic-service/internal/pkg/dto/requests"
	"zemedic-service/internal/pkg/dto/responses"
)

type AnalysisUsecase interface {
	AnalyzeImage(ctx context.Context, sessionData string, request *requests.AnalyzeImage) (*responses.Analysis, error)
	AnalyzeDemo(ctx context.Context, request *requests.DemoAnalyze) (*responses.Analysis, error)
	GetHistoryBySession(ctx context.Context, sessionData string) ([]responses.Analysis, error)
	GetAnalysisBySession(ctx context.Context, sessionData, analysisID string) (*responses.Analysis, error)
	GetReportBySession(ctx context.Context, sessionData, analysisID string) (*Report, error)
}

type AnalysisRepository interface {
	CreateAnalysis(ctx context.Context, analysis *models.Analysis) (analysisID string, err error)
	FindByID(ctx context.Context, analysisID string) (*models.Analysis, error)
	FindByUserID(ctx context.Context, userID string, limit int64) ([]models.Analysis, error)
	SetReportObject(ctx context.Context, analysisID, objectName string) error
	EnsureIndexes(ctx context.Context) error
}
