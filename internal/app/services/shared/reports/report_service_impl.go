package reports

import (
	"context"
	"fmt"
	"zemedic-service/internal/app/contracts"
	"zemedic-service/internal/app/models"
	"zemedic-service/internal/pkg/constvars"
	"zemedic-service/internal/pkg/exceptions"
	"zemedic-service/internal/pkg/utils"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

type reportService struct {
	Renderer           contracts.ReportRenderer
	Storage            contracts.Storage
	AnalysisRepository contracts.AnalysisRepository
	BucketName         string
	Log                *zap.Logger
	cache              *lru.Cache[string, []byte]
}

func NewReportService(
	renderer contracts.ReportRenderer,
	storage contracts.Storage,
	analysisRepository contracts.AnalysisRepository,
	bucketName string,
	cacheSize int,
	log *zap.Logger,
) (contracts.ReportService, error) {
	if cacheSize <= 0 {
		cacheSize = 128
	}
	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create report cache: %w", err)
	}
	return &reportService{
		Renderer:           renderer,
		Storage:            storage,
		AnalysisRepository: analysisRepository,
		BucketName:         bucketName,
		Log:                log,
		cache:              cache,
	}, nil
}

// GetReport looks in the in-process cache, then object storage, and renders
// the PDF only when neither has it. A rendered report is stored for reuse;
// storage failures are logged and do not fail the request.
func (s *reportService) GetReport(ctx context.Context, analysis *models.Analysis) (*contracts.Report, error) {
	analysisID := analysis.ID.Hex()
	report := &contracts.Report{FileName: fmt.Sprintf(constvars.ReportFileNameFormat, analysisID)}

	if data, ok := s.cache.Get(analysisID); ok {
		report.Data = data
		return report, nil
	}

	if analysis.ReportObject != "" {
		data, err := s.Storage.GetObject(ctx, s.BucketName, analysis.ReportObject)
		if err != nil {
			s.Log.Warn("reportService.GetReport stored report unavailable",
				zap.String(constvars.LoggingAnalysisIDKey, analysisID),
				zap.Error(err),
			)
		} else if data != nil {
			s.cache.Add(analysisID, data)
			report.Data = data
			return report, nil
		}
	}

	data, err := s.Renderer.Render(analysis)
	if err != nil {
		return nil, exceptions.ErrReportRender(err)
	}
	s.cache.Add(analysisID, data)
	report.Data = data

	objectName := utils.GenerateReportObjectName(analysisID)
	if _, err := s.Storage.PutObject(ctx, s.BucketName, objectName, constvars.MIMEApplicationPDF, data); err != nil {
		s.Log.Warn("reportService.GetReport failed to store report",
			zap.String(constvars.LoggingObjectNameKey, objectName),
			zap.Error(err),
		)
		return report, nil
	}
	if err := s.AnalysisRepository.SetReportObject(ctx, analysisID, objectName); err != nil {
		s.Log.Warn("reportService.GetReport failed to record report object",
			zap.String(constvars.LoggingAnalysisIDKey, analysisID),
			zap.Error(err),
		)
	}
	return report, nil
}
