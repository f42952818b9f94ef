package analyses

import (
	"context"
	"path/filepath"
	"time"
	"zemedic-service/internal/app/config"
	"zemedic-service/internal/app/contracts"
	"zemedic-service/internal/app/models"
	"zemedic-service/internal/pkg/constvars"
	"zemedic-service/internal/pkg/dto/requests"
	"zemedic-service/internal/pkg/dto/responses"
	"zemedic-service/internal/pkg/exceptions"
	"zemedic-service/internal/pkg/synth"
	"zemedic-service/internal/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type analysisUsecase struct {
	AnalysisRepository contracts.AnalysisRepository
	SessionService     contracts.SessionService
	ImageInspector     contracts.ImageInspector
	Storage            contracts.Storage
	EventPublisher     contracts.EventPublisher
	ReportService      contracts.ReportService
	InternalConfig     *config.InternalConfig
	Log                *zap.Logger
	now                func() time.Time
}

func NewAnalysisUsecase(
	analysisRepository contracts.AnalysisRepository,
	sessionService contracts.SessionService,
	imageInspector contracts.ImageInspector,
	storage contracts.Storage,
	eventPublisher contracts.EventPublisher,
	reportService contracts.ReportService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.AnalysisUsecase {
	return &analysisUsecase{
		AnalysisRepository: analysisRepository,
		SessionService:     sessionService,
		ImageInspector:     imageInspector,
		Storage:            storage,
		EventPublisher:     eventPublisher,
		ReportService:      reportService,
		InternalConfig:     internalConfig,
		Log:                logger,
		now:                time.Now,
	}
}

func (uc *analysisUsecase) AnalyzeImage(ctx context.Context, sessionData string, request *requests.AnalyzeImage) (*responses.Analysis, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("analysisUsecase.AnalyzeImage called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingModalityKey, string(request.Modality)),
	)

	session, err := uc.SessionService.ParseSessionData(ctx, sessionData)
	if err != nil {
		uc.Log.Error("analysisUsecase.AnalyzeImage error parsing session data",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	request.UserID = session.UserID

	inspected, err := uc.ImageInspector.Inspect(request.FileName, request.ContentType, request.Data)
	if err != nil {
		uc.Log.Error("analysisUsecase.AnalyzeImage error inspecting upload",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingFileNameKey, request.FileName),
			zap.Error(err),
		)
		return nil, err
	}

	seed := seedOrNew(request.Seed)
	result := synth.Synthesize(request.Modality, synth.NewLCG(seed))
	heatmap, _ := synth.Composite(result.Conditions)

	analysis := &models.Analysis{
		UserID:          session.UserID,
		Modality:        request.Modality,
		Seed:            seed,
		Findings:        result.Findings,
		Confidence:      result.Confidence,
		Conditions:      models.NewConditions(result.Conditions),
		Recommendation:  result.Recommendation,
		Recommendations: result.Recommendations,
		Heatmap:         heatmap,
		Image:           inspected.Meta,
	}
	analysis.SetCreatedAtUpdatedAt()

	if err := uc.uploadImages(ctx, requestID, analysis, request, inspected); err != nil {
		return nil, err
	}

	analysisID, err := uc.AnalysisRepository.CreateAnalysis(ctx, analysis)
	if err != nil {
		uc.Log.Error("analysisUsecase.AnalyzeImage error saving analysis",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	analysis.ID, _ = primitive.ObjectIDFromHex(analysisID)

	event := &models.AnalysisCompletedEvent{
		AnalysisID: analysisID,
		UserID:     session.UserID,
		Modality:   string(request.Modality),
		Primary:    result.Primary().ID,
		Confidence: result.Confidence,
		CreatedAt:  analysis.CreatedAt,
	}
	if err := uc.EventPublisher.PublishAnalysisCompleted(ctx, event); err != nil {
		uc.Log.Warn("analysisUsecase.AnalyzeImage failed to publish analysis event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAnalysisIDKey, analysisID),
			zap.Error(err),
		)
	}

	response := uc.buildAnalysisResponse(ctx, analysis)
	uc.Log.Info("analysisUsecase.AnalyzeImage succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAnalysisIDKey, analysisID),
		zap.Int64(constvars.LoggingSeedKey, seed),
	)
	return response, nil
}

func (uc *analysisUsecase) uploadImages(ctx context.Context, requestID string, analysis *models.Analysis, request *requests.AnalyzeImage, inspected *contracts.InspectedImage) error {
	bucket := uc.InternalConfig.Minio.BucketName
	extension := filepath.Ext(request.FileName)
	if extension == "" {
		extension = inspected.Meta.Format
	}
	analysis.ImageObject = utils.GenerateObjectName(constvars.MinioObjectPrefixImage, request.UserID, extension)
	if len(inspected.Thumbnail) > 0 {
		analysis.ThumbnailObject = utils.GenerateObjectName(constvars.MinioObjectPrefixThumbnail, request.UserID, constvars.ThumbnailExtension)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := uc.Storage.PutObject(gctx, bucket, analysis.ImageObject, request.ContentType, request.Data)
		return err
	})
	if analysis.ThumbnailObject != "" {
		g.Go(func() error {
			_, err := uc.Storage.PutObject(gctx, bucket, analysis.ThumbnailObject, constvars.MIMEImagePNG, inspected.Thumbnail)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		uc.Log.Error("analysisUsecase.AnalyzeImage error uploading image",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingObjectNameKey, analysis.ImageObject),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// AnalyzeDemo synthesizes a result without an upload and without persisting
// it. The configured latency mimics the time a real model would take.
func (uc *analysisUsecase) AnalyzeDemo(ctx context.Context, request *requests.DemoAnalyze) (*responses.Analysis, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("analysisUsecase.AnalyzeDemo called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingModalityKey, string(request.Modality)),
	)

	if !uc.InternalConfig.Demo.Enabled {
		return nil, exceptions.ErrDemoDisabled(nil)
	}

	if latency := time.Duration(uc.InternalConfig.Demo.SimulatedLatencyInMs) * time.Millisecond; latency > 0 {
		timer := time.NewTimer(latency)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	seed := seedOrNew(request.Seed)
	result := synth.Synthesize(request.Modality, synth.NewLCG(seed))
	heatmap, _ := synth.Composite(result.Conditions)
	now := uc.now().UTC()

	response := buildResultResponse(result, heatmap, seed)
	response.ID = utils.GenerateDemoAnalysisID(now)
	response.Date = now

	uc.Log.Info("analysisUsecase.AnalyzeDemo succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAnalysisIDKey, response.ID),
		zap.Int64(constvars.LoggingSeedKey, seed),
	)
	return response, nil
}

func (uc *analysisUsecase) GetHistoryBySession(ctx context.Context, sessionData string) ([]responses.Analysis, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("analysisUsecase.GetHistoryBySession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	session, err := uc.SessionService.ParseSessionData(ctx, sessionData)
	if err != nil {
		return nil, err
	}

	analyses, err := uc.AnalysisRepository.FindByUserID(ctx, session.UserID, uc.InternalConfig.App.HistoryLimit)
	if err != nil {
		uc.Log.Error("analysisUsecase.GetHistoryBySession error finding analyses",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingUserIDKey, session.UserID),
			zap.Error(err),
		)
		return nil, err
	}

	history := make([]responses.Analysis, 0, len(analyses))
	for i := range analyses {
		history = append(history, *uc.buildAnalysisResponse(ctx, &analyses[i]))
	}

	uc.Log.Info("analysisUsecase.GetHistoryBySession succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, session.UserID),
		zap.Int(constvars.LoggingCountKey, len(history)),
	)
	return history, nil
}

func (uc *analysisUsecase) GetAnalysisBySession(ctx context.Context, sessionData, analysisID string) (*responses.Analysis, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("analysisUsecase.GetAnalysisBySession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAnalysisIDKey, analysisID),
	)

	analysis, err := uc.ownedAnalysis(ctx, requestID, sessionData, analysisID)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("analysisUsecase.GetAnalysisBySession succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAnalysisIDKey, analysisID),
	)
	return uc.buildAnalysisResponse(ctx, analysis), nil
}

func (uc *analysisUsecase) GetReportBySession(ctx context.Context, sessionData, analysisID string) (*contracts.Report, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("analysisUsecase.GetReportBySession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAnalysisIDKey, analysisID),
	)

	analysis, err := uc.ownedAnalysis(ctx, requestID, sessionData, analysisID)
	if err != nil {
		return nil, err
	}

	report, err := uc.ReportService.GetReport(ctx, analysis)
	if err != nil {
		uc.Log.Error("analysisUsecase.GetReportBySession error building report",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAnalysisIDKey, analysisID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("analysisUsecase.GetReportBySession succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAnalysisIDKey, analysisID),
		zap.Int(constvars.LoggingSizeKey, len(report.Data)),
	)
	return report, nil
}

// ownedAnalysis loads an analysis and checks that it belongs to the session
// user: 404 when it does not exist, 403 when another user owns it.
func (uc *analysisUsecase) ownedAnalysis(ctx context.Context, requestID, sessionData, analysisID string) (*models.Analysis, error) {
	session, err := uc.SessionService.ParseSessionData(ctx, sessionData)
	if err != nil {
		return nil, err
	}

	analysis, err := uc.AnalysisRepository.FindByID(ctx, analysisID)
	if err != nil {
		uc.Log.Error("analysisUsecase error finding analysis",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAnalysisIDKey, analysisID),
			zap.Error(err),
		)
		return nil, err
	}
	if analysis == nil {
		return nil, exceptions.ErrAnalysisNotFound(nil, analysisID)
	}
	if analysis.UserID != session.UserID {
		uc.Log.Warn("analysisUsecase access to another user's analysis",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAnalysisIDKey, analysisID),
			zap.String(constvars.LoggingUserIDKey, session.UserID),
		)
		return nil, exceptions.ErrAnalysisForbidden(nil, analysisID)
	}
	return analysis, nil
}

func (uc *analysisUsecase) buildAnalysisResponse(ctx context.Context, analysis *models.Analysis) *responses.Analysis {
	response := buildResultResponse(analysis.Result(), analysis.Heatmap, analysis.Seed)
	response.ID = analysis.ID.Hex()
	response.Date = analysis.CreatedAt.UTC()
	response.ImageURL = uc.presign(ctx, analysis.ImageObject)
	response.ThumbnailURL = uc.presign(ctx, analysis.ThumbnailObject)
	response.Image = buildImageResponse(analysis.Image)
	return response
}

// presign returns "" for an empty object name or when the URL cannot be built.
func (uc *analysisUsecase) presign(ctx context.Context, objectName string) string {
	if objectName == "" {
		return ""
	}
	expiry := time.Duration(uc.InternalConfig.Minio.PreSignedUrlExpiryTimeInHour) * time.Hour
	url, err := uc.Storage.GetObjectUrlWithExpiryTime(ctx, uc.InternalConfig.Minio.BucketName, objectName, expiry)
	if err != nil {
		uc.Log.Warn("analysisUsecase failed to presign object",
			zap.String(constvars.LoggingObjectNameKey, objectName),
			zap.Error(err),
		)
		return ""
	}
	return url
}

func buildResultResponse(result synth.Result, heatmap string, seed int64) *responses.Analysis {
	return &responses.Analysis{
		Type:            result.Modality,
		Predictions:     result.Predictions(),
		Recommendations: result.Recommendations,
		Findings:        result.Findings,
		Confidence:      result.Confidence,
		Conditions:      result.Conditions,
		Recommendation:  result.Recommendation,
		Heatmap:         heatmap,
		Seed:            seed,
	}
}

func buildImageResponse(meta models.ImageMeta) *responses.Image {
	if meta.Format == "" {
		return nil
	}
	image := &responses.Image{
		FileName: meta.FileName,
		Width:    meta.Width,
		Height:   meta.Height,
		Format:   meta.Format,
	}
	if d := meta.DICOM; d != nil {
		image.DICOM = &responses.DICOM{
			Modality:         d.Modality,
			BodyPartExamined: d.BodyPartExamined,
			StudyDate:        d.StudyDate,
			StudyDescription: d.StudyDescription,
			Manufacturer:     d.Manufacturer,
		}
	}
	return image
}

func seedOrNew(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	return synth.NewSeed()
}
