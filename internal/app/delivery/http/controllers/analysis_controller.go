package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"zemedic-service/internal/app/config"
	"zemedic-service/internal/app/contracts"
	"zemedic-service/internal/pkg/constvars"
	"zemedic-service/internal/pkg/dto/requests"
	"zemedic-service/internal/pkg/exceptions"
	"zemedic-service/internal/pkg/synth"
	"zemedic-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	urlParamModality   = "modality"
	urlParamAnalysisID = "id"
)

type AnalysisController struct {
	Log             *zap.Logger
	AnalysisUsecase contracts.AnalysisUsecase
	InternalConfig  *config.InternalConfig
}

func NewAnalysisController(logger *zap.Logger, analysisUsecase contracts.AnalysisUsecase, internalConfig *config.InternalConfig) *AnalysisController {
	return &AnalysisController{
		Log:             logger,
		AnalysisUsecase: analysisUsecase,
		InternalConfig:  internalConfig,
	}
}

// Analyze handles POST /analyze/{modality} with a multipart "file" and an
// optional "seed" field. CT uploads may be DICOM.
func (ctrl *AnalysisController) Analyze(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	rawModality := chi.URLParam(r, urlParamModality)
	ctrl.Log.Info("AnalysisController.Analyze called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingModalityKey, rawModality),
	)

	modality, err := synth.ParseModality(rawModality)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrUnknownModality(err, rawModality))
		return
	}

	sessionData, err := sessionDataFromRequest(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request, err := ctrl.readUpload(r, modality)
	if err != nil {
		ctrl.Log.Error("AnalysisController.Analyze invalid upload",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	result, err := ctrl.AnalysisUsecase.AnalyzeImage(ctx, sessionData, request)
	if err != nil {
		ctrl.Log.Error("AnalysisController.Analyze error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("AnalysisController.Analyze succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAnalysisIDKey, result.ID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, result)
}

func (ctrl *AnalysisController) readUpload(r *http.Request, modality synth.Modality) (*requests.AnalyzeImage, error) {
	maxUpload := ctrl.InternalConfig.App.ImageMaxUploadSizeInMB
	if err := r.ParseMultipartForm(maxUpload << 20); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, exceptions.ErrFileTooLarge(err)
		}
		return nil, exceptions.ErrCannotParseMultipartForm(err)
	}

	file, fileHeader, err := r.FormFile(constvars.UploadFormFileKey)
	if err != nil {
		return nil, exceptions.ErrFileMissing(err)
	}
	defer file.Close()

	if !utils.IsImageUpload(fileHeader, modality == synth.CT) {
		return nil, exceptions.ErrFileMustBeImage(nil)
	}
	if maxUpload > 0 && utils.IsUploadTooLarge(fileHeader, maxUpload) {
		return nil, exceptions.ErrFileTooLarge(nil)
	}

	seed, err := utils.ParseOptionalSeed(r.FormValue(constvars.UploadFormSeedKey))
	if err != nil {
		return nil, exceptions.ErrInvalidSeed(err)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, exceptions.ErrCannotParseMultipartForm(err)
	}

	contentType := fileHeader.Header.Get(constvars.HeaderContentType)
	if contentType == "" {
		contentType = constvars.MIMEOctetStream
	}

	request := &requests.AnalyzeImage{
		Modality:    modality,
		FileName:    fileHeader.Filename,
		ContentType: contentType,
		Data:        data,
		Seed:        seed,
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}
	return request, nil
}

func (ctrl *AnalysisController) GetHistoryBySession(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("AnalysisController.GetHistoryBySession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	sessionData, err := sessionDataFromRequest(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	result, err := ctrl.AnalysisUsecase.GetHistoryBySession(ctx, sessionData)
	if err != nil {
		ctrl.Log.Error("AnalysisController.GetHistoryBySession error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("AnalysisController.GetHistoryBySession succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(result)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, result)
}

func (ctrl *AnalysisController) GetAnalysisByID(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	analysisID := chi.URLParam(r, urlParamAnalysisID)
	ctrl.Log.Info("AnalysisController.GetAnalysisByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAnalysisIDKey, analysisID),
	)

	sessionData, err := sessionDataFromRequest(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	result, err := ctrl.AnalysisUsecase.GetAnalysisBySession(ctx, sessionData, analysisID)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, result)
}

func (ctrl *AnalysisController) GetReportByID(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	analysisID := chi.URLParam(r, urlParamAnalysisID)
	ctrl.Log.Info("AnalysisController.GetReportByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAnalysisIDKey, analysisID),
	)

	sessionData, err := sessionDataFromRequest(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	report, err := ctrl.AnalysisUsecase.GetReportBySession(ctx, sessionData, analysisID)
	if err != nil {
		ctrl.Log.Error("AnalysisController.GetReportByID error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("AnalysisController.GetReportByID succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingSizeKey, len(report.Data)),
	)
	utils.BuildFileResponse(w, constvars.MIMEApplicationPDF, report.FileName, report.Data)
}

// AnalyzeDemo handles the public POST /demo/analyze/{modality}. The optional
// seed comes from the query string or a form field.
func (ctrl *AnalysisController) AnalyzeDemo(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	rawModality := chi.URLParam(r, urlParamModality)
	ctrl.Log.Info("AnalysisController.AnalyzeDemo called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingModalityKey, rawModality),
	)

	modality, err := synth.ParseModality(rawModality)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrUnknownModality(err, rawModality))
		return
	}

	seed, err := utils.ParseOptionalSeed(r.FormValue(constvars.UploadFormSeedKey))
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInvalidSeed(err))
		return
	}

	request := &requests.DemoAnalyze{Modality: modality, Seed: seed}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	result, err := ctrl.AnalysisUsecase.AnalyzeDemo(ctx, request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("AnalysisController.AnalyzeDemo succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAnalysisIDKey, result.ID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, result)
}
