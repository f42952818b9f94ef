// Package mocks holds testify mocks of the contracts interfaces.
package mocks

import (
	"context"
	"time"
	"zemedic-service/internal/app/contracts"
	"zemedic-service/internal/app/models"
	"zemedic-service/internal/pkg/dto/requests"
	"zemedic-service/internal/pkg/dto/responses"

	"github.com/stretchr/testify/mock"
)

type RedisRepository struct{ mock.Mock }

func (m *RedisRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *RedisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	return m.Called(ctx, key, value, exp).Error(0)
}

func (m *RedisRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *RedisRepository) IncrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int, error) {
	args := m.Called(ctx, key, ttl)
	return args.Int(0), args.Error(1)
}

type SessionService struct{ mock.Mock }

func (m *SessionService) CreateSession(ctx context.Context, session *models.Session, exp time.Duration) error {
	return m.Called(ctx, session, exp).Error(0)
}

func (m *SessionService) ParseSessionData(ctx context.Context, sessionData string) (*models.Session, error) {
	args := m.Called(ctx, sessionData)
	session, _ := args.Get(0).(*models.Session)
	return session, args.Error(1)
}

func (m *SessionService) GetSessionData(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}

func (m *SessionService) DeleteSession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

type UserRepository struct{ mock.Mock }

func (m *UserRepository) CreateUser(ctx context.Context, userModel *models.User) (string, error) {
	args := m.Called(ctx, userModel)
	return args.String(0), args.Error(1)
}

func (m *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepository) FindByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepository) UpdateUser(ctx context.Context, userModel *models.User) error {
	return m.Called(ctx, userModel).Error(0)
}

func (m *UserRepository) EnsureIndexes(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type AnalysisRepository struct{ mock.Mock }

func (m *AnalysisRepository) CreateAnalysis(ctx context.Context, analysis *models.Analysis) (string, error) {
	args := m.Called(ctx, analysis)
	return args.String(0), args.Error(1)
}

func (m *AnalysisRepository) FindByID(ctx context.Context, analysisID string) (*models.Analysis, error) {
	args := m.Called(ctx, analysisID)
	analysis, _ := args.Get(0).(*models.Analysis)
	return analysis, args.Error(1)
}

func (m *AnalysisRepository) FindByUserID(ctx context.Context, userID string, limit int64) ([]models.Analysis, error) {
	args := m.Called(ctx, userID, limit)
	analyses, _ := args.Get(0).([]models.Analysis)
	return analyses, args.Error(1)
}

func (m *AnalysisRepository) SetReportObject(ctx context.Context, analysisID, objectName string) error {
	return m.Called(ctx, analysisID, objectName).Error(0)
}

func (m *AnalysisRepository) EnsureIndexes(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type Storage struct{ mock.Mock }

func (m *Storage) PutObject(ctx context.Context, bucketName, objectName, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, bucketName, objectName, contentType, data)
	return args.String(0), args.Error(1)
}

func (m *Storage) GetObject(ctx context.Context, bucketName, objectName string) ([]byte, error) {
	args := m.Called(ctx, bucketName, objectName)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *Storage) GetObjectUrlWithExpiryTime(ctx context.Context, bucketName, objectName string, expiryTime time.Duration) (string, error) {
	args := m.Called(ctx, bucketName, objectName, expiryTime)
	return args.String(0), args.Error(1)
}

type EventPublisher struct{ mock.Mock }

func (m *EventPublisher) PublishAnalysisCompleted(ctx context.Context, event *models.AnalysisCompletedEvent) error {
	return m.Called(ctx, event).Error(0)
}

type ReportRenderer struct{ mock.Mock }

func (m *ReportRenderer) Render(analysis *models.Analysis) ([]byte, error) {
	args := m.Called(analysis)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

type ReportService struct{ mock.Mock }

func (m *ReportService) GetReport(ctx context.Context, analysis *models.Analysis) (*contracts.Report, error) {
	args := m.Called(ctx, analysis)
	report, _ := args.Get(0).(*contracts.Report)
	return report, args.Error(1)
}

type ImageInspector struct{ mock.Mock }

func (m *ImageInspector) Inspect(fileName, contentType string, data []byte) (*contracts.InspectedImage, error) {
	args := m.Called(fileName, contentType, data)
	image, _ := args.Get(0).(*contracts.InspectedImage)
	return image, args.Error(1)
}

type AuthUsecase struct{ mock.Mock }

func (m *AuthUsecase) RegisterUser(ctx context.Context, request *requests.RegisterUser) (*responses.LoginUser, error) {
	args := m.Called(ctx, request)
	response, _ := args.Get(0).(*responses.LoginUser)
	return response, args.Error(1)
}

func (m *AuthUsecase) LoginUser(ctx context.Context, request *requests.LoginUser) (*responses.LoginUser, error) {
	args := m.Called(ctx, request)
	response, _ := args.Get(0).(*responses.LoginUser)
	return response, args.Error(1)
}

func (m *AuthUsecase) LogoutUser(ctx context.Context, sessionData string) error {
	return m.Called(ctx, sessionData).Error(0)
}

type UserUsecase struct{ mock.Mock }

func (m *UserUsecase) GetUserProfileBySession(ctx context.Context, sessionData string) (*responses.UserProfile, error) {
	args := m.Called(ctx, sessionData)
	response, _ := args.Get(0).(*responses.UserProfile)
	return response, args.Error(1)
}

func (m *UserUsecase) UpdateUserProfileBySession(ctx context.Context, sessionData string, request *requests.UpdateProfile) (*responses.UserProfile, error) {
	args := m.Called(ctx, sessionData, request)
	response, _ := args.Get(0).(*responses.UserProfile)
	return response, args.Error(1)
}

type AnalysisUsecase struct{ mock.Mock }

func (m *AnalysisUsecase) AnalyzeImage(ctx context.Context, sessionData string, request *requests.AnalyzeImage) (*responses.Analysis, error) {
	args := m.Called(ctx, sessionData, request)
	response, _ := args.Get(0).(*responses.Analysis)
	return response, args.Error(1)
}

func (m *AnalysisUsecase) AnalyzeDemo(ctx context.Context, request *requests.DemoAnalyze) (*responses.Analysis, error) {
	args := m.Called(ctx, request)
	response, _ := args.Get(0).(*responses.Analysis)
	return response, args.Error(1)
}

func (m *AnalysisUsecase) GetHistoryBySession(ctx context.Context, sessionData string) ([]responses.Analysis, error) {
	args := m.Called(ctx, sessionData)
	response, _ := args.Get(0).([]responses.Analysis)
	return response, args.Error(1)
}

func (m *AnalysisUsecase) GetAnalysisBySession(ctx context.Context, sessionData, analysisID string) (*responses.Analysis, error) {
	args := m.Called(ctx, sessionData, analysisID)
	response, _ := args.Get(0).(*responses.Analysis)
	return response, args.Error(1)
}

func (m *AnalysisUsecase) GetReportBySession(ctx context.Context, sessionData, analysisID string) (*contracts.Report, error) {
	args := m.Called(ctx, sessionData, analysisID)
	report, _ := args.Get(0).(*contracts.Report)
	return report, args.Error(1)
}
