package reports

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
	"zemedic-service/internal/app/contracts/mocks"
	"zemedic-service/internal/app/models"
	"zemedic-service/internal/pkg/synth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func sampleAnalysis(t *testing.T) *models.Analysis {
	t.Helper()
	id, err := primitive.ObjectIDFromHex("65f0c0ffee0000000000abcd")
	require.NoError(t, err)

	result := synth.Synthesize(synth.XRay, synth.NewLCG(42))
	analysis := &models.Analysis{
		ID:              id,
		UserID:          "user-1",
		Modality:        synth.XRay,
		Seed:            42,
		Findings:        result.Findings,
		Confidence:      result.Confidence,
		Conditions:      models.NewConditions(result.Conditions),
		Recommendation:  result.Recommendation,
		Recommendations: result.Recommendations,
		Image:           models.ImageMeta{FileName: "chest.png", Format: "png", Width: 512, Height: 512},
	}
	analysis.CreatedAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return analysis
}

func TestPDFRenderer_Render(t *testing.T) {
	renderer := &pdfRenderer{now: func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }}

	data, err := renderer.Render(sampleAnalysis(t))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Greater(t, len(data), 1000)
}

func TestReportService_GetReport(t *testing.T) {
	const bucket = "zemedic"
	objectName := "reports/zemedic-report-65f0c0ffee0000000000abcd.pdf"

	t.Run("Renders, stores and caches on first use", func(t *testing.T) {
		analysis := sampleAnalysis(t)
		renderer := new(mocks.ReportRenderer)
		storage := new(mocks.Storage)
		repo := new(mocks.AnalysisRepository)
		renderer.On("Render", analysis).Return([]byte("%PDF-1.3 report"), nil).Once()
		storage.On("PutObject", mock.Anything, bucket, objectName, "application/pdf", []byte("%PDF-1.3 report")).Return(objectName, nil).Once()
		repo.On("SetReportObject", mock.Anything, analysis.ID.Hex(), objectName).Return(nil).Once()

		svc, err := NewReportService(renderer, storage, repo, bucket, 4, zap.NewNop())
		require.NoError(t, err)

		report, err := svc.GetReport(context.Background(), analysis)
		require.NoError(t, err)
		assert.Equal(t, "zemedic-report-65f0c0ffee0000000000abcd.pdf", report.FileName)
		assert.Equal(t, []byte("%PDF-1.3 report"), report.Data)

		again, err := svc.GetReport(context.Background(), analysis)
		require.NoError(t, err)
		assert.Equal(t, report.Data, again.Data)

		renderer.AssertExpectations(t)
		storage.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("Uses the stored report", func(t *testing.T) {
		analysis := sampleAnalysis(t)
		analysis.ReportObject = objectName
		renderer := new(mocks.ReportRenderer)
		storage := new(mocks.Storage)
		storage.On("GetObject", mock.Anything, bucket, objectName).Return([]byte("%PDF-stored"), nil)

		svc, err := NewReportService(renderer, storage, new(mocks.AnalysisRepository), bucket, 4, zap.NewNop())
		require.NoError(t, err)

		report, err := svc.GetReport(context.Background(), analysis)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-stored"), report.Data)
		renderer.AssertNotCalled(t, "Render", mock.Anything)
	})

	t.Run("Storage failure still returns the report", func(t *testing.T) {
		analysis := sampleAnalysis(t)
		renderer := new(mocks.ReportRenderer)
		storage := new(mocks.Storage)
		repo := new(mocks.AnalysisRepository)
		renderer.On("Render", analysis).Return([]byte("%PDF"), nil)
		storage.On("PutObject", mock.Anything, bucket, objectName, "application/pdf", mock.Anything).Return("", errors.New("bucket offline"))

		svc, err := NewReportService(renderer, storage, repo, bucket, 4, zap.NewNop())
		require.NoError(t, err)

		report, err := svc.GetReport(context.Background(), analysis)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF"), report.Data)
		repo.AssertNotCalled(t, "SetReportObject", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Render failure", func(t *testing.T) {
		analysis := sampleAnalysis(t)
		renderer := new(mocks.ReportRenderer)
		renderer.On("Render", analysis).Return(nil, errors.New("font missing"))

		svc, err := NewReportService(renderer, new(mocks.Storage), new(mocks.AnalysisRepository), bucket, 4, zap.NewNop())
		require.NoError(t, err)

		_, err = svc.GetReport(context.Background(), analysis)
		assert.Error(t, err)
	})
}
