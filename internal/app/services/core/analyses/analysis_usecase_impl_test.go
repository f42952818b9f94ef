package analyses

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"zemedic-service/internal/app/config"
	"zemedic-service/internal/app/contracts"
	"zemedic-service/internal/app/contracts/mocks"
	"zemedic-service/internal/app/models"
	"zemedic-service/internal/pkg/constvars"
	"zemedic-service/internal/pkg/dto/requests"
	"zemedic-service/internal/pkg/exceptions"
	"zemedic-service/internal/pkg/synth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type analysisFixture struct {
	repo      *mocks.AnalysisRepository
	sessions  *mocks.SessionService
	inspector *mocks.ImageInspector
	storage   *mocks.Storage
	publisher *mocks.EventPublisher
	reports   *mocks.ReportService
	config    *config.InternalConfig
	usecase   *analysisUsecase
}

func newAnalysisFixture() *analysisFixture {
	f := &analysisFixture{
		repo:      new(mocks.AnalysisRepository),
		sessions:  new(mocks.SessionService),
		inspector: new(mocks.ImageInspector),
		storage:   new(mocks.Storage),
		publisher: new(mocks.EventPublisher),
		reports:   new(mocks.ReportService),
		config: &config.InternalConfig{
			App:   config.App{HistoryLimit: 50},
			Minio: config.AppMinio{BucketName: "zemedic", PreSignedUrlExpiryTimeInHour: 1},
			Demo:  config.AppDemo{Enabled: true},
		},
	}
	f.usecase = NewAnalysisUsecase(f.repo, f.sessions, f.inspector, f.storage, f.publisher, f.reports, f.config, zap.NewNop()).(*analysisUsecase)
	return f
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var customErr *exceptions.CustomError
	require.ErrorAs(t, err, &customErr)
	return customErr.StatusCode
}

var owner = &models.Session{SessionID: "s1", UserID: "user-1"}

func TestAnalyzeImage(t *testing.T) {
	ctx := context.Background()
	seed := int64(42)
	analysisID := primitive.NewObjectID().Hex()
	request := func() *requests.AnalyzeImage {
		return &requests.AnalyzeImage{
			Modality:    synth.XRay,
			FileName:    "chest.PNG",
			ContentType: "image/png",
			Data:        []byte("png-bytes"),
			Seed:        &seed,
		}
	}
	inspected := &contracts.InspectedImage{
		Meta:      models.ImageMeta{FileName: "chest.PNG", Format: "png", Width: 200, Height: 100},
		Thumbnail: []byte("thumb"),
	}

	t.Run("Stores the upload and the analysis", func(t *testing.T) {
		f := newAnalysisFixture()
		f.sessions.On("ParseSessionData", ctx, "data").Return(owner, nil)
		f.inspector.On("Inspect", "chest.PNG", "image/png", []byte("png-bytes")).Return(inspected, nil)
		f.storage.On("PutObject", mock.Anything, "zemedic", mock.MatchedBy(func(name string) bool {
			return strings.HasPrefix(name, "images/user-1/") && strings.HasSuffix(name, ".png")
		}), "image/png", []byte("png-bytes")).Return("etag", nil).Once()
		f.storage.On("PutObject", mock.Anything, "zemedic", mock.MatchedBy(func(name string) bool {
			return strings.HasPrefix(name, "thumbnails/user-1/")
		}), "image/png", []byte("thumb")).Return("etag", nil).Once()
		f.repo.On("CreateAnalysis", ctx, mock.AnythingOfType("*models.Analysis")).Return(analysisID, nil)
		f.publisher.On("PublishAnalysisCompleted", ctx, mock.AnythingOfType("*models.AnalysisCompletedEvent")).Return(nil)
		f.storage.On("GetObjectUrlWithExpiryTime", ctx, "zemedic", mock.Anything, time.Hour).Return("https://minio/signed", nil)

		response, err := f.usecase.AnalyzeImage(ctx, "data", request())
		require.NoError(t, err)

		expected := synth.Synthesize(synth.XRay, synth.NewLCG(seed))
		assert.Equal(t, analysisID, response.ID)
		assert.Equal(t, synth.XRay, response.Type)
		assert.Equal(t, expected.Findings, response.Findings)
		assert.Equal(t, expected.Confidence, response.Confidence)
		assert.Equal(t, expected.Conditions, response.Conditions)
		assert.Equal(t, seed, response.Seed)
		assert.Equal(t, "https://minio/signed", response.ImageURL)
		assert.Equal(t, "https://minio/signed", response.ThumbnailURL)
		require.NotNil(t, response.Image)
		assert.Equal(t, 200, response.Image.Width)

		saved := f.repo.Calls[0].Arguments.Get(1).(*models.Analysis)
		assert.Equal(t, "user-1", saved.UserID)
		assert.False(t, saved.CreatedAt.IsZero())

		event := f.publisher.Calls[0].Arguments.Get(1).(*models.AnalysisCompletedEvent)
		assert.Equal(t, analysisID, event.AnalysisID)
		assert.Equal(t, expected.Primary().ID, event.Primary)
		f.storage.AssertExpectations(t)
	})

	t.Run("Publish failure does not fail the request", func(t *testing.T) {
		f := newAnalysisFixture()
		f.sessions.On("ParseSessionData", ctx, "data").Return(owner, nil)
		f.inspector.On("Inspect", mock.Anything, mock.Anything, mock.Anything).Return(inspected, nil)
		f.storage.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("etag", nil)
		f.repo.On("CreateAnalysis", ctx, mock.Anything).Return(analysisID, nil)
		f.publisher.On("PublishAnalysisCompleted", ctx, mock.Anything).Return(errors.New("breaker open"))
		f.storage.On("GetObjectUrlWithExpiryTime", ctx, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("offline"))

		response, err := f.usecase.AnalyzeImage(ctx, "data", request())
		require.NoError(t, err)
		assert.Equal(t, analysisID, response.ID)
		assert.Empty(t, response.ImageURL)
	})

	t.Run("Undecodable upload", func(t *testing.T) {
		f := newAnalysisFixture()
		f.sessions.On("ParseSessionData", ctx, "data").Return(owner, nil)
		f.inspector.On("Inspect", mock.Anything, mock.Anything, mock.Anything).Return(nil, exceptions.ErrImageDecode(errors.New("bad")))

		_, err := f.usecase.AnalyzeImage(ctx, "data", request())
		assert.Equal(t, constvars.StatusBadRequest, statusOf(t, err))
		f.repo.AssertNotCalled(t, "CreateAnalysis", mock.Anything, mock.Anything)
	})

	t.Run("Upload failure stops before saving", func(t *testing.T) {
		f := newAnalysisFixture()
		f.sessions.On("ParseSessionData", ctx, "data").Return(owner, nil)
		f.inspector.On("Inspect", mock.Anything, mock.Anything, mock.Anything).Return(inspected, nil)
		f.storage.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("", exceptions.ErrMinioCreateObject(errors.New("down"), "zemedic"))

		_, err := f.usecase.AnalyzeImage(ctx, "data", request())
		assert.Equal(t, constvars.StatusInternalServerError, statusOf(t, err))
		f.repo.AssertNotCalled(t, "CreateAnalysis", mock.Anything, mock.Anything)
	})
}

func TestAnalyzeDemo(t *testing.T) {
	ctx := context.Background()
	seed := int64(7)

	t.Run("Synthesizes without persisting", func(t *testing.T) {
		f := newAnalysisFixture()
		f.usecase.now = func() time.Time { return time.UnixMilli(1700000000123) }

		response, err := f.usecase.AnalyzeDemo(ctx, &requests.DemoAnalyze{Modality: synth.Skin, Seed: &seed})
		require.NoError(t, err)
		assert.Equal(t, "demo-1700000000123", response.ID)
		assert.Equal(t, synth.Synthesize(synth.Skin, synth.NewLCG(seed)).Findings, response.Findings)
		assert.Nil(t, response.Image)
		f.repo.AssertNotCalled(t, "CreateAnalysis", mock.Anything, mock.Anything)
	})

	t.Run("Disabled", func(t *testing.T) {
		f := newAnalysisFixture()
		f.config.Demo.Enabled = false
		_, err := f.usecase.AnalyzeDemo(ctx, &requests.DemoAnalyze{Modality: synth.Skin})
		assert.Equal(t, constvars.StatusNotFound, statusOf(t, err))
	})

	t.Run("Latency respects cancellation", func(t *testing.T) {
		f := newAnalysisFixture()
		f.config.Demo.SimulatedLatencyInMs = 60000
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := f.usecase.AnalyzeDemo(cctx, &requests.DemoAnalyze{Modality: synth.CT})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestGetHistoryBySession(t *testing.T) {
	ctx := context.Background()
	f := newAnalysisFixture()
	newer := models.Analysis{ID: primitive.NewObjectID(), UserID: "user-1", Modality: synth.CT, ImageObject: "images/user-1/a.dcm"}
	newer.CreatedAt = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	older := models.Analysis{ID: primitive.NewObjectID(), UserID: "user-1", Modality: synth.XRay}
	older.CreatedAt = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	f.sessions.On("ParseSessionData", ctx, "data").Return(owner, nil)
	f.repo.On("FindByUserID", ctx, "user-1", int64(50)).Return([]models.Analysis{newer, older}, nil)
	f.storage.On("GetObjectUrlWithExpiryTime", ctx, "zemedic", "images/user-1/a.dcm", time.Hour).Return("https://minio/a", nil)

	history, err := f.usecase.GetHistoryBySession(ctx, "data")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, newer.ID.Hex(), history[0].ID)
	assert.Equal(t, "https://minio/a", history[0].ImageURL)
	assert.Empty(t, history[1].ImageURL)
	f.storage.AssertNumberOfCalls(t, "GetObjectUrlWithExpiryTime", 1)
}

func TestGetAnalysisBySession(t *testing.T) {
	ctx := context.Background()
	mine := &models.Analysis{ID: primitive.NewObjectID(), UserID: "user-1", Modality: synth.Skin}
	theirs := &models.Analysis{ID: primitive.NewObjectID(), UserID: "user-2", Modality: synth.Skin}

	testCases := []struct {
		name     string
		id       string
		found    *models.Analysis
		expected int
	}{
		{"Own analysis", mine.ID.Hex(), mine, 0},
		{"Missing analysis", "nope", nil, constvars.StatusNotFound},
		{"Another user's analysis", theirs.ID.Hex(), theirs, constvars.StatusForbidden},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newAnalysisFixture()
			f.sessions.On("ParseSessionData", ctx, "data").Return(owner, nil)
			f.repo.On("FindByID", ctx, tc.id).Return(tc.found, nil)

			response, err := f.usecase.GetAnalysisBySession(ctx, "data", tc.id)
			if tc.expected == 0 {
				require.NoError(t, err)
				assert.Equal(t, tc.id, response.ID)
				return
			}
			assert.Equal(t, tc.expected, statusOf(t, err))
		})
	}
}

func TestGetReportBySession(t *testing.T) {
	ctx := context.Background()
	f := newAnalysisFixture()
	mine := &models.Analysis{ID: primitive.NewObjectID(), UserID: "user-1"}
	report := &contracts.Report{FileName: "zemedic-report-x.pdf", Data: []byte("%PDF")}

	f.sessions.On("ParseSessionData", ctx, "data").Return(owner, nil)
	f.repo.On("FindByID", ctx, mine.ID.Hex()).Return(mine, nil)
	f.reports.On("GetReport", ctx, mine).Return(report, nil)

	got, err := f.usecase.GetReportBySession(ctx, "data", mine.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, report, got)
}
