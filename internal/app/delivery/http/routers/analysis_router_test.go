package routers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"zemedic-service/internal/app/contracts"
	"zemedic-service/internal/app/contracts/mocks"
	"zemedic-service/internal/app/delivery/http/controllers"
	"zemedic-service/internal/pkg/constvars"
	"zemedic-service/internal/pkg/dto/requests"
	"zemedic-service/internal/pkg/dto/responses"
	"zemedic-service/internal/pkg/exceptions"
	"zemedic-service/internal/pkg/synth"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUpload(t *testing.T, fileName, contentType string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestAnalysisRouter(t *testing.T) {
	mockAnalysisUsecase := new(mocks.AnalysisUsecase)
	middlewareInstance, bearer := newAuthenticatedMiddlewares(t)
	analysisController := controllers.NewAnalysisController(zap.NewNop(), mockAnalysisUsecase, newTestConfig())

	router := chi.NewRouter()
	attachAnalysisRoutes(router, middlewareInstance, analysisController)

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		req.Header.Set(constvars.HeaderAuthorization, bearer)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	testCases := []struct {
		path     string
		modality synth.Modality
	}{
		{"/analyze/xray", synth.XRay},
		{"/analyze/skin", synth.Skin},
		{"/analyze/ct-scan", synth.CT},
	}
	for _, tc := range testCases {
		t.Run("Analyze "+tc.path, func(t *testing.T) {
			mockAnalysisUsecase.On("AnalyzeImage", mock.Anything, testSessionData, mock.MatchedBy(func(r *requests.AnalyzeImage) bool {
				return r.Modality == tc.modality && r.FileName == "scan.png" && r.Seed != nil && *r.Seed == 42
			})).Return(&responses.Analysis{ID: "a1", Type: tc.modality}, nil).Once()

			body, contentType := newUpload(t, "scan.png", "image/png", []byte("png"), map[string]string{"seed": "42"})
			req := httptest.NewRequest(http.MethodPost, tc.path, body)
			req.Header.Set(constvars.HeaderContentType, contentType)

			rr := serve(req)
			assert.Equal(t, http.StatusOK, rr.Code, "should return 200 OK for an image upload")
			assert.Contains(t, rr.Body.String(), `"id":"a1"`)
		})
	}

	t.Run("Analyze rejects non-image uploads", func(t *testing.T) {
		body, contentType := newUpload(t, "notes.txt", "text/plain", []byte("hello"), nil)
		req := httptest.NewRequest(http.MethodPost, "/analyze/xray", body)
		req.Header.Set(constvars.HeaderContentType, contentType)

		rr := serve(req)
		assert.Equal(t, http.StatusBadRequest, rr.Code, "should return 400 for a non-image upload")
		assert.Contains(t, rr.Body.String(), constvars.ErrClientFileMustBeImage)
	})

	t.Run("Analyze accepts DICOM only for CT", func(t *testing.T) {
		mockAnalysisUsecase.On("AnalyzeImage", mock.Anything, testSessionData, mock.MatchedBy(func(r *requests.AnalyzeImage) bool {
			return r.Modality == synth.CT && r.FileName == "head.dcm"
		})).Return(&responses.Analysis{ID: "a2"}, nil).Once()

		body, contentType := newUpload(t, "head.dcm", "application/dicom", []byte("DICM"), nil)
		req := httptest.NewRequest(http.MethodPost, "/analyze/ct-scan", body)
		req.Header.Set(constvars.HeaderContentType, contentType)
		assert.Equal(t, http.StatusOK, serve(req).Code)

		body, contentType = newUpload(t, "head.dcm", "application/dicom", []byte("DICM"), nil)
		req = httptest.NewRequest(http.MethodPost, "/analyze/xray", body)
		req.Header.Set(constvars.HeaderContentType, contentType)
		assert.Equal(t, http.StatusBadRequest, serve(req).Code)
	})

	t.Run("Analyze rejects a missing file", func(t *testing.T) {
		body := new(bytes.Buffer)
		writer := multipart.NewWriter(body)
		require.NoError(t, writer.WriteField("seed", "1"))
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/analyze/skin", body)
		req.Header.Set(constvars.HeaderContentType, writer.FormDataContentType())
		rr := serve(req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), constvars.ErrClientFileMissing)
	})

	t.Run("Analyze rejects an invalid seed", func(t *testing.T) {
		body, contentType := newUpload(t, "scan.png", "image/png", []byte("png"), map[string]string{"seed": "abc"})
		req := httptest.NewRequest(http.MethodPost, "/analyze/xray", body)
		req.Header.Set(constvars.HeaderContentType, contentType)
		assert.Equal(t, http.StatusBadRequest, serve(req).Code)
	})

	t.Run("Analyze unknown modality", func(t *testing.T) {
		body, contentType := newUpload(t, "scan.png", "image/png", []byte("png"), nil)
		req := httptest.NewRequest(http.MethodPost, "/analyze/mri", body)
		req.Header.Set(constvars.HeaderContentType, contentType)
		assert.Equal(t, http.StatusNotFound, serve(req).Code)
	})

	t.Run("Analyze rejects oversized uploads", func(t *testing.T) {
		body, contentType := newUpload(t, "big.png", "image/png", bytes.Repeat([]byte{1}, 2<<20), nil)
		req := httptest.NewRequest(http.MethodPost, "/analyze/xray", body)
		req.Header.Set(constvars.HeaderContentType, contentType)
		assert.Equal(t, http.StatusRequestEntityTooLarge, serve(req).Code)
	})

	t.Run("Analysis by id", func(t *testing.T) {
		mockAnalysisUsecase.On("GetAnalysisBySession", mock.Anything, testSessionData, "a1").
			Return(&responses.Analysis{ID: "a1"}, nil).Once()
		mockAnalysisUsecase.On("GetAnalysisBySession", mock.Anything, testSessionData, "other").
			Return(nil, exceptions.ErrAnalysisForbidden(nil, "other")).Once()
		mockAnalysisUsecase.On("GetAnalysisBySession", mock.Anything, testSessionData, "missing").
			Return(nil, exceptions.ErrAnalysisNotFound(nil, "missing")).Once()

		assert.Equal(t, http.StatusOK, serve(httptest.NewRequest(http.MethodGet, "/analysis/a1", nil)).Code)
		assert.Equal(t, http.StatusForbidden, serve(httptest.NewRequest(http.MethodGet, "/analysis/other", nil)).Code)
		assert.Equal(t, http.StatusNotFound, serve(httptest.NewRequest(http.MethodGet, "/analysis/missing", nil)).Code)
	})

	t.Run("Report download", func(t *testing.T) {
		mockAnalysisUsecase.On("GetReportBySession", mock.Anything, testSessionData, "a1").
			Return(&contracts.Report{FileName: "zemedic-report-a1.pdf", Data: []byte("%PDF-1.3")}, nil).Once()

		rr := serve(httptest.NewRequest(http.MethodGet, "/analysis/a1/report", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, constvars.MIMEApplicationPDF, rr.Header().Get(constvars.HeaderContentType))
		assert.Contains(t, rr.Header().Get(constvars.HeaderContentDisposition), "zemedic-report-a1.pdf")
		assert.Equal(t, "%PDF-1.3", rr.Body.String())
	})
}
