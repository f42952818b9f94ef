package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"zemedic-service/internal/pkg/constvars"
	"zemedic-service/internal/pkg/synth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL + "/api")
}

func TestClientLogin(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, constvars.MIMEApplicationJSON, r.Header.Get(constvars.HeaderContentType))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"email":"ada@example.com","password":"secret-pass"}`, string(body))
		w.Write([]byte(`{"access_token":"tok","token_type":"bearer","user_id":"u1","email":"ada@example.com","name":"Ada"}`))
	})

	session, err := c.Login(context.Background(), "ada@example.com", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, &Session{AccessToken: "tok", TokenType: "bearer", UserID: "u1", Email: "ada@example.com", Name: "Ada"}, session)
}

func TestClientAPIError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status_code":401,"success":false,"detail":"Incorrect email or password"}`))
	})

	_, err := c.Login(context.Background(), "ada@example.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Incorrect email or password", apiErr.Detail)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
}

func TestClientAPIErrorWithoutJSON(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Health(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Detail)
}

func TestClientRequiresSession(t *testing.T) {
	c := New("http://127.0.0.1:1/api")

	_, err := c.History(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
	assert.ErrorIs(t, c.Logout(context.Background()), ErrNoSession)
}

func TestClientAnalyze(t *testing.T) {
	seed := int64(42)
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/analyze/ct-scan", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get(constvars.HeaderAuthorization))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "scan.png", hdr.Filename)
		assert.Equal(t, constvars.MIMEImagePNG, hdr.Header.Get(constvars.HeaderContentType))
		assert.Equal(t, "42", r.FormValue("seed"))

		w.Write([]byte(`{"id":"a1","type":"ct","confidence":88,"seed":42,"predictions":[],"recommendations":[],"conditions":[]}`))
	})
	c = c.WithSession(&Session{AccessToken: "tok", UserID: "u1"})

	analysis, err := c.Analyze(context.Background(), synth.CT, Upload{FileName: "/tmp/scan.png", Data: pngHeader, Seed: &seed})
	require.NoError(t, err)
	assert.Equal(t, "a1", analysis.ID)
	assert.Equal(t, synth.CT, analysis.Type)
	assert.Equal(t, 88, analysis.Confidence)
}

func TestClientAnalyzeEmptyUpload(t *testing.T) {
	c := New("http://127.0.0.1:1/api").WithSession(&Session{AccessToken: "tok", UserID: "u1"})

	_, err := c.Analyze(context.Background(), synth.XRay, Upload{FileName: "x.png"})
	assert.ErrorIs(t, err, ErrEmptyUpload)
}

func TestClientAnalyzeDemo(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/demo/analyze/skin", r.URL.Path)
		assert.Empty(t, r.Header.Get(constvars.HeaderAuthorization))
		assert.Equal(t, "7", r.FormValue("seed"))
		w.Write([]byte(`{"id":"demo-1","type":"skin","seed":7}`))
	})

	seed := int64(7)
	analysis, err := c.AnalyzeDemo(context.Background(), synth.Skin, &seed)
	require.NoError(t, err)
	assert.Equal(t, "demo-1", analysis.ID)
}

func TestClientReport(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/analysis/a%201/report", r.URL.EscapedPath())
		w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationPDF)
		w.Write([]byte("%PDF-1.3"))
	})
	c = c.WithSession(&Session{AccessToken: "tok", UserID: "u1"})

	pdf, err := c.Report(context.Background(), "a 1")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(pdf))
}

func TestUploadContentType(t *testing.T) {
	tests := []struct {
		name   string
		upload Upload
		want   string
	}{
		{"png extension", Upload{FileName: "a.PNG"}, constvars.MIMEImagePNG},
		{"dicom extension", Upload{FileName: "scan.dcm"}, constvars.MIMEApplicationDICOM},
		{"sniffed", Upload{FileName: "noext", Data: pngHeader}, constvars.MIMEImagePNG},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UploadContentType(tt.upload))
		})
	}
}
