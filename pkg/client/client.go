// Package client is a Go client for the ZemedicAI REST API together with the
// local state a command line front end needs: a persisted session, the demo
// mode flag and the upload/analyze workflow.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"zemedic-service/internal/pkg/constvars"
	"zemedic-service/internal/pkg/dto/requests"
	"zemedic-service/internal/pkg/dto/responses"
	"zemedic-service/internal/pkg/synth"

	"github.com/goccy/go-json"
)

const DefaultTimeout = 30 * time.Second

// Upload is a file selected for analysis.
type Upload struct {
	FileName string
	Data     []byte
	Seed     *int64
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New returns a client for the API rooted at baseURL, e.g.
// "http://localhost:8080/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithSession returns a copy of c that authenticates as session.
func (c *Client) WithSession(session *Session) *Client {
	clone := *c
	clone.session = session
	return &clone
}

func (c *Client) Session() *Session {
	return c.session
}

func (c *Client) Health(ctx context.Context) (*responses.Health, error) {
	out := new(responses.Health)
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, false, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	out := new(responses.LoginUser)
	body := &requests.RegisterUser{Name: name, Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", body, false, out); err != nil {
		return nil, err
	}
	return newSession(out), nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	out := new(responses.LoginUser)
	body := &requests.LoginUser{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", body, false, out); err != nil {
		return nil, err
	}
	return newSession(out), nil
}

// Logout ends the server session. The caller discards its Session afterwards.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, true, &responses.Message{})
}

func (c *Client) Profile(ctx context.Context) (*responses.UserProfile, error) {
	out := new(responses.UserProfile)
	if err := c.doJSON(ctx, http.MethodGet, "/user/profile", nil, true, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, name string) (*responses.UserProfile, error) {
	out := new(responses.UserProfile)
	body := &requests.UpdateProfile{Name: name}
	if err := c.doJSON(ctx, http.MethodPut, "/user/profile", body, true, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) History(ctx context.Context) ([]responses.Analysis, error) {
	var out []responses.Analysis
	if err := c.doJSON(ctx, http.MethodGet, "/user/history", nil, true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Analysis(ctx context.Context, id string) (*responses.Analysis, error) {
	out := new(responses.Analysis)
	if err := c.doJSON(ctx, http.MethodGet, "/analysis/"+url.PathEscape(id), nil, true, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Report downloads the PDF report of an analysis.
func (c *Client) Report(ctx context.Context, id string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/analysis/"+url.PathEscape(id)+"/report", nil, true)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

// Analyze uploads an image for the modality and returns the stored result.
func (c *Client) Analyze(ctx context.Context, modality synth.Modality, upload Upload) (*responses.Analysis, error) {
	if len(upload.Data) == 0 {
		return nil, ErrEmptyUpload
	}

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	partHeader := make(textproto.MIMEHeader)
	partHeader.Set(constvars.HeaderContentDisposition,
		fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(upload.FileName)))
	partHeader.Set(constvars.HeaderContentType, UploadContentType(upload))
	part, err := writer.CreatePart(partHeader)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(upload.Data); err != nil {
		return nil, err
	}
	if upload.Seed != nil {
		if err := writer.WriteField("seed", strconv.FormatInt(*upload.Seed, 10)); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/analyze/"+modality.PathName(), body, true)
	if err != nil {
		return nil, err
	}
	req.Header.Set(constvars.HeaderContentType, writer.FormDataContentType())

	out := new(responses.Analysis)
	if err := c.send(req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// AnalyzeDemo calls the public demo endpoint. Nothing is stored server side.
func (c *Client) AnalyzeDemo(ctx context.Context, modality synth.Modality, seed *int64) (*responses.Analysis, error) {
	form := url.Values{}
	if seed != nil {
		form.Set("seed", strconv.FormatInt(*seed, 10))
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/demo/analyze/"+modality.PathName(), strings.NewReader(form.Encode()), false)
	if err != nil {
		return nil, err
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationForm)

	out := new(responses.Analysis)
	if err := c.send(req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadContentType picks the part content type from the file extension,
// falling back to sniffing the bytes.
func UploadContentType(upload Upload) string {
	ext := strings.ToLower(filepath.Ext(upload.FileName))
	if ext == ".dcm" {
		return constvars.MIMEApplicationDICOM
	}
	if contentType := mime.TypeByExtension(ext); contentType != "" {
		return contentType
	}
	return http.DetectContentType(upload.Data)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in interface{}, authenticated bool, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, path, body, authenticated)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	}
	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, authenticated bool) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if authenticated {
		if !c.session.valid() {
			return nil, ErrNoSession
		}
		req.Header.Set(constvars.HeaderAuthorization, c.session.authorization())
	}
	return req, nil
}

func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Detail != "" {
		apiErr.Detail = payload.Detail
	} else {
		apiErr.Detail = strings.TrimSpace(string(raw))
	}
	if apiErr.Detail == "" {
		apiErr.Detail = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
