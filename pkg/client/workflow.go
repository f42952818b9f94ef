package client

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"zemedic-service/internal/pkg/constvars"
	"zemedic-service/internal/pkg/dto/responses"
	"zemedic-service/internal/pkg/synth"
	"zemedic-service/internal/pkg/utils"
)

const DefaultLatency = 3 * time.Second

type State int

const (
	StateIdle State = iota
	StateUploading
	StateAnalyzing
	StateDisplayed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateUploading:
		return "uploading"
	case StateAnalyzing:
		return "analyzing"
	case StateDisplayed:
		return "displayed"
	default:
		return "unknown"
	}
}

// AnalyzeFunc produces the result for a submitted upload.
type AnalyzeFunc func(ctx context.Context, modality synth.Modality, upload Upload) (*responses.Analysis, error)

// Workflow is the per-modality analysis flow:
// Idle -> Uploading -> Analyzing -> Displayed -> Idle, with Uploading -> Idle
// when the file is cleared.
type Workflow struct {
	modality synth.Modality
	analyze  AnalyzeFunc
	latency  time.Duration
	sleep    func(time.Duration)

	mu     sync.Mutex
	state  State
	upload *Upload
	result *responses.Analysis
}

type WorkflowOption func(*Workflow)

func WithLatency(latency time.Duration) WorkflowOption {
	return func(w *Workflow) {
		w.latency = latency
	}
}

func withSleep(sleep func(time.Duration)) WorkflowOption {
	return func(w *Workflow) {
		w.sleep = sleep
	}
}

func NewWorkflow(modality synth.Modality, analyze AnalyzeFunc, opts ...WorkflowOption) *Workflow {
	w := &Workflow{
		modality: modality,
		analyze:  analyze,
		latency:  DefaultLatency,
		sleep:    time.Sleep,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// LocalAnalyzer synthesizes the result in process, the way demo mode works
// without a server.
func LocalAnalyzer(now func() time.Time) AnalyzeFunc {
	return func(_ context.Context, modality synth.Modality, upload Upload) (*responses.Analysis, error) {
		seed := synth.NewSeed()
		if upload.Seed != nil {
			seed = *upload.Seed
		}
		result := synth.Synthesize(modality, synth.NewLCG(seed))
		heatmap, _ := synth.Composite(result.Conditions)
		date := now()
		return &responses.Analysis{
			ID:              utils.GenerateDemoAnalysisID(date),
			Type:            modality,
			Date:            date,
			Image:           &responses.Image{FileName: filepath.Base(upload.FileName)},
			Predictions:     result.Predictions(),
			Recommendations: result.Recommendations,
			Findings:        result.Findings,
			Confidence:      result.Confidence,
			Conditions:      result.Conditions,
			Recommendation:  result.Recommendation,
			Heatmap:         heatmap,
			Seed:            seed,
		}, nil
	}
}

func (w *Workflow) Latency() time.Duration {
	return w.latency
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workflow) Result() *responses.Analysis {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

// Select picks a file. A non-image file is rejected with ErrNotImage and the
// state is left unchanged.
func (w *Workflow) Select(upload Upload) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateIdle && w.state != StateUploading {
		return &InvalidTransitionError{From: w.state, Event: "select"}
	}
	if len(upload.Data) == 0 {
		return ErrEmptyUpload
	}
	if !isImage(upload, w.modality == synth.CT) {
		return ErrNotImage
	}
	w.upload = &upload
	w.state = StateUploading
	return nil
}

func (w *Workflow) Clear() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateUploading {
		return &InvalidTransitionError{From: w.state, Event: "clear"}
	}
	w.upload = nil
	w.state = StateIdle
	return nil
}

// Submit runs the analysis. The simulated latency is not cancellable; ctx is
// only passed to the analyzer. On failure the workflow returns to Uploading
// so the same file can be submitted again.
func (w *Workflow) Submit(ctx context.Context) (*responses.Analysis, error) {
	w.mu.Lock()
	switch w.state {
	case StateAnalyzing:
		w.mu.Unlock()
		return nil, ErrAnalysisInProgress
	case StateUploading:
	default:
		from := w.state
		w.mu.Unlock()
		return nil, &InvalidTransitionError{From: from, Event: "submit"}
	}
	upload := *w.upload
	w.state = StateAnalyzing
	w.mu.Unlock()

	w.sleep(w.latency)
	result, err := w.analyze(ctx, w.modality, upload)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.state = StateUploading
		return nil, err
	}
	w.result = result
	w.state = StateDisplayed
	return result, nil
}

func (w *Workflow) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateDisplayed {
		return &InvalidTransitionError{From: w.state, Event: "reset"}
	}
	w.upload = nil
	w.result = nil
	w.state = StateIdle
	return nil
}

func isImage(upload Upload, allowDICOM bool) bool {
	contentType := UploadContentType(upload)
	if strings.HasPrefix(contentType, constvars.MIMEImagePrefix) {
		return true
	}
	return allowDICOM && contentType == constvars.MIMEApplicationDICOM
}
