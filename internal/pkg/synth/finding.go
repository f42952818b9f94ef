package synth

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

type Modality string

const (
	XRay Modality = "xray"
	CT   Modality = "ct"
	Skin Modality = "skin"
)

// Modalities lists every supported modality in display order.
var Modalities = []Modality{XRay, CT, Skin}

// ParseModality accepts the identifiers used by the REST paths as well as the
// short names, so "ct-scan" and "ct" both resolve to CT.
func ParseModality(s string) (Modality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xray", "x-ray", "chest-xray":
		return XRay, nil
	case "ct", "ct-scan", "ctscan":
		return CT, nil
	case "skin", "skin-lesion":
		return Skin, nil
	}
	return "", fmt.Errorf("unknown modality %q", s)
}

// PathName is the identifier used in analysis routes and stored documents.
func (m Modality) PathName() string {
	if m == CT {
		return "ct-scan"
	}
	return string(m)
}

type Severity string

const (
	SeverityNone      Severity = "None"
	SeverityMild      Severity = "Mild"
	SeverityModerate  Severity = "Moderate"
	SeveritySevere    Severity = "Severe"
	SeverityBenign    Severity = "Benign"
	SeverityMalignant Severity = "Malignant"
)

func (s Severity) valid() bool {
	switch s {
	case SeverityNone, SeverityMild, SeverityModerate, SeveritySevere, SeverityBenign, SeverityMalignant:
		return true
	}
	return false
}

// Extent is either Located or Diffuse. Use a type switch to handle both.
type Extent interface {
	isExtent()
}

// Located is a position on the source image in percent of its width and
// height, with a radius in percent of the width.
type Located struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// Diffuse marks a finding with no meaningful position.
type Diffuse struct{}

func (Located) isExtent() {}
func (Diffuse) isExtent() {}

// normalizeExtent keeps Located values inside the image and demotes
// zero-radius locations to Diffuse.
func normalizeExtent(e Extent) Extent {
	loc, ok := e.(Located)
	if !ok || loc.Radius <= 0 {
		return Diffuse{}
	}
	loc.X = clampFloat(loc.X, 0, 100)
	loc.Y = clampFloat(loc.Y, 0, 100)
	return loc
}

type Finding struct {
	ID          string
	Name        string
	Severity    Severity
	Probability int
	Location    Extent
	Critical    bool
	Normal      bool
}

// Located returns the finding's position when it has one.
func (f Finding) Located() (Located, bool) {
	loc, ok := f.Location.(Located)
	return loc, ok
}

type findingJSON struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Severity    Severity `json:"severity"`
	Probability int      `json:"probability"`
	Location    *Located `json:"location,omitempty"`
	Critical    bool     `json:"isCritical"`
	Normal      bool     `json:"isNormal"`
}

func (f Finding) MarshalJSON() ([]byte, error) {
	out := findingJSON{
		ID:          f.ID,
		Name:        f.Name,
		Severity:    f.Severity,
		Probability: f.Probability,
		Critical:    f.Critical,
		Normal:      f.Normal,
	}
	if loc, ok := f.Located(); ok {
		out.Location = &loc
	}
	return json.Marshal(out)
}

func (f *Finding) UnmarshalJSON(data []byte) error {
	var in findingJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*f = Finding{
		ID:          in.ID,
		Name:        in.Name,
		Severity:    in.Severity,
		Probability: in.Probability,
		Location:    Diffuse{},
		Critical:    in.Critical,
		Normal:      in.Normal,
	}
	if in.Location != nil {
		f.Location = *in.Location
	}
	return nil
}

// Result is one fabricated diagnosis. Conditions are sorted by strictly
// descending probability and the first entry is the primary finding.
type Result struct {
	Modality        Modality  `json:"modality"`
	Findings        string    `json:"findings"`
	Confidence      int       `json:"confidence"`
	Conditions      []Finding `json:"conditions"`
	Recommendation  string    `json:"recommendation"`
	Recommendations []string  `json:"recommendations"`
}

func (r Result) Primary() Finding {
	return r.Conditions[0]
}

// Prediction is the compact label/confidence view of a finding, with
// confidence expressed as a fraction.
type Prediction struct {
	Label       string  `json:"label"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description,omitempty"`
}

func (r Result) Predictions() []Prediction {
	predictions := make([]Prediction, 0, len(r.Conditions))
	for _, c := range r.Conditions {
		predictions = append(predictions, Prediction{
			Label:       c.Name,
			Confidence:  float64(c.Probability) / 100,
			Description: Describe(r.Modality, c.ID),
		})
	}
	return predictions
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
