package models

import (
	"zemedic-service/internal/pkg/synth"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Analysis struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	UserID          string             `bson:"userId"`
	Modality        synth.Modality     `bson:"modality"`
	Seed            int64              `bson:"seed"`
	Findings        string             `bson:"findings"`
	Confidence      int                `bson:"confidence"`
	Conditions      []Condition        `bson:"conditions"`
	Recommendation  string             `bson:"recommendation"`
	Recommendations []string           `bson:"recommendations"`
	Heatmap         string             `bson:"heatmap,omitempty"`
	Image           ImageMeta          `bson:"image"`
	ImageObject     string             `bson:"imageObject"`
	ThumbnailObject string             `bson:"thumbnailObject,omitempty"`
	ReportObject    string             `bson:"reportObject,omitempty"`
	TimeModel       `bson:",inline"`
}

type Condition struct {
	ID          string         `bson:"id"`
	Name        string         `bson:"name"`
	Severity    synth.Severity `bson:"severity"`
	Probability int            `bson:"probability"`
	Location    *Location      `bson:"location,omitempty"`
	Critical    bool           `bson:"isCritical"`
	Normal      bool           `bson:"isNormal"`
}

type Location struct {
	X      float64 `bson:"x"`
	Y      float64 `bson:"y"`
	Radius float64 `bson:"radius"`
}

type ImageMeta struct {
	FileName    string     `bson:"fileName"`
	ContentType string     `bson:"contentType"`
	Format      string     `bson:"format"`
	Width       int        `bson:"width"`
	Height      int        `bson:"height"`
	Size        int64      `bson:"size"`
	DICOM       *DICOMMeta `bson:"dicom,omitempty"`
}

type DICOMMeta struct {
	Modality          string `bson:"modality,omitempty"`
	BodyPartExamined  string `bson:"bodyPartExamined,omitempty"`
	StudyDate         string `bson:"studyDate,omitempty"`
	StudyDescription  string `bson:"studyDescription,omitempty"`
	Manufacturer      string `bson:"manufacturer,omitempty"`
	SliceThickness    string `bson:"sliceThickness,omitempty"`
	PhotometricInterp string `bson:"photometricInterpretation,omitempty"`
}

func NewConditions(findings []synth.Finding) []Condition {
	conditions := make([]Condition, 0, len(findings))
	for _, f := range findings {
		c := Condition{
			ID:          f.ID,
			Name:        f.Name,
			Severity:    f.Severity,
			Probability: f.Probability,
			Critical:    f.Critical,
			Normal:      f.Normal,
		}
		if loc, ok := f.Located(); ok {
			c.Location = &Location{X: loc.X, Y: loc.Y, Radius: loc.Radius}
		}
		conditions = append(conditions, c)
	}
	return conditions
}

// SynthFindings converts stored conditions back into synthesizer findings.
func (a *Analysis) SynthFindings() []synth.Finding {
	findings := make([]synth.Finding, 0, len(a.Conditions))
	for _, c := range a.Conditions {
		f := synth.Finding{
			ID:          c.ID,
			Name:        c.Name,
			Severity:    c.Severity,
			Probability: c.Probability,
			Location:    synth.Diffuse{},
			Critical:    c.Critical,
			Normal:      c.Normal,
		}
		if c.Location != nil {
			f.Location = synth.Located{X: c.Location.X, Y: c.Location.Y, Radius: c.Location.Radius}
		}
		findings = append(findings, f)
	}
	return findings
}

// Result rebuilds the synthesizer view of a stored analysis.
func (a *Analysis) Result() synth.Result {
	return synth.Result{
		Modality:        a.Modality,
		Findings:        a.Findings,
		Confidence:      a.Confidence,
		Conditions:      a.SynthFindings(),
		Recommendation:  a.Recommendation,
		Recommendations: a.Recommendations,
	}
}
