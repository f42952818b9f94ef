package responses

import (
	"time"

	"zemedic-service/internal/pkg/synth"
)

type Analysis struct {
	ID              string             `json:"id"`
	Type            synth.Modality     `json:"type"`
	Date            time.Time          `json:"date"`
	ImageURL        string             `json:"image_url,omitempty"`
	ThumbnailURL    string             `json:"thumbnail_url,omitempty"`
	Image           *Image             `json:"image,omitempty"`
	Predictions     []synth.Prediction `json:"predictions"`
	Recommendations []string           `json:"recommendations"`
	Findings        string             `json:"findings"`
	Confidence      int                `json:"confidence"`
	Conditions      []synth.Finding    `json:"conditions"`
	Recommendation  string             `json:"recommendation"`
	Heatmap         string             `json:"heatmap,omitempty"`
	Seed            int64              `json:"seed"`
}

type Image struct {
	FileName string `json:"file_name,omitempty"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	DICOM    *DICOM `json:"dicom,omitempty"`
}

type DICOM struct {
	Modality         string `json:"modality,omitempty"`
	BodyPartExamined string `json:"body_part_examined,omitempty"`
	StudyDate        string `json:"study_date,omitempty"`
	StudyDescription string `json:"study_description,omitempty"`
	Manufacturer     string `json:"manufacturer,omitempty"`
}
