package requests

import "zemedic-service/internal/pkg/synth"

// AnalyzeImage is an upload that has passed content-type and size checks.
type AnalyzeImage struct {
	Modality    synth.Modality `validate:"required,modality"`
	FileName    string         `validate:"required"`
	ContentType string         `validate:"required"`
	Data        []byte         `validate:"required"`
	Seed        *int64
	UserID      string
}

type DemoAnalyze struct {
	Modality synth.Modality `validate:"required,modality"`
	Seed     *int64
}
