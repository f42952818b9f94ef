package models

import "time"

type AnalysisCompletedEvent struct {
	AnalysisID string    `json:"analysis_id"`
	UserID     string    `json:"user_id"`
	Modality   string    `json:"modality"`
	Primary    string    `json:"primary"`
	Confidence int       `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}
