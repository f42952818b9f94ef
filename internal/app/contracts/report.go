package contracts

import (
	"context"
	"zemedic-service/internal/app/models"
)

type Report struct {
	FileName string
	Data     []byte
}

type ReportRenderer interface {
	Render(analysis *models.Analysis) ([]byte, error)
}

// ReportService returns the PDF for an analysis, rendering and storing it on
// first use.
type ReportService interface {
	GetReport(ctx context.Context, analysis *models.Analysis) (*Report, error)
}
