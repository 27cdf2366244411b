package repository

import (
	"context"
	"time"

	"github.com/Ajay0072005/floodsense-ai/internal/models"
)

type Filter struct {
	Limit      int
	Since      *time.Time
	DistrictID *string
	MinScore   *float64
}

type PredictionLogRepository interface {
	Add(ctx context.Context, log *models.PredictionLog) error
	List(ctx context.Context, opts Filter) ([]models.PredictionLog, error)
}

type ReportRepository interface {
	AddReport(ctx context.Context, r *models.Report) error
	ListReports(ctx context.Context, opts Filter) ([]models.Report, error)
}
