package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ops-kit/netops-service/internal/config"
	"github.com/ops-kit/netops-service/internal/domain"
	"github.com/ops-kit/netops-service/internal/repository"
	"github.com/ops-kit/netops-service/pkg/util/errorutil"
)

// PredictionService regenerates forecast rows from recent daily volumes.
// The model is a trailing moving average projected over the horizon; the
// rows exist to feed dashboard charts, not to be clever.
type PredictionService struct {
	predictions repository.PredictionRepository
	reports     repository.ReportRepository
	cfg         config.PredictionConfig
	logger      *zap.Logger
	now         func() time.Time
}

// NewPredictionService constructs the service.
func NewPredictionService(predictions repository.PredictionRepository, reports repository.ReportRepository, cfg config.PredictionConfig, logger *zap.Logger) *PredictionService {
	return &PredictionService{
		predictions: predictions,
		reports:     reports,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// List returns stored forecast rows, optionally for one metric.
func (s *PredictionService) List(ctx context.Context, metric *domain.PredictionMetric) ([]domain.PredictionReport, error) {
	reports, err := s.predictions.List(ctx, metric)
	if err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}
	return reports, nil
}

// Regenerate recomputes and stores forecasts for every metric.
func (s *PredictionService) Regenerate(ctx context.Context) error {
	now := s.now()
	from := now.AddDate(0, 0, -s.lookbackDays())

	ticketPoints, err := s.reports.TicketVolumeBuckets(ctx, from, now, false)
	if err != nil {
		return errorutil.NewPersistenceError(err)
	}
	if err := s.regenerateMetric(ctx, domain.PredictionMetricTicketVolume, ticketPoints, now); err != nil {
		return err
	}

	alertPoints, err := s.reports.AlertVolumeBuckets(ctx, from, now)
	if err != nil {
		return errorutil.NewPersistenceError(err)
	}
	return s.regenerateMetric(ctx, domain.PredictionMetricAlertVolume, alertPoints, now)
}

func (s *PredictionService) regenerateMetric(ctx context.Context, metric domain.PredictionMetric, points []repository.VolumePoint, now time.Time) error {
	history := make([]float64, 0, len(points))
	for _, point := range points {
		history = append(history, float64(point.Created))
	}
	values := Forecast(history, s.horizonDays())

	reports := make([]domain.PredictionReport, 0, len(values))
	base := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for i, value := range values {
		reports = append(reports, domain.PredictionReport{
			Metric:         metric,
			BucketDate:     base.AddDate(0, 0, i+1),
			PredictedValue: value,
			GeneratedAt:    now,
		})
	}
	if err := s.predictions.ReplaceForMetric(ctx, metric, reports); err != nil {
		return errorutil.NewPersistenceError(err)
	}
	s.logger.Info("prediction series regenerated",
		zap.String("metric", string(metric)),
		zap.Int("points", len(reports)))
	return nil
}

// Forecast projects the trailing moving average of history flat across the
// horizon. An empty history forecasts zeros.
func Forecast(history []float64, horizon int) []float64 {
	if horizon <= 0 {
		return nil
	}
	window := 7
	if len(history) < window {
		window = len(history)
	}
	var avg float64
	if window > 0 {
		var sum float64
		for _, v := range history[len(history)-window:] {
			sum += v
		}
		avg = sum / float64(window)
	}

	values := make([]float64, horizon)
	for i := range values {
		values[i] = avg
	}
	return values
}

func (s *PredictionService) lookbackDays() int {
	if s.cfg.LookbackDays <= 0 {
		return 14
	}
	return s.cfg.LookbackDays
}

func (s *PredictionService) horizonDays() int {
	if s.cfg.HorizonDays <= 0 {
		return 7
	}
	return s.cfg.HorizonDays
}
