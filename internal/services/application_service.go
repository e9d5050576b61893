package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/applynowhq/admissions-backend/internal/metrics"
	"github.com/applynowhq/admissions-backend/internal/models"
	"github.com/applynowhq/admissions-backend/internal/predict"
	"github.com/applynowhq/admissions-backend/internal/store"
	"github.com/google/uuid"
)

// ApplicationService: read projections, the reviewer decision path, and
// prediction orchestration on top of the store and the scoring engine.
type ApplicationService struct {
	store  store.ApplicationStore
	engine *predict.Engine
}

func NewApplicationService(st store.ApplicationStore, engine *predict.Engine) *ApplicationService {
	return &ApplicationService{store: st, engine: engine}
}

func (s *ApplicationService) Get(ctx context.Context, id string) (*models.Application, error) {
	return s.store.GetByID(ctx, id)
}

func (s *ApplicationService) ListAll(ctx context.Context) ([]models.Application, error) {
	return s.store.ListAll(ctx)
}

func (s *ApplicationService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Application, error) {
	return s.store.ListByOwner(ctx, userID)
}

// Review moves an application to a reviewer-chosen status. The store rejects
// targets outside {Under Review, Approved, Rejected}.
func (s *ApplicationService) Review(ctx context.Context, id string, status models.ApplicationStatus) (*models.Application, error) {
	app, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	metrics.DecisionsTotal.WithLabelValues(string(status)).Inc()
	slog.Info("application reviewed", "application_id", id, "status", status)
	return app, nil
}

// RequestPrediction runs the scoring engine against the application's
// academic profile and attaches the result. The call is bounded by its own
// timeout so a slow provider cannot pin the request; the prior prediction
// survives any failure. Overlapping requests for the same application are
// allowed, last completed write wins.
func (s *ApplicationService) RequestPrediction(ctx context.Context, id string, timeout time.Duration) (*models.Application, error) {
	app, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	predictCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := s.engine.Predict(predictCtx, app.Academic)
	if err != nil {
		metrics.PredictionsTotal.WithLabelValues(s.engine.Strategy(), "error").Inc()
		var perr *predict.PredictionError
		if errors.As(err, &perr) {
			slog.Warn("prediction failed", "application_id", id, "error", err)
		}
		return nil, err
	}
	metrics.PredictionsTotal.WithLabelValues(s.engine.Strategy(), "ok").Inc()

	return s.store.AttachPrediction(ctx, id, result)
}
