package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/applynowhq/admissions-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Postgres is the production store, backed by GORM. Section payloads live in
// JSONB columns; the primary key on the reference id backs the collision
// retry loop in Create.
type Postgres struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, userID uuid.UUID, personal models.PersonalInfo, academic models.AcademicInfo, guardian models.GuardianInfo) (*models.Application, error) {
	now := time.Now().UTC()
	app := models.Application{
		UserID:          userID,
		Status:          models.StatusPending,
		SubmittedAt:     now,
		StatusUpdatedAt: now,
		Personal:        personal,
		Academic:        academic,
		Guardian:        guardian,
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		app.ID = newReferenceID()
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.Application{}).Where("id = ?", app.ID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return gorm.ErrDuplicatedKey
			}
			return tx.Create(&app).Error
		})
		if err == nil {
			return &app, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			continue
		}
		return nil, fmt.Errorf("create application: %w", err)
	}
	return nil, ErrIDSpaceExhausted
}

func (s *Postgres) GetByID(ctx context.Context, id string) (*models.Application, error) {
	var app models.Application
	if err := s.db.WithContext(ctx).First(&app, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (s *Postgres) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) (*models.Application, error) {
	if err := checkReviewTarget(status); err != nil {
		return nil, err
	}
	result := s.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":            status,
			"status_updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

func (s *Postgres) AttachPrediction(ctx context.Context, id string, prediction models.PredictionResult) (*models.Application, error) {
	if err := checkPrediction(prediction); err != nil {
		return nil, err
	}
	result := s.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", id).
		Update("ai_prediction", &prediction)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

func (s *Postgres) ListAll(ctx context.Context) ([]models.Application, error) {
	var apps []models.Application
	if err := s.db.WithContext(ctx).Order("submitted_at DESC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *Postgres) ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("submitted_at DESC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// isUniqueViolation catches the raw Postgres unique violation in case the
// dialect does not translate it to gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "duplicate key value") ||
		strings.Contains(err.Error(), "SQLSTATE 23505")
}
