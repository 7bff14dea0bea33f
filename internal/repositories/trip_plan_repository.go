package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"tripplanner/internal/models/db_models"
)

type TripPlanRepository interface {
	CreateTripPlan(ctx context.Context, plan *db_models.TripPlan) error
	GetTripPlanById(ctx context.Context, id uuid.UUID) (*db_models.TripPlan, error)
	ListTripPlansBySession(ctx context.Context, sessionID uuid.UUID, page, pageSize int) ([]db_models.TripPlan, error)
	DeleteTripPlansCreatedBefore(ctx context.Context, cutoffUnix int64) (int64, error)
}

type tripPlanRepository struct {
	db *gorm.DB
}

func NewTripPlanRepository(db *gorm.DB) TripPlanRepository {
	return &tripPlanRepository{db: db}
}

func (r *tripPlanRepository) CreateTripPlan(ctx context.Context, plan *db_models.TripPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *tripPlanRepository) GetTripPlanById(ctx context.Context, id uuid.UUID) (*db_models.TripPlan, error) {
	var plan db_models.TripPlan
	err := r.db.WithContext(ctx).First(&plan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *tripPlanRepository) ListTripPlansBySession(ctx context.Context, sessionID uuid.UUID, page, pageSize int) ([]db_models.TripPlan, error) {
	var plans []db_models.TripPlan
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&plans).Error
	return plans, err
}

func (r *tripPlanRepository) DeleteTripPlansCreatedBefore(ctx context.Context, cutoffUnix int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoffUnix).
		Delete(&db_models.TripPlan{})
	return result.RowsAffected, result.Error
}
