package db_models

import (
	"time"

	"github.com/google/uuid"
)

// TripPlan is one successfully generated plan, kept as session history.
type TripPlan struct {
	BaseModel
	SessionID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Origin       string    `gorm:"not null"`
	Destinations string    `gorm:"type:text;not null"` // newline separated, input order
	DateRange    string    `gorm:"size:64"`
	StartDate    time.Time `gorm:"type:date"`
	EndDate      time.Time `gorm:"type:date"`
	Interests    string    `gorm:"type:text"` // ", " separated
	Content      string    `gorm:"type:text;not null"`
	DurationMs   int64
}

func (TripPlan) TableName() string {
	return "trip_plans"
}
