package repository

import (
	"context"

	"quickdoc/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PreferenceRepository owns the one-per-patient standby and DND rows.
// Upserts are atomic full replacements, last write wins.
type PreferenceRepository interface {
	FindStandby(ctx context.Context, db *gorm.DB, patientID uuid.UUID) (*entity.StandbyPreference, error)
	UpsertStandby(ctx context.Context, db *gorm.DB, pref *entity.StandbyPreference) error
	ListEnabledStandby(ctx context.Context, db *gorm.DB) ([]entity.StandbyPreference, error)

	FindDnd(ctx context.Context, db *gorm.DB, patientID uuid.UUID) (*entity.DndPreference, error)
	UpsertDnd(ctx context.Context, db *gorm.DB, pref *entity.DndPreference) error
}
