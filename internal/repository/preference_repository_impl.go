package repository

import (
	"context"
	"errors"

	"quickdoc/internal/domain/entity"
	domainRepo "quickdoc/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type preferenceRepository struct{}

func NewPreferenceRepository() domainRepo.PreferenceRepository {
	return &preferenceRepository{}
}

func (r *preferenceRepository) FindStandby(ctx context.Context, db *gorm.DB, patientID uuid.UUID) (*entity.StandbyPreference, error) {
	var pref entity.StandbyPreference
	err := db.WithContext(ctx).Where("patient_id = ?", patientID).First(&pref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pref, nil
}

// UpsertStandby replaces the patient's standby row wholesale; partial
// merges belong to the caller.
func (r *preferenceRepository) UpsertStandby(ctx context.Context, db *gorm.DB, pref *entity.StandbyPreference) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "patient_id"}},
		UpdateAll: true,
	}).Create(pref).Error
}

func (r *preferenceRepository) ListEnabledStandby(ctx context.Context, db *gorm.DB) ([]entity.StandbyPreference, error) {
	var prefs []entity.StandbyPreference
	err := db.WithContext(ctx).Where("enabled = ?", true).Find(&prefs).Error
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

func (r *preferenceRepository) FindDnd(ctx context.Context, db *gorm.DB, patientID uuid.UUID) (*entity.DndPreference, error) {
	var pref entity.DndPreference
	err := db.WithContext(ctx).Where("patient_id = ?", patientID).First(&pref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pref, nil
}

func (r *preferenceRepository) UpsertDnd(ctx context.Context, db *gorm.DB, pref *entity.DndPreference) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "patient_id"}},
		UpdateAll: true,
	}).Create(pref).Error
}
