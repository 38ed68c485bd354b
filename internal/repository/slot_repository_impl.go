package repository

import (
	"context"
	"errors"
	"time"

	"quickdoc/internal/domain/entity"
	domainRepo "quickdoc/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type slotRepository struct{}

func NewSlotRepository() domainRepo.SlotRepository {
	return &slotRepository{}
}

func (r *slotRepository) Create(ctx context.Context, db *gorm.DB, slot *entity.Slot) error {
	return db.WithContext(ctx).Create(slot).Error
}

func (r *slotRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Slot, error) {
	var slot entity.Slot
	err := db.WithContext(ctx).Where("id = ?", id).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.SlotFilter) ([]entity.Slot, error) {
	var slots []entity.Slot
	query := db.WithContext(ctx).Model(&entity.Slot{})

	if filter != nil {
		if filter.DoctorID != nil {
			query = query.Where("doctor_id = ?", *filter.DoctorID)
		}
		if filter.ClinicID != nil {
			query = query.Where("clinic_id = ?", *filter.ClinicID)
		}
		if filter.StartAt != "" {
			query = query.Where("date >= ?", filter.StartAt)
		}
		if filter.EndAt != "" {
			query = query.Where("date <= ?", filter.EndAt)
		}
		if filter.Specialty != "" {
			query = query.Where("specialization ILIKE ?", filter.Specialty)
		}
		if filter.City != "" {
			query = query.Where("city ILIKE ?", filter.City)
		}
		if filter.Language != "" {
			query = query.Where("language ILIKE ?", filter.Language)
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
	}

	err := query.Order("date ASC, start_time ASC").Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// FindOverlapping must run inside the per-(doctor, date) critical section;
// the check-then-insert pair is not safe on its own.
func (r *slotRepository) FindOverlapping(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date time.Time, startTime, endTime string) (*entity.Slot, error) {
	var slot entity.Slot
	err := db.WithContext(ctx).
		Where("doctor_id = ? AND date = ? AND status != ?", doctorID, date, entity.SlotStatusCancelled).
		Where("start_time < ? AND end_time > ?", endTime, startTime).
		First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepository) MarkBooked(ctx context.Context, db *gorm.DB, id uuid.UUID, patientID uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Slot{}).
		Where("id = ? AND status = ?", id, entity.SlotStatusOpen).
		Updates(map[string]interface{}{
			"status":    entity.SlotStatusBooked,
			"booked_by": patientID,
		})
	return result.RowsAffected, result.Error
}

func (r *slotRepository) TransitionStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.SlotStatus) (int64, error) {
	updates := map[string]interface{}{"status": to}
	if to == entity.SlotStatusOpen {
		updates["booked_by"] = nil
	}
	result := db.WithContext(ctx).Model(&entity.Slot{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *slotRepository) ExpireDue(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	today := now.UTC().Format(entity.DateLayout)
	timeOfDay := now.UTC().Format(entity.TimeOfDayLayout)

	result := db.WithContext(ctx).Model(&entity.Slot{}).
		Where("status = ?", entity.SlotStatusOpen).
		Where("date < ? OR (date = ? AND start_time <= ?)", today, today, timeOfDay).
		Update("status", entity.SlotStatusExpired)
	return result.RowsAffected, result.Error
}
