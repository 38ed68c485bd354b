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

type bookingRepository struct{}

func NewBookingRepository() domainRepo.BookingRepository {
	return &bookingRepository{}
}

func (r *bookingRepository) Create(ctx context.Context, db *gorm.DB, booking *entity.Booking) error {
	return db.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	err := db.WithContext(ctx).Preload("Slot").Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.WithContext(ctx).Preload("Slot").
		Where("patient_id = ?", patientID).
		Order("confirmed_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindByClinicID(ctx context.Context, db *gorm.DB, clinicID uuid.UUID) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.WithContext(ctx).Preload("Slot").
		Joins("JOIN slots ON slots.id = bookings.slot_id").
		Where("slots.clinic_id = ?", clinicID).
		Order("bookings.confirmed_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) CancelBooking(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Booking{}).
		Where("id = ? AND cancelled = ?", id, false).
		Updates(map[string]interface{}{
			"cancelled":    true,
			"cancelled_at": time.Now().UTC(),
		})
	return result.RowsAffected, result.Error
}
