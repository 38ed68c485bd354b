package repository

import (
	"context"

	"quickdoc/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(ctx context.Context, db *gorm.DB, booking *entity.Booking) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Booking, error)
	FindByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.Booking, error)
	FindByClinicID(ctx context.Context, db *gorm.DB, clinicID uuid.UUID) ([]entity.Booking, error)

	// CancelBooking atomically cancels a booking ONLY if it's not already
	// cancelled. Returns affected rows: 1 = success, 0 = already cancelled
	// (prevents double-cancel race).
	CancelBooking(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
}
