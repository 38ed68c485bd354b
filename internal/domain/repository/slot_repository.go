package repository

import (
	"context"
	"time"

	"quickdoc/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SlotRepository interface {
	Create(ctx context.Context, db *gorm.DB, slot *entity.Slot) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Slot, error)
	FindAll(ctx context.Context, db *gorm.DB, filter *entity.SlotFilter) ([]entity.Slot, error)

	// FindOverlapping returns the first non-cancelled slot for the same
	// doctor and date whose [start, end) interval intersects the given one,
	// or nil when the interval is free.
	FindOverlapping(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date time.Time, startTime, endTime string) (*entity.Slot, error)

	// MarkBooked transitions open → booked and records the booking patient.
	// Returns affected rows: 1 = won the slot, 0 = lost (not open anymore).
	MarkBooked(ctx context.Context, db *gorm.DB, id uuid.UUID, patientID uuid.UUID) (int64, error)

	// TransitionStatus is a compare-and-swap on the status column. A
	// transition to open also clears booked_by. Returns affected rows.
	TransitionStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.SlotStatus) (int64, error)

	// ExpireDue transitions every open slot whose start instant is at or
	// before now to expired. Idempotent. Returns affected rows.
	ExpireDue(ctx context.Context, db *gorm.DB, now time.Time) (int64, error)
}
