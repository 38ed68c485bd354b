package usecase

import (
	"context"
	"errors"
	"time"

	"quickdoc/internal/converter"
	"quickdoc/internal/delivery/dto"
	"quickdoc/internal/domain/entity"
	"quickdoc/internal/domain/repository"
	"quickdoc/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrSlotNotFound     = errors.New("slot not found")
	ErrSlotOverlap      = errors.New("slot overlaps an existing slot for this doctor")
	ErrSlotNotOpen      = errors.New("slot is not open")
	ErrSlotNotCancelled = errors.New("slot is not cancelled")
	ErrNotSlotOwner     = errors.New("slot does not belong to this clinic")
	ErrInvalidDate      = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidDoctorID  = errors.New("invalid doctor id")
	ErrInvalidTimeRange = errors.New("invalid time range, use HH:MM with start before end")
)

// EventPublisher receives slot-opened events for standby matching.
// Publishing must not block the caller.
type EventPublisher interface {
	Publish(event entity.SlotOpenedEvent)
}

type SlotUsecase interface {
	CreateSlot(ctx context.Context, principal entity.Principal, req *dto.CreateSlotRequest) (*dto.SlotResponse, error)
	ListClinicSlots(ctx context.Context, principal entity.Principal) (*dto.SlotListResponse, error)
	ListOpenSlots(ctx context.Context, filter *dto.SlotFilterRequest) (*dto.SlotListResponse, error)
	CancelSlot(ctx context.Context, principal entity.Principal, slotID uuid.UUID) error
	ReopenSlot(ctx context.Context, principal entity.Principal, slotID uuid.UUID) (*dto.SlotResponse, error)
	ExpireDueSlots(ctx context.Context, now time.Time) (int64, error)
}

type slotUsecase struct {
	db        *gorm.DB
	log       *logrus.Logger
	slotRepo  repository.SlotRepository
	locks     *service.KeyLockService
	publisher EventPublisher
}

func NewSlotUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	slotRepo repository.SlotRepository,
	locks *service.KeyLockService,
	publisher EventPublisher,
) SlotUsecase {
	return &slotUsecase{
		db:        db,
		log:       log,
		slotRepo:  slotRepo,
		locks:     locks,
		publisher: publisher,
	}
}

// CreateSlot opens a new slot for the clinic.
//
// Flow:
// 1. Validate date and time formats
// 2. Acquire the per-(doctor, date) lock
// 3. Overlap check against non-cancelled slots, then insert (check-then-act
//    is only safe inside the lock)
// 4. Emit a slot-opened event for standby matching
func (u *slotUsecase) CreateSlot(ctx context.Context, principal entity.Principal, req *dto.CreateSlotRequest) (*dto.SlotResponse, error) {
	date, err := time.Parse(entity.DateLayout, req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if !entity.ValidTimeOfDay(req.StartTime) || !entity.ValidTimeOfDay(req.EndTime) || req.StartTime >= req.EndTime {
		return nil, ErrInvalidTimeRange
	}

	language := req.Language
	if language == "" {
		language = "English"
	}

	unlock := u.locks.Acquire(service.ScheduleLockKey(req.DoctorID, date))
	defer unlock()

	conflict, err := u.slotRepo.FindOverlapping(ctx, u.db, req.DoctorID, date, req.StartTime, req.EndTime)
	if err != nil {
		u.log.Warnf("Failed overlap check for doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}
	if conflict != nil {
		return nil, ErrSlotOverlap
	}

	slot := &entity.Slot{
		ID:             uuid.New(),
		ClinicID:       principal.UserID,
		DoctorID:       req.DoctorID,
		Date:           date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Language:       language,
		Specialization: req.Specialization,
		City:           req.City,
		Status:         entity.SlotStatusOpen,
	}

	if err := u.slotRepo.Create(ctx, u.db, slot); err != nil {
		u.log.Warnf("Failed to create slot: %+v", err)
		return nil, err
	}

	u.publisher.Publish(entity.NewSlotOpenedEvent(slot.ID))

	u.log.Infof("Slot created: id=%s, doctor=%s, date=%s %s-%s", slot.ID, slot.DoctorID, req.Date, slot.StartTime, slot.EndTime)
	return converter.SlotToResponse(slot), nil
}

// ListClinicSlots returns all slots owned by the clinic
func (u *slotUsecase) ListClinicSlots(ctx context.Context, principal entity.Principal) (*dto.SlotListResponse, error) {
	clinicID := principal.UserID
	slots, err := u.slotRepo.FindAll(ctx, u.db, &entity.SlotFilter{ClinicID: &clinicID})
	if err != nil {
		u.log.Warnf("Failed to list slots for clinic %s: %+v", clinicID, err)
		return nil, err
	}

	return &dto.SlotListResponse{
		Slots: converter.SlotsToResponses(slots),
		Total: len(slots),
	}, nil
}

// ListOpenSlots returns bookable slots matching the filter. Overdue open
// slots are lazily expired first so patients never see stale openings.
func (u *slotUsecase) ListOpenSlots(ctx context.Context, filter *dto.SlotFilterRequest) (*dto.SlotListResponse, error) {
	if _, err := u.slotRepo.ExpireDue(ctx, u.db, time.Now().UTC()); err != nil {
		// Non-fatal: the background scanner will catch up.
		u.log.Warnf("Lazy expiry failed: %+v", err)
	}

	domainFilter := &entity.SlotFilter{Status: entity.SlotStatusOpen}
	if filter != nil {
		if filter.DoctorID != "" {
			doctorID, err := uuid.Parse(filter.DoctorID)
			if err != nil {
				return nil, ErrInvalidDoctorID
			}
			domainFilter.DoctorID = &doctorID
		}
		domainFilter.StartAt = filter.StartAt
		domainFilter.EndAt = filter.EndAt
		domainFilter.Specialty = filter.Specialty
		domainFilter.City = filter.City
		domainFilter.Language = filter.Language
	}

	slots, err := u.slotRepo.FindAll(ctx, u.db, domainFilter)
	if err != nil {
		u.log.Warnf("Failed to list open slots: %+v", err)
		return nil, err
	}

	return &dto.SlotListResponse{
		Slots: converter.SlotsToResponses(slots),
		Total: len(slots),
	}, nil
}

// CancelSlot withdraws an open slot (open → cancelled). Booked slots are
// cancelled through the booking, not here.
func (u *slotUsecase) CancelSlot(ctx context.Context, principal entity.Principal, slotID uuid.UUID) error {
	slot, err := u.slotRepo.FindByID(ctx, u.db, slotID)
	if err != nil {
		u.log.Warnf("Failed to find slot %s: %+v", slotID, err)
		return err
	}
	if slot == nil {
		return ErrSlotNotFound
	}
	if slot.ClinicID != principal.UserID {
		return ErrNotSlotOwner
	}

	unlock := u.locks.Acquire(service.SlotLockKey(slotID))
	defer unlock()

	rows, err := u.slotRepo.TransitionStatus(ctx, u.db, slotID, entity.SlotStatusOpen, entity.SlotStatusCancelled)
	if err != nil {
		u.log.Warnf("Failed to cancel slot %s: %+v", slotID, err)
		return err
	}
	if rows == 0 {
		return ErrSlotNotOpen
	}

	u.log.Infof("Slot cancelled: id=%s", slotID)
	return nil
}

// ReopenSlot puts a cancelled slot back on the market and re-triggers
// standby matching with a fresh event.
func (u *slotUsecase) ReopenSlot(ctx context.Context, principal entity.Principal, slotID uuid.UUID) (*dto.SlotResponse, error) {
	slot, err := u.slotRepo.FindByID(ctx, u.db, slotID)
	if err != nil {
		u.log.Warnf("Failed to find slot %s: %+v", slotID, err)
		return nil, err
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}
	if slot.ClinicID != principal.UserID {
		return nil, ErrNotSlotOwner
	}

	unlock := u.locks.Acquire(service.SlotLockKey(slotID))
	defer unlock()

	rows, err := u.slotRepo.TransitionStatus(ctx, u.db, slotID, entity.SlotStatusCancelled, entity.SlotStatusOpen)
	if err != nil {
		u.log.Warnf("Failed to reopen slot %s: %+v", slotID, err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrSlotNotCancelled
	}

	u.publisher.Publish(entity.NewSlotOpenedEvent(slotID))

	slot.Status = entity.SlotStatusOpen
	slot.BookedBy = nil
	u.log.Infof("Slot reopened: id=%s", slotID)
	return converter.SlotToResponse(slot), nil
}

// ExpireDueSlots transitions overdue open slots to expired. Idempotent,
// called by the background scanner and safe to call at any time.
func (u *slotUsecase) ExpireDueSlots(ctx context.Context, now time.Time) (int64, error) {
	return u.slotRepo.ExpireDue(ctx, u.db, now)
}
