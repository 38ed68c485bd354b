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
	ErrBookingNotFound         = errors.New("booking not found")
	ErrSlotTaken               = errors.New("slot is no longer available")
	ErrSlotExpired             = errors.New("slot start time has passed")
	ErrNotBookingOwner         = errors.New("booking does not belong to this caller")
	ErrBookingAlreadyCancelled = errors.New("booking is already cancelled")
)

type BookingUsecase interface {
	Book(ctx context.Context, principal entity.Principal, slotID uuid.UUID) (*dto.BookingResponse, error)
	Cancel(ctx context.Context, principal entity.Principal, bookingID uuid.UUID) error
	ListPatientBookings(ctx context.Context, principal entity.Principal) (*dto.BookingListResponse, error)
	ListClinicBookings(ctx context.Context, principal entity.Principal) (*dto.BookingListResponse, error)
}

type bookingUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	slotRepo       repository.SlotRepository
	bookingRepo    repository.BookingRepository
	locks          *service.KeyLockService
	publisher      EventPublisher
	reopenOnCancel bool
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	slotRepo repository.SlotRepository,
	bookingRepo repository.BookingRepository,
	locks *service.KeyLockService,
	publisher EventPublisher,
	reopenOnCancel bool,
) BookingUsecase {
	return &bookingUsecase{
		db:             db,
		log:            log,
		slotRepo:       slotRepo,
		bookingRepo:    bookingRepo,
		locks:          locks,
		publisher:      publisher,
		reopenOnCancel: reopenOnCancel,
	}
}

// Book claims an open slot for the patient. At most one concurrent caller
// can win a given slot.
//
// Flow:
// 1. Acquire the per-slot lock (unrelated slots never contend)
// 2. Load slot; lazily expire it when its start instant has passed
// 3. Compare-and-swap open → booked (guards cross-instance races too)
// 4. Insert the booking row
// 5. If the insert fails, compensate by reverting the slot to open
func (u *bookingUsecase) Book(ctx context.Context, principal entity.Principal, slotID uuid.UUID) (*dto.BookingResponse, error) {
	unlock := u.locks.Acquire(service.SlotLockKey(slotID))
	defer unlock()

	slot, err := u.slotRepo.FindByID(ctx, u.db, slotID)
	if err != nil {
		u.log.Warnf("Failed to find slot %s: %+v", slotID, err)
		return nil, err
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}

	now := time.Now().UTC()
	if slot.Status == entity.SlotStatusExpired {
		return nil, ErrSlotExpired
	}
	if !slot.StartAt().After(now) {
		// The start instant has passed, so the booking fails no matter
		// what state the row is in. Only open rows transition; booked and
		// cancelled rows keep their status.
		if slot.IsOpen() {
			if _, err := u.slotRepo.TransitionStatus(ctx, u.db, slotID, entity.SlotStatusOpen, entity.SlotStatusExpired); err != nil {
				u.log.Warnf("Failed lazy expiry of slot %s: %+v", slotID, err)
			}
		}
		return nil, ErrSlotExpired
	}

	switch slot.Status {
	case entity.SlotStatusOpen:
		// proceed
	case entity.SlotStatusBooked:
		return nil, ErrSlotTaken
	default:
		return nil, ErrSlotNotFound
	}

	rows, err := u.slotRepo.MarkBooked(ctx, u.db, slotID, principal.UserID)
	if err != nil {
		u.log.Warnf("Failed to mark slot %s booked: %+v", slotID, err)
		return nil, err
	}
	if rows == 0 {
		// Lost to a concurrent writer outside this process.
		return nil, ErrSlotTaken
	}

	booking := &entity.Booking{
		ID:          uuid.New(),
		PatientID:   principal.UserID,
		SlotID:      slotID,
		ConfirmedAt: now,
	}

	if err := u.bookingRepo.Create(ctx, u.db, booking); err != nil {
		u.log.Errorf("Failed to insert booking for slot %s, compensating: %+v", slotID, err)

		// Compensate: put the slot back on the market.
		if _, revertErr := u.slotRepo.TransitionStatus(ctx, u.db, slotID, entity.SlotStatusBooked, entity.SlotStatusOpen); revertErr != nil {
			u.log.Errorf("CRITICAL: Failed to revert slot %s after booking insert failure: %+v", slotID, revertErr)
		}
		return nil, err
	}

	booking.Slot = *slot
	booking.Slot.Status = entity.SlotStatusBooked

	u.log.Infof("Booking created: id=%s, slot=%s, patient=%s", booking.ID, slotID, principal.UserID)
	return converter.BookingToResponse(booking), nil
}

// Cancel cancels a booking on behalf of the booking patient or the
// clinic that owns the slot. A successful cancellation re-opens the slot
// (policy permitting) and emits exactly one slot-opened event.
func (u *bookingUsecase) Cancel(ctx context.Context, principal entity.Principal, bookingID uuid.UUID) error {
	booking, err := u.bookingRepo.FindByID(ctx, u.db, bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return err
	}
	if booking == nil {
		return ErrBookingNotFound
	}

	if !u.mayCancel(principal, booking) {
		return ErrNotBookingOwner
	}

	unlock := u.locks.Acquire(service.SlotLockKey(booking.SlotID))
	defer unlock()

	rows, err := u.bookingRepo.CancelBooking(ctx, u.db, bookingID)
	if err != nil {
		u.log.Warnf("Failed to cancel booking %s: %+v", bookingID, err)
		return err
	}
	if rows == 0 {
		return ErrBookingAlreadyCancelled
	}

	now := time.Now().UTC()
	switch {
	case u.reopenOnCancel && booking.Slot.StartAt().After(now):
		reopened, err := u.slotRepo.TransitionStatus(ctx, u.db, booking.SlotID, entity.SlotStatusBooked, entity.SlotStatusOpen)
		if err != nil {
			u.log.Warnf("Failed to reopen slot %s after cancellation: %+v", booking.SlotID, err)
			return err
		}
		// The booking-cancel CAS above fired at most once, so the event
		// is emitted at most once per cancellation.
		if reopened > 0 {
			u.publisher.Publish(entity.NewSlotOpenedEvent(booking.SlotID))
		}
	case u.reopenOnCancel:
		// Start instant already passed: nobody can book a reopened slot,
		// so expire it instead of notifying standby patients.
		if _, err := u.slotRepo.TransitionStatus(ctx, u.db, booking.SlotID, entity.SlotStatusBooked, entity.SlotStatusExpired); err != nil {
			u.log.Warnf("Failed to expire slot %s after booking cancel: %+v", booking.SlotID, err)
			return err
		}
	default:
		if _, err := u.slotRepo.TransitionStatus(ctx, u.db, booking.SlotID, entity.SlotStatusBooked, entity.SlotStatusCancelled); err != nil {
			u.log.Warnf("Failed to mark slot %s cancelled after booking cancel: %+v", booking.SlotID, err)
			return err
		}
	}

	u.log.Infof("Booking cancelled: id=%s, slot=%s, by=%s", bookingID, booking.SlotID, principal.UserID)
	return nil
}

// ListPatientBookings returns all bookings made by the patient
func (u *bookingUsecase) ListPatientBookings(ctx context.Context, principal entity.Principal) (*dto.BookingListResponse, error) {
	bookings, err := u.bookingRepo.FindByPatientID(ctx, u.db, principal.UserID)
	if err != nil {
		u.log.Warnf("Failed to list bookings for patient %s: %+v", principal.UserID, err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    len(bookings),
	}, nil
}

// ListClinicBookings returns all bookings on the clinic's slots
func (u *bookingUsecase) ListClinicBookings(ctx context.Context, principal entity.Principal) (*dto.BookingListResponse, error) {
	bookings, err := u.bookingRepo.FindByClinicID(ctx, u.db, principal.UserID)
	if err != nil {
		u.log.Warnf("Failed to list bookings for clinic %s: %+v", principal.UserID, err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    len(bookings),
	}, nil
}

// mayCancel allows the booking patient and the clinic owning the slot.
// Callers failing this check get a generic denial so non-owners learn
// nothing about the booking.
func (u *bookingUsecase) mayCancel(principal entity.Principal, booking *entity.Booking) bool {
	if principal.IsPatient() {
		return booking.PatientID == principal.UserID
	}
	if principal.IsClinic() {
		return booking.Slot.ClinicID == principal.UserID
	}
	return false
}
