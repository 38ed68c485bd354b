package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quickdoc/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingFixture struct {
	usecase   BookingUsecase
	slots     *fakeSlotRepo
	bookings  *fakeBookingRepo
	publisher *recordingPublisher
	clinic    entity.Principal
	patient   entity.Principal
}

func newBookingFixture(t *testing.T, reopenOnCancel bool) *bookingFixture {
	t.Helper()
	slots := newFakeSlotRepo()
	bookings := newFakeBookingRepo(slots)
	publisher := &recordingPublisher{}
	return &bookingFixture{
		usecase:   NewBookingUsecase(nil, logrus.New(), slots, bookings, newTestLocks(t), publisher, reopenOnCancel),
		slots:     slots,
		bookings:  bookings,
		publisher: publisher,
		clinic:    entity.Principal{UserID: uuid.New(), Role: entity.RoleClinic},
		patient:   entity.Principal{UserID: uuid.New(), Role: entity.RolePatient},
	}
}

func (f *bookingFixture) addOpenSlot() *entity.Slot {
	slot := &entity.Slot{
		ID:        uuid.New(),
		ClinicID:  f.clinic.UserID,
		DoctorID:  uuid.New(),
		Date:      time.Now().UTC().AddDate(0, 0, 7).Truncate(24 * time.Hour),
		StartTime: "10:00",
		EndTime:   "10:30",
		Language:  "English",
		Status:    entity.SlotStatusOpen,
	}
	f.slots.add(slot)
	return slot
}

func TestBook(t *testing.T) {
	f := newBookingFixture(t, true)
	slot := f.addOpenSlot()

	booking, err := f.usecase.Book(context.Background(), f.patient, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, f.patient.UserID, booking.PatientID)
	assert.Equal(t, slot.ID, booking.SlotID)
	require.NotNil(t, booking.Slot)
	assert.Equal(t, string(entity.SlotStatusBooked), booking.Slot.Status)

	stored := f.slots.get(slot.ID)
	assert.Equal(t, entity.SlotStatusBooked, stored.Status)
	require.NotNil(t, stored.BookedBy)
	assert.Equal(t, f.patient.UserID, *stored.BookedBy)
}

func TestBookConcurrentSingleWinner(t *testing.T) {
	f := newBookingFixture(t, true)
	slot := f.addOpenSlot()

	const patients = 20
	var wins, losses int64
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < patients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			principal := entity.Principal{UserID: uuid.New(), Role: entity.RolePatient}
			_, err := f.usecase.Book(context.Background(), principal, slot.ID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrSlotTaken):
				losses++
			default:
				t.Errorf("unexpected booking error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), wins, "exactly one patient wins the slot")
	assert.Equal(t, int64(patients-1), losses)
}

func TestBookUnknownSlot(t *testing.T) {
	f := newBookingFixture(t, true)

	_, err := f.usecase.Book(context.Background(), f.patient, uuid.New())
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestBookTakenSlot(t *testing.T) {
	f := newBookingFixture(t, true)
	slot := f.addOpenSlot()

	_, err := f.usecase.Book(context.Background(), f.patient, slot.ID)
	require.NoError(t, err)

	other := entity.Principal{UserID: uuid.New(), Role: entity.RolePatient}
	_, err = f.usecase.Book(context.Background(), other, slot.ID)
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestBookCancelledSlot(t *testing.T) {
	f := newBookingFixture(t, true)
	slot := f.addOpenSlot()
	_, err := f.slots.TransitionStatus(context.Background(), nil, slot.ID, entity.SlotStatusOpen, entity.SlotStatusCancelled)
	require.NoError(t, err)

	// Cancelled slots are invisible to booking, indistinguishable from absent
	_, err = f.usecase.Book(context.Background(), f.patient, slot.ID)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestBookExpiredSlot(t *testing.T) {
	f := newBookingFixture(t, true)
	slot := f.addOpenSlot()
	_, err := f.slots.TransitionStatus(context.Background(), nil, slot.ID, entity.SlotStatusOpen, entity.SlotStatusExpired)
	require.NoError(t, err)

	_, err = f.usecase.Book(context.Background(), f.patient, slot.ID)
	assert.ErrorIs(t, err, ErrSlotExpired)
}

func TestBookOverdueSlotLazilyExpires(t *testing.T) {
	f := newBookingFixture(t, true)

	overdue := &entity.Slot{
		ID:        uuid.New(),
		ClinicID:  f.clinic.UserID,
		DoctorID:  uuid.New(),
		Date:      time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour),
		StartTime: "10:00",
		EndTime:   "10:30",
		Language:  "English",
		Status:    entity.SlotStatusOpen,
	}
	f.slots.add(overdue)

	_, err := f.usecase.Book(context.Background(), f.patient, overdue.ID)
	assert.ErrorIs(t, err, ErrSlotExpired)

	// The failed attempt also transitioned the slot
	assert.Equal(t, entity.SlotStatusExpired, f.slots.get(overdue.ID).Status)
}

func TestBookPastSlotAlwaysExpired(t *testing.T) {
	// A slot whose start instant has passed fails with the expiry error no
	// matter what state the row is in.
	for _, status := range []entity.SlotStatus{entity.SlotStatusBooked, entity.SlotStatusCancelled} {
		f := newBookingFixture(t, true)

		holder := uuid.New()
		overdue := &entity.Slot{
			ID:        uuid.New(),
			ClinicID:  f.clinic.UserID,
			DoctorID:  uuid.New(),
			Date:      time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour),
			StartTime: "10:00",
			EndTime:   "10:30",
			Language:  "English",
			Status:    status,
		}
		if status == entity.SlotStatusBooked {
			overdue.BookedBy = &holder
		}
		f.slots.add(overdue)

		_, err := f.usecase.Book(context.Background(), f.patient, overdue.ID)
		assert.ErrorIs(t, err, ErrSlotExpired, "status %s", status)

		// Only open rows transition; booked and cancelled keep their status
		assert.Equal(t, status, f.slots.get(overdue.ID).Status)
	}
}

func TestBookInsertFailureCompensates(t *testing.T) {
	f := newBookingFixture(t, true)
	slot := f.addOpenSlot()

	insertErr := errors.New("insert failed")
	f.bookings.createErr = insertErr

	_, err := f.usecase.Book(context.Background(), f.patient, slot.ID)
	assert.ErrorIs(t, err, insertErr)

	// The slot went back on the market
	stored := f.slots.get(slot.ID)
	assert.Equal(t, entity.SlotStatusOpen, stored.Status)
	assert.Nil(t, stored.BookedBy)
}

func TestCancelBookingReopensSlot(t *testing.T) {
	f := newBookingFixture(t, true)
	slot := f.addOpenSlot()

	booking, err := f.usecase.Book(context.Background(), f.patient, slot.ID)
	require.NoError(t, err)

	require.NoError(t, f.usecase.Cancel(context.Background(), f.patient, booking.ID))

	stored := f.slots.get(slot.ID)
	assert.Equal(t, entity.SlotStatusOpen, stored.Status)
	assert.Nil(t, stored.BookedBy)

	// Exactly one slot-opened event for the reopened slot
	events := f.publisher.published()
	require.Len(t, events, 1)
	assert.Equal(t, slot.ID, events[0].SlotID)
}

func TestCancelBookingTwice(t *testing.T) {
	f := newBookingFixture(t, true)
	slot := f.addOpenSlot()

	booking, err := f.usecase.Book(context.Background(), f.patient, slot.ID)
	require.NoError(t, err)

	require.NoError(t, f.usecase.Cancel(context.Background(), f.patient, booking.ID))
	assert.ErrorIs(t, f.usecase.Cancel(context.Background(), f.patient, booking.ID), ErrBookingAlreadyCancelled)

	// The second attempt emitted no additional event
	assert.Len(t, f.publisher.published(), 1)
}

func TestCancelBookingPastStartExpiresSlot(t *testing.T) {
	f := newBookingFixture(t, true)
	slot := f.addOpenSlot()

	booking, err := f.usecase.Book(context.Background(), f.patient, slot.ID)
	require.NoError(t, err)

	// The appointment time passes before the cancellation comes in.
	slot.Date = time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)

	require.NoError(t, f.usecase.Cancel(context.Background(), f.patient, booking.ID))

	// Nobody can book it anymore, so it expires instead of reopening and
	// standby patients are not notified.
	assert.Equal(t, entity.SlotStatusExpired, f.slots.get(slot.ID).Status)
	assert.Empty(t, f.publisher.published())
}

func TestCancelBookingWithoutReopen(t *testing.T) {
	f := newBookingFixture(t, false)
	slot := f.addOpenSlot()

	booking, err := f.usecase.Book(context.Background(), f.patient, slot.ID)
	require.NoError(t, err)

	require.NoError(t, f.usecase.Cancel(context.Background(), f.patient, booking.ID))

	assert.Equal(t, entity.SlotStatusCancelled, f.slots.get(slot.ID).Status)
	assert.Empty(t, f.publisher.published())
}

func TestCancelBookingByClinic(t *testing.T) {
	f := newBookingFixture(t, true)
	slot := f.addOpenSlot()

	booking, err := f.usecase.Book(context.Background(), f.patient, slot.ID)
	require.NoError(t, err)

	// The clinic owning the slot may cancel the booking
	require.NoError(t, f.usecase.Cancel(context.Background(), f.clinic, booking.ID))
	assert.Equal(t, entity.SlotStatusOpen, f.slots.get(slot.ID).Status)
}

func TestCancelBookingAuthorization(t *testing.T) {
	f := newBookingFixture(t, true)
	slot := f.addOpenSlot()

	booking, err := f.usecase.Book(context.Background(), f.patient, slot.ID)
	require.NoError(t, err)

	otherPatient := entity.Principal{UserID: uuid.New(), Role: entity.RolePatient}
	assert.ErrorIs(t, f.usecase.Cancel(context.Background(), otherPatient, booking.ID), ErrNotBookingOwner)

	otherClinic := entity.Principal{UserID: uuid.New(), Role: entity.RoleClinic}
	assert.ErrorIs(t, f.usecase.Cancel(context.Background(), otherClinic, booking.ID), ErrNotBookingOwner)

	assert.ErrorIs(t, f.usecase.Cancel(context.Background(), f.patient, uuid.New()), ErrBookingNotFound)
}

func TestListPatientBookings(t *testing.T) {
	f := newBookingFixture(t, true)

	first := f.addOpenSlot()
	second := f.addOpenSlot()

	_, err := f.usecase.Book(context.Background(), f.patient, first.ID)
	require.NoError(t, err)

	other := entity.Principal{UserID: uuid.New(), Role: entity.RolePatient}
	_, err = f.usecase.Book(context.Background(), other, second.ID)
	require.NoError(t, err)

	listed, err := f.usecase.ListPatientBookings(context.Background(), f.patient)
	require.NoError(t, err)
	require.Equal(t, 1, listed.Total)
	assert.Equal(t, first.ID, listed.Bookings[0].SlotID)
}

func TestListClinicBookings(t *testing.T) {
	f := newBookingFixture(t, true)
	slot := f.addOpenSlot()

	_, err := f.usecase.Book(context.Background(), f.patient, slot.ID)
	require.NoError(t, err)

	listed, err := f.usecase.ListClinicBookings(context.Background(), f.clinic)
	require.NoError(t, err)
	assert.Equal(t, 1, listed.Total)

	otherClinic := entity.Principal{UserID: uuid.New(), Role: entity.RoleClinic}
	listed, err = f.usecase.ListClinicBookings(context.Background(), otherClinic)
	require.NoError(t, err)
	assert.Equal(t, 0, listed.Total)
}
