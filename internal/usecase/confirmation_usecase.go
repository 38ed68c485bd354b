package usecase

import (
	"context"
	"errors"
	"time"

	"quickdoc/internal/delivery/dto"
	"quickdoc/internal/domain/entity"
	"quickdoc/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrTokenInvalid = errors.New("confirmation token not found")
	ErrTokenUsed    = errors.New("confirmation token already used")
	ErrTokenExpired = errors.New("confirmation token expired")
)

// ConfirmationUsecase redeems single-use tokens issued to standby
// candidates, booking the slot through the regular coordinator so all
// locking and state-machine guarantees hold.
type ConfirmationUsecase interface {
	Confirm(ctx context.Context, token uuid.UUID) (*dto.BookingResponse, error)
}

type confirmationUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	confirmRepo    repository.ConfirmationRepository
	bookingUsecase BookingUsecase
}

func NewConfirmationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	confirmRepo repository.ConfirmationRepository,
	bookingUsecase BookingUsecase,
) ConfirmationUsecase {
	return &confirmationUsecase{
		db:             db,
		log:            log,
		confirmRepo:    confirmRepo,
		bookingUsecase: bookingUsecase,
	}
}

// Confirm books the slot for the token's patient. The token is only
// consumed on a successful booking; losing the slot race leaves it
// unused (the slot is gone either way).
func (u *confirmationUsecase) Confirm(ctx context.Context, token uuid.UUID) (*dto.BookingResponse, error) {
	confirmation, err := u.confirmRepo.FindByToken(ctx, u.db, token)
	if err != nil {
		u.log.Warnf("Failed to find confirmation %s: %+v", token, err)
		return nil, err
	}
	if confirmation == nil {
		return nil, ErrTokenInvalid
	}
	if confirmation.Used {
		return nil, ErrTokenUsed
	}
	if confirmation.IsExpired(time.Now().UTC()) {
		return nil, ErrTokenExpired
	}

	principal := entity.Principal{UserID: confirmation.PatientID, Role: entity.RolePatient}
	booking, err := u.bookingUsecase.Book(ctx, principal, confirmation.SlotID)
	if err != nil {
		return nil, err
	}

	rows, err := u.confirmRepo.MarkUsed(ctx, u.db, token)
	if err != nil {
		// The booking stands; a reusable token is harmless because the
		// slot can no longer be won through it.
		u.log.Warnf("Failed to mark confirmation %s used: %+v", token, err)
	} else if rows == 0 {
		u.log.Warnf("Confirmation %s was concurrently marked used", token)
	}

	u.log.Infof("Confirmation redeemed: token=%s, patient=%s, slot=%s", token, confirmation.PatientID, confirmation.SlotID)
	return booking, nil
}
