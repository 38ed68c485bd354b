package repository

import (
	"context"

	"quickdoc/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConfirmationRepository interface {
	Create(ctx context.Context, db *gorm.DB, confirmation *entity.SlotConfirmation) error
	FindByToken(ctx context.Context, db *gorm.DB, token uuid.UUID) (*entity.SlotConfirmation, error)

	// MarkUsed flips the used flag ONLY if the token is still unused.
	// Returns affected rows: 1 = claimed, 0 = already used.
	MarkUsed(ctx context.Context, db *gorm.DB, token uuid.UUID) (int64, error)
}
