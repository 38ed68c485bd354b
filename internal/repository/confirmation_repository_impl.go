package repository

import (
	"context"
	"errors"

	"quickdoc/internal/domain/entity"
	domainRepo "quickdoc/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type confirmationRepository struct{}

func NewConfirmationRepository() domainRepo.ConfirmationRepository {
	return &confirmationRepository{}
}

func (r *confirmationRepository) Create(ctx context.Context, db *gorm.DB, confirmation *entity.SlotConfirmation) error {
	return db.WithContext(ctx).Create(confirmation).Error
}

func (r *confirmationRepository) FindByToken(ctx context.Context, db *gorm.DB, token uuid.UUID) (*entity.SlotConfirmation, error) {
	var confirmation entity.SlotConfirmation
	err := db.WithContext(ctx).Where("token = ?", token).First(&confirmation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &confirmation, nil
}

func (r *confirmationRepository) MarkUsed(ctx context.Context, db *gorm.DB, token uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.SlotConfirmation{}).
		Where("token = ? AND used = ?", token, false).
		Update("used", true)
	return result.RowsAffected, result.Error
}
