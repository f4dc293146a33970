package repositories

import (
	"gorm.io/gorm"

	"github.com/warble-app/warble-server/internal/models"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *MessageRepository) GetByID(id uint) (*models.Message, error) {
	var message models.Message
	if err := r.db.First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// Delete removes the message and any likes pointing at it.
func (r *MessageRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Message{}, id).Error
	})
}

func (r *MessageRepository) ListByUser(userID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// Timeline lists the newest messages authored by any of the given users.
func (r *MessageRepository) Timeline(userIDs []uint, limit int) ([]models.Message, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var messages []models.Message
	err := r.db.Where("user_id IN ?", userIDs).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// Latest lists the newest messages regardless of author (the public timeline).
func (r *MessageRepository) Latest(limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// ListLikedBy lists the messages a user has liked, newest like first.
func (r *MessageRepository) ListLikedBy(userID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at DESC").
		Find(&messages).Error
	return messages, err
}
