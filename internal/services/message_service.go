package services

import (
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/warble-app/warble-server/internal/apperrors"
	"github.com/warble-app/warble-server/internal/models"
	"github.com/warble-app/warble-server/internal/repositories"
)

// TimelineLimit caps how many messages a timeline view returns.
const TimelineLimit = 100

// MessageService implements the message board: posting, deleting, liking.
type MessageService struct {
	messages *repositories.MessageRepository
	social   *repositories.SocialRepository
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{
		messages: repositories.NewMessageRepository(db),
		social:   repositories.NewSocialRepository(db),
	}
}

// Create persists a new message with a server-assigned timestamp. Blank text
// and text over 140 characters are rejected before the database is touched.
func (s *MessageService) Create(userID uint, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.ErrMessageTextRequired
	}
	if utf8.RuneCountInString(text) > models.MaxMessageLength {
		return nil, apperrors.ErrMessageTooLong
	}

	message := &models.Message{UserID: userID, Text: text}
	if err := s.messages.Create(message); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.ErrDatabase(err)
	}
	return message, nil
}

func (s *MessageService) GetByID(messageID uint) (*models.Message, error) {
	message, err := s.messages.GetByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMessageNotFound
		}
		return nil, apperrors.ErrDatabase(err)
	}
	return message, nil
}

// Delete removes a message. Only the owner may delete it.
func (s *MessageService) Delete(userID, messageID uint) error {
	message, err := s.GetByID(messageID)
	if err != nil {
		return err
	}
	if message.UserID != userID {
		return apperrors.ErrAccessUnauthorized
	}
	if err := s.messages.Delete(messageID); err != nil {
		return apperrors.ErrDatabase(err)
	}
	return nil
}

// Like records that a user liked a message. Liking your own message is
// rejected; liking twice is a no-op.
func (s *MessageService) Like(userID, messageID uint) error {
	message, err := s.GetByID(messageID)
	if err != nil {
		return err
	}
	if message.UserID == userID {
		return apperrors.ErrSelfLike
	}
	if err := s.social.Like(userID, messageID); err != nil {
		return apperrors.ErrDatabase(err)
	}
	return nil
}

// Unlike removes a like. Removing a missing like is a no-op.
func (s *MessageService) Unlike(userID, messageID uint) error {
	if err := s.social.Unlike(userID, messageID); err != nil {
		return apperrors.ErrDatabase(err)
	}
	return nil
}

func (s *MessageService) LikeCount(messageID uint) (int64, error) {
	count, err := s.social.LikeCount(messageID)
	if err != nil {
		return 0, apperrors.ErrDatabase(err)
	}
	return count, nil
}

func (s *MessageService) HasLiked(userID, messageID uint) (bool, error) {
	ok, err := s.social.HasLiked(userID, messageID)
	if err != nil {
		return false, apperrors.ErrDatabase(err)
	}
	return ok, nil
}

// HomeTimeline lists the newest messages from the users userID follows,
// plus userID's own.
func (s *MessageService) HomeTimeline(userID uint) ([]models.Message, error) {
	ids, err := s.social.FollowingIDs(userID)
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}
	ids = append(ids, userID)

	messages, err := s.messages.Timeline(ids, TimelineLimit)
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}
	return messages, nil
}

// PublicTimeline lists the newest messages from everyone, for anonymous
// visitors.
func (s *MessageService) PublicTimeline() ([]models.Message, error) {
	messages, err := s.messages.Latest(TimelineLimit)
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}
	return messages, nil
}

// ListByUser lists a user's own messages, newest first.
func (s *MessageService) ListByUser(userID uint) ([]models.Message, error) {
	messages, err := s.messages.ListByUser(userID, TimelineLimit)
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}
	return messages, nil
}

// LikedMessages lists the messages userID has liked.
func (s *MessageService) LikedMessages(userID uint) ([]models.Message, error) {
	messages, err := s.messages.ListLikedBy(userID)
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}
	return messages, nil
}
