package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/warble-app/warble-server/internal/apperrors"
	"github.com/warble-app/warble-server/internal/models"
	"github.com/warble-app/warble-server/internal/repositories"
)

// SocialService manages the follow graph.
type SocialService struct {
	social *repositories.SocialRepository
	users  *repositories.UserRepository
}

func NewSocialService(db *gorm.DB) *SocialService {
	return &SocialService{
		social: repositories.NewSocialRepository(db),
		users:  repositories.NewUserRepository(db),
	}
}

// Follow creates the edge follower→followed. Following yourself is rejected;
// following someone twice is a no-op.
func (s *SocialService) Follow(followerID, followedID uint) error {
	if followerID == followedID {
		return apperrors.ErrSelfFollow
	}
	if _, err := s.users.GetByID(followedID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.ErrDatabase(err)
	}
	if err := s.social.Follow(followerID, followedID); err != nil {
		return apperrors.ErrDatabase(err)
	}
	return nil
}

// Unfollow removes the edge. Removing a missing edge is a no-op.
func (s *SocialService) Unfollow(followerID, followedID uint) error {
	if err := s.social.Unfollow(followerID, followedID); err != nil {
		return apperrors.ErrDatabase(err)
	}
	return nil
}

// IsFollowing reports whether a follows b.
func (s *SocialService) IsFollowing(a, b uint) (bool, error) {
	ok, err := s.social.IsFollowing(a, b)
	if err != nil {
		return false, apperrors.ErrDatabase(err)
	}
	return ok, nil
}

// IsFollowedBy reports whether b follows a.
func (s *SocialService) IsFollowedBy(a, b uint) (bool, error) {
	ok, err := s.social.IsFollowing(b, a)
	if err != nil {
		return false, apperrors.ErrDatabase(err)
	}
	return ok, nil
}

// Following lists the users userID follows.
func (s *SocialService) Following(userID uint) ([]models.User, error) {
	ids, err := s.social.FollowingIDs(userID)
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}
	users, err := s.social.ListByIDs(ids)
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}
	return users, nil
}

// Followers lists the users following userID.
func (s *SocialService) Followers(userID uint) ([]models.User, error) {
	ids, err := s.social.FollowerIDs(userID)
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}
	users, err := s.social.ListByIDs(ids)
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}
	return users, nil
}
