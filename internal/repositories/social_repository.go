package repositories

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/warble-app/warble-server/internal/models"
)

// SocialRepository persists follow edges and likes.
type SocialRepository struct {
	db *gorm.DB
}

func NewSocialRepository(db *gorm.DB) *SocialRepository {
	return &SocialRepository{db: db}
}

// Follow inserts the edge follower→followed. A duplicate edge is swallowed
// by the ON CONFLICT clause, so repeating a follow is a no-op.
func (r *SocialRepository) Follow(followerID, followedID uint) error {
	follow := models.Follow{FollowerID: followerID, FollowedID: followedID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow).Error
}

func (r *SocialRepository) Unfollow(followerID, followedID uint) error {
	return r.db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{}).Error
}

func (r *SocialRepository) IsFollowing(followerID, followedID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}

// FollowingIDs lists the ids of the users followerID follows, oldest edge first.
func (r *SocialRepository) FollowingIDs(followerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ?", followerID).
		Order("id").
		Pluck("followed_id", &ids).Error
	return ids, err
}

// FollowerIDs lists the ids of the users following followedID, oldest edge first.
func (r *SocialRepository) FollowerIDs(followedID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Follow{}).
		Where("followed_id = ?", followedID).
		Order("id").
		Pluck("follower_id", &ids).Error
	return ids, err
}

func (r *SocialRepository) ListByIDs(ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	err := r.db.Where("id IN ?", ids).Order("username").Find(&users).Error
	return users, err
}

// Like inserts the user→message like, ignoring duplicates.
func (r *SocialRepository) Like(userID, messageID uint) error {
	like := models.Like{UserID: userID, MessageID: messageID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error
}

func (r *SocialRepository) Unlike(userID, messageID uint) error {
	return r.db.Where("user_id = ? AND message_id = ?", userID, messageID).
		Delete(&models.Like{}).Error
}

func (r *SocialRepository) HasLiked(userID, messageID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&count).Error
	return count > 0, err
}

func (r *SocialRepository) LikeCount(messageID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("message_id = ?", messageID).Count(&count).Error
	return count, err
}
