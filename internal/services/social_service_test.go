package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warble-app/warble-server/internal/apperrors"
	"github.com/warble-app/warble-server/internal/models"
)

func TestFollowUnfollow(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	social := NewSocialService(db)
	user1, user2 := seedUsers(t, users)

	following, err := social.IsFollowing(user1.ID, user2.ID)
	require.NoError(t, err)
	assert.False(t, following)

	require.NoError(t, social.Follow(user1.ID, user2.ID))

	following, err = social.IsFollowing(user1.ID, user2.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// the edge is directed
	following, err = social.IsFollowing(user2.ID, user1.ID)
	require.NoError(t, err)
	assert.False(t, following)

	followedBy, err := social.IsFollowedBy(user2.ID, user1.ID)
	require.NoError(t, err)
	assert.True(t, followedBy)

	require.NoError(t, social.Unfollow(user1.ID, user2.ID))

	following, err = social.IsFollowing(user1.ID, user2.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollowSelfRejected(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	social := NewSocialService(db)
	user1, _ := seedUsers(t, users)

	assert.ErrorIs(t, social.Follow(user1.ID, user1.ID), apperrors.ErrSelfFollow)
}

func TestFollowMissingUser(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	social := NewSocialService(db)
	user1, _ := seedUsers(t, users)

	assert.ErrorIs(t, social.Follow(user1.ID, 9999), apperrors.ErrUserNotFound)
}

func TestFollowIdempotent(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	social := NewSocialService(db)
	user1, user2 := seedUsers(t, users)

	require.NoError(t, social.Follow(user1.ID, user2.ID))
	require.NoError(t, social.Follow(user1.ID, user2.ID))

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", user1.ID, user2.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// unfollowing a missing edge is also a no-op
	require.NoError(t, social.Unfollow(user2.ID, user1.ID))
}

func TestFollowingAndFollowerLists(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	social := NewSocialService(db)
	user1, user2 := seedUsers(t, users)
	user3, err := users.Signup("user3", "user3@user3.com", "password", "")
	require.NoError(t, err)

	require.NoError(t, social.Follow(user1.ID, user2.ID))
	require.NoError(t, social.Follow(user1.ID, user3.ID))
	require.NoError(t, social.Follow(user3.ID, user1.ID))

	following, err := social.Following(user1.ID)
	require.NoError(t, err)
	require.Len(t, following, 2)
	assert.Equal(t, "user2", following[0].Username)
	assert.Equal(t, "user3", following[1].Username)

	followers, err := social.Followers(user1.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "user3", followers[0].Username)

	followers, err = social.Followers(user2.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "user1", followers[0].Username)
}
