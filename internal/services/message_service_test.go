package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warble-app/warble-server/internal/apperrors"
	"github.com/warble-app/warble-server/internal/models"
)

func TestCreateMessage(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	messages := NewMessageService(db)
	user1, _ := seedUsers(t, users)

	msg, err := messages.Create(user1.ID, "Testing, testing, 123.")
	require.NoError(t, err)
	assert.NotZero(t, msg.ID)
	assert.Equal(t, user1.ID, msg.UserID)
	assert.False(t, msg.CreatedAt.IsZero(), "timestamp is server-assigned")

	listed, err := messages.ListByUser(user1.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestCreateMessageLength(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	messages := NewMessageService(db)
	user1, _ := seedUsers(t, users)

	_, err := messages.Create(user1.ID, strings.Repeat("Testing", 100))
	assert.ErrorIs(t, err, apperrors.ErrMessageTooLong)

	_, err = messages.Create(user1.ID, strings.Repeat("a", models.MaxMessageLength+1))
	assert.ErrorIs(t, err, apperrors.ErrMessageTooLong)

	// exactly 140 characters is accepted
	_, err = messages.Create(user1.ID, strings.Repeat("a", models.MaxMessageLength))
	assert.NoError(t, err)

	_, err = messages.Create(user1.ID, "   ")
	assert.ErrorIs(t, err, apperrors.ErrMessageTextRequired)

	listed, err := messages.ListByUser(user1.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestCreateMessageLengthCountsCharacters(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	messages := NewMessageService(db)
	user1, _ := seedUsers(t, users)

	// 140 two-byte characters is within the limit; bytes don't count
	msg, err := messages.Create(user1.ID, strings.Repeat("é", models.MaxMessageLength))
	require.NoError(t, err)
	assert.Equal(t, models.MaxMessageLength, utf8.RuneCountInString(msg.Text))

	_, err = messages.Create(user1.ID, strings.Repeat("é", models.MaxMessageLength+1))
	assert.ErrorIs(t, err, apperrors.ErrMessageTooLong)

	_, err = messages.Create(user1.ID, strings.Repeat("警", models.MaxMessageLength))
	assert.NoError(t, err)
}

func TestDeleteMessageOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	messages := NewMessageService(db)
	user1, user2 := seedUsers(t, users)

	msg, err := messages.Create(user1.ID, "TestMessage1")
	require.NoError(t, err)

	err = messages.Delete(user2.ID, msg.ID)
	assert.ErrorIs(t, err, apperrors.ErrAccessUnauthorized)

	// still there
	_, err = messages.GetByID(msg.ID)
	require.NoError(t, err)

	require.NoError(t, messages.Delete(user1.ID, msg.ID))
	_, err = messages.GetByID(msg.ID)
	assert.ErrorIs(t, err, apperrors.ErrMessageNotFound)
}

func TestLikeUnlike(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	messages := NewMessageService(db)
	user1, user2 := seedUsers(t, users)

	msg, err := messages.Create(user1.ID, "like me")
	require.NoError(t, err)

	// liking your own message is rejected
	assert.ErrorIs(t, messages.Like(user1.ID, msg.ID), apperrors.ErrSelfLike)

	require.NoError(t, messages.Like(user2.ID, msg.ID))
	liked, err := messages.HasLiked(user2.ID, msg.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	// a second like is a no-op
	require.NoError(t, messages.Like(user2.ID, msg.ID))
	var count int64
	require.NoError(t, db.Model(&models.Like{}).
		Where("user_id = ? AND message_id = ?", user2.ID, msg.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	likedMessages, err := messages.LikedMessages(user2.ID)
	require.NoError(t, err)
	require.Len(t, likedMessages, 1)
	assert.Equal(t, msg.ID, likedMessages[0].ID)

	require.NoError(t, messages.Unlike(user2.ID, msg.ID))
	liked, err = messages.HasLiked(user2.ID, msg.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestTimelines(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	social := NewSocialService(db)
	messages := NewMessageService(db)
	user1, user2 := seedUsers(t, users)
	user3, err := users.Signup("user3", "user3@user3.com", "password", "")
	require.NoError(t, err)

	_, err = messages.Create(user1.ID, "from user1")
	require.NoError(t, err)
	_, err = messages.Create(user2.ID, "from user2")
	require.NoError(t, err)
	_, err = messages.Create(user3.ID, "from user3")
	require.NoError(t, err)

	require.NoError(t, social.Follow(user1.ID, user2.ID))

	// home timeline: followed users plus self, not user3
	home, err := messages.HomeTimeline(user1.ID)
	require.NoError(t, err)
	require.Len(t, home, 2)
	texts := []string{home[0].Text, home[1].Text}
	assert.Contains(t, texts, "from user1")
	assert.Contains(t, texts, "from user2")

	public, err := messages.PublicTimeline()
	require.NoError(t, err)
	assert.Len(t, public, 3)
	// newest first
	assert.Equal(t, "from user3", public[0].Text)
}
