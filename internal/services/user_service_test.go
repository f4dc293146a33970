package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/warble-app/warble-server/internal/apperrors"
	"github.com/warble-app/warble-server/internal/models"
	"github.com/warble-app/warble-server/internal/repositories"
)

const userImgURL = "https://images.example.com/custom-avatar.jpg"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repositories.ConnectTest()
	require.NoError(t, err)
	return db
}

func seedUsers(t *testing.T, svc *UserService) (*models.User, *models.User) {
	t.Helper()
	user1, err := svc.Signup("user1", "user1@user1.com", "password", "")
	require.NoError(t, err)
	user2, err := svc.Signup("user2", "user2@user2.com", "password", userImgURL)
	require.NoError(t, err)
	return user1, user2
}

func userCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	return count
}

func TestSignupSuccess(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user1, user2 := seedUsers(t, svc)

	assert.NotZero(t, user1.ID)
	assert.NotZero(t, user2.ID)
	assert.Equal(t, "user1", user1.Username)
	assert.Equal(t, "user1@user1.com", user1.Email)

	// the stored password is a verifying bcrypt hash, never the plaintext
	assert.NotEqual(t, "password", user1.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user1.Password), []byte("password")))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user2.Password), []byte("password")))

	assert.Equal(t, models.DefaultImageURL, user1.ImageURL)
	assert.Equal(t, userImgURL, user2.ImageURL)
	assert.Equal(t, models.DefaultHeaderImageURL, user1.HeaderImageURL)
	assert.Equal(t, models.DefaultHeaderImageURL, user2.HeaderImageURL)

	assert.Empty(t, user1.Bio)
	assert.Empty(t, user1.Location)
}

func TestSignupValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	tests := []struct {
		name     string
		username string
		email    string
		password string
		want     error
	}{
		{"missing username", "", "a@a.com", "password", apperrors.ErrUsernameRequired},
		{"missing email", "bad_user", "", "password", apperrors.ErrEmailRequired},
		{"missing password", "bad_user", "a@a.com", "", apperrors.ErrPasswordRequired},
		{"short password", "bad_user", "a@a.com", "12345", apperrors.ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(tt.username, tt.email, tt.password, "")
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.EqualValues(t, 0, userCount(t, db))
}

func TestSignupDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	seedUsers(t, svc)

	_, err := svc.Signup("user1", "fresh@fresh.com", "password", "")
	assert.ErrorIs(t, err, apperrors.ErrCredentialsTaken)

	_, err = svc.Signup("fresh_user", "user1@user1.com", "password", "")
	assert.ErrorIs(t, err, apperrors.ErrCredentialsTaken)

	// no new rows appeared
	assert.EqualValues(t, 2, userCount(t, db))
}

func TestAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	user1, _ := seedUsers(t, svc)

	got, err := svc.Authenticate("user1", "password")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user1.ID, got.ID)

	// wrong username and wrong password are negative results, not errors
	got, err = svc.Authenticate("user!", "password")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = svc.Authenticate("user1", "passw0rd")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	user1, _ := seedUsers(t, svc)

	update := ProfileUpdate{
		Username: "user1_renamed",
		Email:    "user1@user1.com",
		Bio:      "warbling away",
		Location: "the canopy",
	}

	_, err := svc.UpdateProfile(user1.ID, update, "wrong-password")
	assert.ErrorIs(t, err, apperrors.ErrAccessUnauthorized)

	updated, err := svc.UpdateProfile(user1.ID, update, "password")
	require.NoError(t, err)
	assert.Equal(t, "user1_renamed", updated.Username)
	assert.Equal(t, "warbling away", updated.Bio)
	assert.Equal(t, "the canopy", updated.Location)
	assert.Equal(t, models.DefaultImageURL, updated.ImageURL)

	// taking another user's username is still a uniqueness violation
	update.Username = "user2"
	_, err = svc.UpdateProfile(user1.ID, update, "password")
	assert.ErrorIs(t, err, apperrors.ErrCredentialsTaken)
}

func TestDeleteUserCascades(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	social := NewSocialService(db)
	messages := NewMessageService(db)

	user1, user2 := seedUsers(t, users)

	msg, err := messages.Create(user1.ID, "soon to vanish")
	require.NoError(t, err)
	_, err = messages.Create(user2.ID, "this one stays")
	require.NoError(t, err)

	require.NoError(t, social.Follow(user1.ID, user2.ID))
	require.NoError(t, social.Follow(user2.ID, user1.ID))
	require.NoError(t, messages.Like(user2.ID, msg.ID))

	require.NoError(t, users.Delete(user1.ID))

	_, err = users.GetByID(user1.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	// no dangling messages, likes or follow edges remain
	var count int64
	require.NoError(t, db.Model(&models.Message{}).Where("user_id = ?", user1.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	require.NoError(t, db.Model(&models.Like{}).Where("message_id = ?", msg.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	require.NoError(t, db.Model(&models.Follow{}).
		Where("follower_id = ? OR followed_id = ?", user1.ID, user1.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	// the other user's data is untouched
	remaining, err := messages.ListByUser(user2.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestFindOrCreateOAuth(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	user1, _ := seedUsers(t, svc)

	// existing e-mail resolves to the existing account
	got, created, err := svc.FindOrCreateOAuth("Someone Else", "user1@user1.com", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user1.ID, got.ID)

	got, created, err = svc.FindOrCreateOAuth("newbird", "newbird@gmail.com", userImgURL)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "newbird", got.Username)
	assert.Equal(t, userImgURL, got.ImageURL)
}
