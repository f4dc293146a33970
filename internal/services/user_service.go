package services

import (
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/warble-app/warble-server/internal/apperrors"
	"github.com/warble-app/warble-server/internal/models"
	"github.com/warble-app/warble-server/internal/repositories"
	"github.com/warble-app/warble-server/internal/utils"
)

// MinPasswordLength matches the original signup form rule. No maximum and no
// complexity requirement.
const MinPasswordLength = 6

// ProfileUpdate carries the editable profile fields. Blank image URLs fall
// back to the defaults.
type ProfileUpdate struct {
	Username       string
	Email          string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
}

// UserService implements signup, authentication and profile management on
// top of the user repository and bcrypt.
type UserService struct {
	users *repositories.UserRepository
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{users: repositories.NewUserRepository(db)}
}

// Signup validates the input, hashes the password and creates the user.
// Duplicate username or email surfaces as ErrCredentialsTaken.
func (s *UserService) Signup(username, email, password, imageURL string) (*models.User, error) {
	if username == "" {
		return nil, apperrors.ErrUsernameRequired
	}
	if email == "" {
		return nil, apperrors.ErrEmailRequired
	}
	if password == "" {
		return nil, apperrors.ErrPasswordRequired
	}
	if len(password) < MinPasswordLength {
		return nil, apperrors.ErrPasswordTooShort
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to hash password", err)
	}

	if imageURL == "" {
		imageURL = models.DefaultImageURL
	}

	user := &models.User{
		Username:       username,
		Email:          email,
		Password:       string(hashed),
		ImageURL:       imageURL,
		HeaderImageURL: models.DefaultHeaderImageURL,
	}

	if err := s.users.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrCredentialsTaken
		}
		return nil, apperrors.ErrDatabase(err)
	}
	return user, nil
}

// Authenticate looks the user up by exact username and verifies the
// password. A wrong username or password is a normal negative outcome:
// the result is (nil, nil), never an error.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.ErrDatabase(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil
	}
	return user, nil
}

// UpdateProfile applies the edit only when the supplied password verifies
// against the account, the same gate the original edit form has.
func (s *UserService) UpdateProfile(userID uint, update ProfileUpdate, password string) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.ErrDatabase(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperrors.ErrAccessUnauthorized
	}
	if update.Username == "" {
		return nil, apperrors.ErrUsernameRequired
	}
	if update.Email == "" {
		return nil, apperrors.ErrEmailRequired
	}

	user.Username = update.Username
	user.Email = update.Email
	user.Bio = update.Bio
	user.Location = update.Location
	user.ImageURL = update.ImageURL
	if user.ImageURL == "" {
		user.ImageURL = models.DefaultImageURL
	}
	user.HeaderImageURL = update.HeaderImageURL
	if user.HeaderImageURL == "" {
		user.HeaderImageURL = models.DefaultHeaderImageURL
	}

	if err := s.users.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrCredentialsTaken
		}
		return nil, apperrors.ErrDatabase(err)
	}
	return user, nil
}

// Delete removes the account and every message, like and follow edge that
// belongs to it.
func (s *UserService) Delete(userID uint) error {
	if err := s.users.Delete(userID); err != nil {
		return apperrors.ErrDatabase(err)
	}
	return nil
}

func (s *UserService) GetByID(userID uint) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.ErrDatabase(err)
	}
	return user, nil
}

func (s *UserService) GetByUsername(username string) (*models.User, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.ErrDatabase(err)
	}
	return user, nil
}

func (s *UserService) Search(q string, limit int) ([]models.User, error) {
	users, err := s.users.Search(q, limit)
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}
	return users, nil
}

// FindOrCreateOAuth resolves an OAuth login: an existing account with the
// e-mail wins, otherwise a fresh user is created with a random password.
func (s *UserService) FindOrCreateOAuth(username, email, pictureURL string) (*models.User, bool, error) {
	user, err := s.users.GetByEmail(email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperrors.ErrDatabase(err)
	}

	password, err := utils.GenerateSecureToken(24)
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.CodeInternal, "failed to generate password", err)
	}

	created, err := s.Signup(username, email, password, pictureURL)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("OAuth signup failed")
		return nil, false, err
	}
	return created, true, nil
}
