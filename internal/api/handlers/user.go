package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/warble-app/warble-server/internal/api/middleware"
	"github.com/warble-app/warble-server/internal/apperrors"
	"github.com/warble-app/warble-server/internal/models"
	"github.com/warble-app/warble-server/internal/repositories"
	"github.com/warble-app/warble-server/internal/services"
	"github.com/warble-app/warble-server/internal/session"
	"github.com/warble-app/warble-server/internal/utils"
)

const presignTTL = 15 * time.Minute

// UserHandler serves profiles, the follow graph and account management.
type UserHandler struct {
	users    *services.UserService
	social   *services.SocialService
	messages *services.MessageService
	sessions *session.Store
}

func NewUserHandler(users *services.UserService, social *services.SocialService, messages *services.MessageService, sessions *session.Store) *UserHandler {
	return &UserHandler{users: users, social: social, messages: messages, sessions: sessions}
}

// GET /
// The landing view. Authenticated users see the messages of the people they
// follow plus their own; visitors see the public timeline.
func (h *UserHandler) Home(w http.ResponseWriter, r *http.Request) {
	flashes := h.sessions.Flashes(w, r)

	userID, ok := h.sessions.CurrentUserID(r)
	if !ok {
		messages, err := h.messages.PublicTimeline()
		if err != nil {
			writeError(w, err)
			return
		}
		utils.JSONResponse(w, http.StatusOK, utils.Payload{
			Success: true,
			Message: "What's happening?",
			Data: map[string]any{
				"view":     "home_anon",
				"messages": messages,
				"flashes":  flashes,
			},
		})
		return
	}

	user, err := h.users.GetByID(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	messages, err := h.messages.HomeTimeline(userID)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "What's happening?",
		Data: map[string]any{
			"view":     "home",
			"handle":   "@" + user.Username,
			"user":     user,
			"messages": messages,
			"flashes":  flashes,
		},
	})
}

// GET /users?q=
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.Search(r.URL.Query().Get("q"), 50)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{Success: true, Data: map[string]any{"users": users}})
}

// GET /users/{id}
func (h *UserHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	user, err := h.users.GetByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	messages, err := h.messages.ListByUser(id)
	if err != nil {
		writeError(w, err)
		return
	}

	data := map[string]any{
		"handle":   "@" + user.Username,
		"user":     user,
		"messages": messages,
	}
	if viewerID, ok := h.sessions.CurrentUserID(r); ok && viewerID != id {
		following, err := h.social.IsFollowing(viewerID, id)
		if err != nil {
			writeError(w, err)
			return
		}
		data["following"] = following
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{Success: true, Data: data})
}

// GET /users/{id}/following
func (h *UserHandler) Following(w http.ResponseWriter, r *http.Request) {
	h.userList(w, r, h.social.Following)
}

// GET /users/{id}/followers
func (h *UserHandler) Followers(w http.ResponseWriter, r *http.Request) {
	h.userList(w, r, h.social.Followers)
}

func (h *UserHandler) userList(w http.ResponseWriter, r *http.Request, list func(uint) ([]models.User, error)) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.users.GetByID(id); err != nil {
		writeError(w, err)
		return
	}
	users, err := list(id)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{Success: true, Data: map[string]any{"users": users}})
}

// GET /users/{id}/likes
func (h *UserHandler) Likes(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	messages, err := h.messages.LikedMessages(id)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{Success: true, Data: map[string]any{"messages": messages}})
}

// POST /users/follow/{id}
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := middleware.UserID(r)
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.social.Follow(viewerID, id); err != nil {
		failOrDeny(w, r, h.sessions, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/users/%d/following", viewerID), http.StatusFound)
}

// POST /users/stop-following/{id}
func (h *UserHandler) StopFollowing(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := middleware.UserID(r)
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.social.Unfollow(viewerID, id); err != nil {
		failOrDeny(w, r, h.sessions, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/users/%d/following", viewerID), http.StatusFound)
}

// GET /users/profile
func (h *UserHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r)
	user, err := h.users.GetByID(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Edit your profile.",
		Data: map[string]any{
			"view":    "edit_profile",
			"fields":  []string{"username", "email", "image_url", "header_image_url", "bio", "location", "password"},
			"user":    user,
			"flashes": h.sessions.Flashes(w, r),
		},
	})
}

// POST /users/profile
// The edit applies only when the submitted password verifies.
func (h *UserHandler) Edit(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r)
	if err := r.ParseForm(); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	update := services.ProfileUpdate{
		Username:       r.PostFormValue("username"),
		Email:          r.PostFormValue("email"),
		ImageURL:       r.PostFormValue("image_url"),
		HeaderImageURL: r.PostFormValue("header_image_url"),
		Bio:            r.PostFormValue("bio"),
		Location:       r.PostFormValue("location"),
	}

	user, err := h.users.UpdateProfile(userID, update, r.PostFormValue("password"))
	if err != nil {
		failOrDeny(w, r, h.sessions, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/users/%d", user.ID), http.StatusFound)
}

// POST /users/profile/image/presign
// Hands the client a presigned PUT URL for an avatar or header image; the
// resulting public URL goes back through the profile edit form.
func (h *UserHandler) PresignImage(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r)
	if err := r.ParseForm(); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	kind := r.PostFormValue("kind")
	if kind != "avatars" && kind != "headers" {
		utils.JSONError(w, http.StatusBadRequest, "kind must be avatars or headers")
		return
	}
	ext := r.PostFormValue("ext")
	if ext == "" {
		ext = ".png"
	}

	key := utils.MediaObjectKey(kind, userID, ext)
	uploadURL, err := repositories.PresignedPutURL(r.Context(), key, presignTTL)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to presign upload")
		utils.JSONError(w, http.StatusInternalServerError, "Failed to presign upload")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Data: map[string]any{
			"uploadUrl": uploadURL,
			"publicUrl": repositories.MediaPublicURL(key),
			"key":       key,
		},
	})
}

// GET /media/{key...}
// Serves a stored image when the bucket has no public base URL: the object
// is checked and the client is redirected to a short-lived download URL.
func (h *UserHandler) MediaImage(w http.ResponseWriter, r *http.Request) {
	if repositories.MediaClient == nil {
		writeError(w, apperrors.NotFound("Image not found"))
		return
	}

	key := r.PathValue("key")
	exists, err := repositories.MediaObjectExists(r.Context(), key)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to check stored image")
		writeError(w, apperrors.Internal("Failed to load image"))
		return
	}
	if !exists {
		writeError(w, apperrors.NotFound("Image not found"))
		return
	}

	downloadURL, err := repositories.PresignedGetURL(r.Context(), key, presignTTL)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to presign download")
		writeError(w, apperrors.Internal("Failed to load image"))
		return
	}
	http.Redirect(w, r, downloadURL, http.StatusFound)
}

// POST /users/delete
// Deletes the account and everything it owns, then ends the session.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r)
	if err := h.users.Delete(userID); err != nil {
		failOrDeny(w, r, h.sessions, err)
		return
	}
	if err := h.sessions.Logout(w, r); err != nil {
		log.Error().Err(err).Msg("Failed to clear session")
	}
	http.Redirect(w, r, "/signup", http.StatusFound)
}
