package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/warble-app/warble-server/internal/api/services"
	"github.com/warble-app/warble-server/internal/apperrors"
	"github.com/warble-app/warble-server/internal/auth"
	internalservices "github.com/warble-app/warble-server/internal/services"
	"github.com/warble-app/warble-server/internal/session"
	"github.com/warble-app/warble-server/internal/utils"
)

// AuthHandler owns signup, login, logout and the Google OAuth flow.
type AuthHandler struct {
	users     *internalservices.UserService
	sessions  *session.Store
	jwtSecret string
}

func NewAuthHandler(users *internalservices.UserService, sessions *session.Store, jwtSecret string) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, jwtSecret: jwtSecret}
}

// GET /signup
func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Join Warble today.",
		Data: map[string]any{
			"view":    "signup",
			"fields":  []string{"username", "email", "password", "image_url"},
			"flashes": h.sessions.Flashes(w, r),
		},
	})
}

// POST /signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := h.users.Signup(
		r.PostFormValue("username"),
		r.PostFormValue("email"),
		r.PostFormValue("password"),
		r.PostFormValue("image_url"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.sessions.Login(w, r, user.ID); err != nil {
		log.Error().Err(err).Uint("user_id", user.ID).Msg("Failed to establish session")
		utils.JSONError(w, http.StatusInternalServerError, "Failed to establish session")
		return
	}

	h.respondAuthenticated(w, r, user.ID)
}

// GET /login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Welcome back.",
		Data: map[string]any{
			"view":    "login",
			"fields":  []string{"username", "password"},
			"flashes": h.sessions.Flashes(w, r),
		},
	})
}

// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := h.users.Authenticate(r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeError(w, apperrors.ErrInvalidCredentials)
		return
	}

	if err := h.sessions.Login(w, r, user.ID); err != nil {
		log.Error().Err(err).Uint("user_id", user.ID).Msg("Failed to establish session")
		utils.JSONError(w, http.StatusInternalServerError, "Failed to establish session")
		return
	}

	h.sessions.Flash(w, r, "Hello, "+user.Username+"!")
	h.respondAuthenticated(w, r, user.ID)
}

// POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		log.Error().Err(err).Msg("Failed to clear session")
	}
	h.sessions.Flash(w, r, "You have successfully logged out")
	http.Redirect(w, r, "/", http.StatusFound)
}

// respondAuthenticated finishes a successful signup or login. Browsers are
// redirected home; API clients asking for JSON get a bearer token instead.
func (h *AuthHandler) respondAuthenticated(w http.ResponseWriter, r *http.Request, userID uint) {
	if !strings.Contains(r.Header.Get("Accept"), "application/json") {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	user, err := h.users.GetByID(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := auth.GenerateToken(user, h.jwtSecret)
	if err != nil {
		log.Error().Err(err).Uint("user_id", userID).Msg("Failed to create token")
		utils.JSONError(w, http.StatusInternalServerError, "Failed to create token")
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Login successful",
		Data:    map[string]any{"token": token, "user": user},
	})
}

// GET /auth/google/login
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := GenerateState(map[string]string{"flow": "login"})
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to generate OAuth state")
		return
	}

	url := services.GoogleOauthConfig.AuthCodeURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// GET /auth/google/callback
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if _, err := DecodeState(r.FormValue("state")); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}

	token, err := services.GoogleOauthConfig.Exchange(context.Background(), r.FormValue("code"))
	if err != nil {
		log.Error().Err(err).Msg("OAuth code exchange failed")
		utils.JSONError(w, http.StatusInternalServerError, "Code exchange failed")
		return
	}

	client := services.GoogleOauthConfig.Client(context.Background(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to get user info")
		return
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	var googleUser struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.Unmarshal(data, &googleUser); err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to parse user info")
		return
	}

	user, created, err := h.users.FindOrCreateOAuth(googleUser.Name, googleUser.Email, googleUser.Picture)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.sessions.Login(w, r, user.ID); err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to establish session")
		return
	}
	if created {
		h.sessions.Flash(w, r, "Welcome to Warble, "+user.Username+"!")
	} else {
		h.sessions.Flash(w, r, "Hello, "+user.Username+"!")
	}

	http.Redirect(w, r, "/", http.StatusFound)
}
