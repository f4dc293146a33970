package handlers

import (
	"fmt"
	"net/http"

	"github.com/warble-app/warble-server/internal/api/middleware"
	"github.com/warble-app/warble-server/internal/services"
	"github.com/warble-app/warble-server/internal/session"
	"github.com/warble-app/warble-server/internal/utils"
)

// MessageHandler serves posting, deleting and liking messages.
type MessageHandler struct {
	messages *services.MessageService
	sessions *session.Store
}

func NewMessageHandler(messages *services.MessageService, sessions *session.Store) *MessageHandler {
	return &MessageHandler{messages: messages, sessions: sessions}
}

// POST /messages/new
func (h *MessageHandler) New(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r)
	if err := r.ParseForm(); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if _, err := h.messages.Create(userID, r.PostFormValue("text")); err != nil {
		failOrDeny(w, r, h.sessions, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/users/%d", userID), http.StatusFound)
}

// GET /messages/{id}
func (h *MessageHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	message, err := h.messages.GetByID(id)
	if err != nil {
		writeError(w, err)
		return
	}

	likes, err := h.messages.LikeCount(id)
	if err != nil {
		writeError(w, err)
		return
	}

	data := map[string]any{"message": message, "likes": likes}
	if viewerID, ok := h.sessions.CurrentUserID(r); ok {
		liked, err := h.messages.HasLiked(viewerID, id)
		if err != nil {
			writeError(w, err)
			return
		}
		data["liked"] = liked
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{Success: true, Data: data})
}

// POST /messages/{id}/delete
// Owner-only; anyone else is turned away with nothing mutated.
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r)
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.messages.Delete(userID, id); err != nil {
		failOrDeny(w, r, h.sessions, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/users/%d", userID), http.StatusFound)
}

// POST /messages/{id}/like
func (h *MessageHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r)
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.messages.Like(userID, id); err != nil {
		failOrDeny(w, r, h.sessions, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// POST /messages/{id}/unlike
func (h *MessageHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r)
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.messages.Unlike(userID, id); err != nil {
		failOrDeny(w, r, h.sessions, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
