package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/warble-app/warble-server/internal/apperrors"
	"github.com/warble-app/warble-server/internal/session"
	"github.com/warble-app/warble-server/internal/utils"
)

// pathID parses the {id} path segment.
func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		return 0, apperrors.InvalidArg("invalid id")
	}
	return uint(id), nil
}

func httpStatus(err error) int {
	var ae *apperrors.AppError
	if errors.As(err, &ae) {
		switch ae.Code {
		case apperrors.CodeInvalidArgument, apperrors.CodeAlreadyExists:
			return http.StatusBadRequest
		case apperrors.CodeNotFound:
			return http.StatusNotFound
		case apperrors.CodeUnauthenticated:
			return http.StatusUnauthorized
		case apperrors.CodePermissionDenied:
			return http.StatusForbidden
		}
	}
	return http.StatusInternalServerError
}

// writeError renders a service error. Internal detail never reaches the
// client; only the AppError message does.
func writeError(w http.ResponseWriter, err error) {
	status := httpStatus(err)
	msg := "Internal server error"
	var ae *apperrors.AppError
	if errors.As(err, &ae) && status != http.StatusInternalServerError {
		msg = ae.Message
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	utils.JSONError(w, status, msg)
}

// failOrDeny renders err, except that authorization failures follow the
// flash-and-redirect convention: the message lands in the session and the
// client goes back to the public landing view with nothing mutated.
func failOrDeny(w http.ResponseWriter, r *http.Request, sessions *session.Store, err error) {
	var ae *apperrors.AppError
	if errors.As(err, &ae) && ae.Code == apperrors.CodePermissionDenied {
		sessions.Flash(w, r, ae.Message)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	writeError(w, err)
}
