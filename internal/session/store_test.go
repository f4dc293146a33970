package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTrip replays the cookies set by a previous response on a new request.
func roundTrip(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range rec.Result().Cookies() {
		req.AddCookie(cookie)
	}
	return req
}

func TestLoginBindsIdentity(t *testing.T) {
	store := NewStore("development-key", false)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rec := httptest.NewRecorder()

	_, ok := store.CurrentUserID(req)
	assert.False(t, ok)

	require.NoError(t, store.Login(rec, req, 42))

	next := roundTrip(t, rec)
	id, ok := store.CurrentUserID(next)
	require.True(t, ok)
	assert.EqualValues(t, 42, id)
}

func TestLogoutClearsIdentity(t *testing.T) {
	store := NewStore("development-key", false)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, store.Login(rec, req, 42))

	authed := roundTrip(t, rec)
	rec2 := httptest.NewRecorder()
	require.NoError(t, store.Logout(rec2, authed))

	next := roundTrip(t, rec2)
	_, ok := store.CurrentUserID(next)
	assert.False(t, ok)
}

func TestFlashesAreOneTime(t *testing.T) {
	store := NewStore("development-key", false)

	req := httptest.NewRequest(http.MethodPost, "/messages/new", nil)
	rec := httptest.NewRecorder()
	store.Flash(rec, req, "Access unauthorized.")

	next := roundTrip(t, rec)
	rec2 := httptest.NewRecorder()
	msgs := store.Flashes(rec2, next)
	require.Equal(t, []string{"Access unauthorized."}, msgs)

	// drained: a second render sees nothing
	after := roundTrip(t, rec2)
	rec3 := httptest.NewRecorder()
	assert.Empty(t, store.Flashes(rec3, after))
}
