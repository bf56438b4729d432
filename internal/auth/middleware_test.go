package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shreyannandanwar/CrewAI/internal/models"
)

type fakeUserLoader struct {
	user models.User
	err  error
}

func (f *fakeUserLoader) GetUserByID(id string) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	return f.user, nil
}

func gateRequest(t *testing.T, tokens *TokenService, loader UserLoader, authHeader string) (*httptest.ResponseRecorder, *models.User) {
	t.Helper()

	var seen *models.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := UserFromContext(r.Context()); ok {
			seen = &user
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()

	Middleware(tokens, loader)(next).ServeHTTP(rec, req)
	return rec, seen
}

func TestMiddlewareMissingHeader(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)
	rec, seen := gateRequest(t, tokens, &fakeUserLoader{}, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "No token provided")
	assert.Nil(t, seen)
}

func TestMiddlewareMalformedHeader(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)

	for _, header := range []string{"Basic abc", "Bearer", "Bearer ", "token-without-scheme"} {
		rec, seen := gateRequest(t, tokens, &fakeUserLoader{}, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.Contains(t, rec.Body.String(), "Invalid token", "header %q", header)
		assert.Nil(t, seen)
	}
}

func TestMiddlewareInvalidToken(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)
	rec, seen := gateRequest(t, tokens, &fakeUserLoader{}, "Bearer not-a-jwt")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid token")
	assert.Nil(t, seen)
}

func TestMiddlewareExpiredToken(t *testing.T) {
	expired := NewTokenService("test-secret", -time.Minute)
	token, err := expired.Issue("user-1")
	require.NoError(t, err)

	rec, seen := gateRequest(t, expired, &fakeUserLoader{}, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid token")
	assert.Nil(t, seen)
}

func TestMiddlewareUnknownUser(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)
	token, err := tokens.Issue("user-1")
	require.NoError(t, err)

	loader := &fakeUserLoader{err: errors.New("not found")}
	rec, seen := gateRequest(t, tokens, loader, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestMiddlewareAdmitsValidToken(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)
	token, err := tokens.Issue("user-1")
	require.NoError(t, err)

	loader := &fakeUserLoader{user: models.User{
		ID:           "user-1",
		Name:         "Test",
		Email:        "test@example.com",
		PasswordHash: "should-be-stripped",
	}}
	rec, seen := gateRequest(t, tokens, loader, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "user-1", seen.ID)
	assert.Empty(t, seen.PasswordHash)
}
