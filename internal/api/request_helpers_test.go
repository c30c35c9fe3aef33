package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/lecturenotes/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithParam(name, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(name, value)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestGetPathUUID(t *testing.T) {
	id := uuid.New()

	got, err := getPathUUID(requestWithParam("id", id.String()), "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = getPathUUID(requestWithParam("id", ""), "id")
	assert.ErrorIs(t, err, service.ErrInvalidRequest)
	assert.Contains(t, err.Error(), "id is required")

	_, err = getPathUUID(requestWithParam("id", "not-a-uuid"), "id")
	assert.ErrorIs(t, err, service.ErrInvalidRequest)
	assert.Contains(t, err.Error(), "invalid format")
}

func formRequest(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestFormBool(t *testing.T) {
	req := formRequest(url.Values{"quiz": {"false"}, "notes": {"1"}, "bad": {"yes please"}})

	v, err := formBool(req, "quiz", true)
	require.NoError(t, err)
	assert.False(t, v)

	v, err = formBool(req, "notes", false)
	require.NoError(t, err)
	assert.True(t, v)

	v, err = formBool(req, "flashcards", true)
	require.NoError(t, err)
	assert.True(t, v, "missing fields take the default")

	_, err = formBool(req, "bad", false)
	assert.ErrorIs(t, err, service.ErrInvalidRequest)
}

func TestFormInt(t *testing.T) {
	req := formRequest(url.Values{"quiz_questions": {" 12 "}, "negative": {"-1"}, "word": {"ten"}})

	v, err := formInt(req, "quiz_questions")
	require.NoError(t, err)
	assert.Equal(t, 12, v)

	v, err = formInt(req, "notes_words")
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = formInt(req, "negative")
	assert.ErrorIs(t, err, service.ErrInvalidRequest)
	_, err = formInt(req, "word")
	assert.ErrorIs(t, err, service.ErrInvalidRequest)
}

func TestHandleAPIError(t *testing.T) {
	t.Run("known error keeps safe message", func(t *testing.T) {
		rr := httptest.NewRecorder()
		HandleAPIError(rr, httptest.NewRequest(http.MethodGet, "/", nil), service.ErrJobNotFound, "ignored")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Job not found", decodeError(t, rr).Error)
	})

	t.Run("server error uses the fallback message", func(t *testing.T) {
		rr := httptest.NewRecorder()
		HandleAPIError(rr, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("disk on fire"), "Failed to get job")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "disk on fire")
		assert.Equal(t, "Failed to get job", decodeError(t, rr).Error)
	})
}
