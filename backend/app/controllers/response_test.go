package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	jwtutil "quicksort/backend/app/jwt"
	"quicksort/backend/app/middleware"
	"quicksort/backend/app/services"
	"quicksort/backend/global"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := global.Logger
	global.Logger = zerolog.New(&buf)
	t.Cleanup(func() { global.Logger = prev })
	return &buf
}

func TestAuditNamesTokenSubject(t *testing.T) {
	buf := captureLog(t)
	signer := &jwtutil.Signer{Secret: []byte("k"), Issuer: "quicksort", ExpMin: 5}
	auth := &middleware.Auth{Signer: signer}
	h := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		audit(r).Msg("rule created")
		writeMessage(w, http.StatusOK, "ok")
	}))

	tok, err := signer.Sign("cli", "")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/rules", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "cli", line["actor"])
	assert.Equal(t, "/api/rules", line["path"])
	assert.Equal(t, "rule created", line["message"])
}

func TestAuditWithoutToken(t *testing.T) {
	buf := captureLog(t)
	audit(httptest.NewRequest(http.MethodPost, "/api/monitor/start", nil)).Msg("monitor started")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, middleware.Anonymous, line["actor"])
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(services.ErrInvalidRule))
	assert.Equal(t, http.StatusNotFound, statusFor(services.ErrRuleNotFound))
	assert.Equal(t, http.StatusConflict, statusFor(services.ErrBatchInProgress))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
