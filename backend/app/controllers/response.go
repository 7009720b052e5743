package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"quicksort/backend/app/middleware"
	"quicksort/backend/app/services"
	"quicksort/backend/global"

	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeSuccess wraps payload under key in the {"success": true} envelope.
func writeSuccess(w http.ResponseWriter, status int, key string, payload interface{}) {
	body := map[string]interface{}{"success": true}
	if key != "" {
		body[key] = payload
	}
	writeJSON(w, status, body)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{"success": true, "message": msg})
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{"success": false, "message": msg})
}

// audit starts an info event for a state-changing request.
func audit(r *http.Request) *zerolog.Event {
	return global.Logger.Info().Str("actor", middleware.Subject(r.Context())).Str("method", r.Method).Str("path", r.URL.Path)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidParent),
		errors.Is(err, services.ErrInvalidRule),
		errors.Is(err, services.ErrInvalidConfig),
		errors.Is(err, services.ErrFilesystem):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNodeNotFound),
		errors.Is(err, services.ErrRuleNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDuplicatePath),
		errors.Is(err, services.ErrNodeHasChildren),
		errors.Is(err, services.ErrNodeHasRules),
		errors.Is(err, services.ErrAlreadyRunning),
		errors.Is(err, services.ErrNotRunning),
		errors.Is(err, services.ErrBatchInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a service error to its HTTP status. Internal errors are
// logged and their detail is not exposed.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		global.Logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		writeJSONError(w, status, "internal error")
		return
	}
	writeJSONError(w, status, err.Error())
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: invalid payload: %v", services.ErrInvalidInput, err)
	}
	return nil
}

func pathID(r *http.Request) (uint, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid id %q", services.ErrInvalidInput, raw)
	}
	return uint(id), nil
}
