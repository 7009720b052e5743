package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"quicksort/backend/app/services"
)

type LogController struct {
	service *services.FileLogService
}

func NewLogController(svc *services.FileLogService) *LogController {
	return &LogController{service: svc}
}

// List GET /api/logs?limit=N or /api/logs?batch_id=ID
func (c *LogController) List(w http.ResponseWriter, r *http.Request) {
	if batchID := r.URL.Query().Get("batch_id"); batchID != "" {
		logs, err := c.service.ListBatch(batchID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "logs", logs)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, r, fmt.Errorf("%w: invalid limit %q", services.ErrInvalidInput, raw))
			return
		}
		limit = n
	}
	logs, err := c.service.List(limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "logs", logs)
}

// Stats GET /api/logs/stats
func (c *LogController) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := c.service.Stats()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "stats", st)
}
