package controllers

import (
	"net/http"

	"quicksort/backend/app/dto"
	"quicksort/backend/app/services"
)

type MonitorController struct {
	service *services.MonitorService
}

func NewMonitorController(svc *services.MonitorService) *MonitorController {
	return &MonitorController{service: svc}
}

// Status GET /api/monitor/status
func (c *MonitorController) Status(w http.ResponseWriter, r *http.Request) {
	st, err := c.service.Status()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "status", st)
}

// Start POST /api/monitor/start
func (c *MonitorController) Start(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Start(); err != nil {
		writeError(w, r, err)
		return
	}
	audit(r).Msg("monitor started")
	writeMessage(w, http.StatusOK, "monitor started")
}

// Stop POST /api/monitor/stop
func (c *MonitorController) Stop(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Stop(); err != nil {
		writeError(w, r, err)
		return
	}
	audit(r).Msg("monitor stopped")
	writeMessage(w, http.StatusOK, "monitor stopped")
}

// GetConfig GET /api/monitor/config
func (c *MonitorController) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := c.service.GetConfig()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "config", cfg)
}

// UpdateConfig PUT /api/monitor/config
func (c *MonitorController) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req dto.MonitorConfigRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	cfg, err := c.service.UpdateConfig(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	audit(r).Msg("monitor config updated")
	writeSuccess(w, http.StatusOK, "config", cfg)
}

// Files GET /api/monitor/files
func (c *MonitorController) Files(w http.ResponseWriter, r *http.Request) {
	list, err := c.service.ListFiles(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"files":         list.Files,
		"total":         list.Total,
		"with_rules":    list.WithRules,
		"without_rules": list.WithoutRules,
	})
}

// OrganizeAll POST /api/monitor/organize-all
func (c *MonitorController) OrganizeAll(w http.ResponseWriter, r *http.Request) {
	res, err := c.service.OrganizeAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	audit(r).Str("batch", res.BatchID).Int("moved", res.FilesMoved).Msg("pending files organized")
	writeSuccess(w, http.StatusOK, "result", res)
}
