package controllers

import (
	"net/http"

	"quicksort/backend/app/dto"
	"quicksort/backend/app/services"
)

type RuleController struct {
	service *services.RuleService
}

func NewRuleController(svc *services.RuleService) *RuleController {
	return &RuleController{service: svc}
}

// ListRules GET /api/rules
func (c *RuleController) ListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := c.service.ListRules()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "rules", rules)
}

// CreateRule POST /api/rules
func (c *RuleController) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req dto.RuleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rule, err := c.service.CreateRule(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	audit(r).Uint("rule", rule.ID).Msg("rule created")
	writeSuccess(w, http.StatusCreated, "rule", rule)
}

// UpdateRule PUT /api/rules/{id}
func (c *RuleController) UpdateRule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req dto.RuleUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rule, err := c.service.UpdateRule(id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	audit(r).Uint("rule", rule.ID).Msg("rule updated")
	writeSuccess(w, http.StatusOK, "rule", rule)
}

// DeleteRule DELETE /api/rules/{id}
func (c *RuleController) DeleteRule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.service.DeleteRule(id); err != nil {
		writeError(w, r, err)
		return
	}
	audit(r).Uint("rule", id).Msg("rule deleted")
	writeMessage(w, http.StatusOK, "rule deleted")
}
