package controllers

import (
	"net/http"

	"quicksort/backend/app/dto"
	"quicksort/backend/app/services"
)

type TreeController struct {
	service *services.TreeService
}

func NewTreeController(svc *services.TreeService) *TreeController {
	return &TreeController{service: svc}
}

// GetTree GET /api/tree
func (c *TreeController) GetTree(w http.ResponseWriter, r *http.Request) {
	tree, err := c.service.GetTree()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "tree", tree)
}

// ListNodes GET /api/tree/nodes
func (c *TreeController) ListNodes(w http.ResponseWriter, r *http.Request) {
	nodes, err := c.service.ListNodes()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "nodes", nodes)
}

// CreateNode POST /api/tree/nodes
func (c *TreeController) CreateNode(w http.ResponseWriter, r *http.Request) {
	var req dto.NodeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	node, err := c.service.CreateNode(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	audit(r).Uint("node", node.ID).Msg("node created")
	writeSuccess(w, http.StatusCreated, "node", node)
}

// UpdateNode PUT /api/tree/nodes/{id}
func (c *TreeController) UpdateNode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req dto.NodeUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	node, err := c.service.UpdateNode(id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	audit(r).Uint("node", node.ID).Msg("node updated")
	writeSuccess(w, http.StatusOK, "node", node)
}

// DeleteNode DELETE /api/tree/nodes/{id}
func (c *TreeController) DeleteNode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.service.DeleteNode(id); err != nil {
		writeError(w, r, err)
		return
	}
	audit(r).Uint("node", id).Msg("node deleted")
	writeMessage(w, http.StatusOK, "node deleted")
}
