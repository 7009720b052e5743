package dto

import "time"

// NodeRequest creates a destination node.
type NodeRequest struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	ParentID *uint  `json:"parent_id"`
}

// NodeUpdateRequest is a partial update; ClearParent detaches the node to the top level.
type NodeUpdateRequest struct {
	Name        *string `json:"name"`
	Path        *string `json:"path"`
	ParentID    *uint   `json:"parent_id"`
	ClearParent bool    `json:"clear_parent"`
}

type NodeResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	ParentID   *uint     `json:"parent_id"`
	NodeType   string    `json:"node_type"`
	CreatedAt  time.Time `json:"created_at"`
	RulesCount int       `json:"rules_count"`
}

type TreeNodeResponse struct {
	NodeResponse
	Children []*TreeNodeResponse `json:"children"`
}

type TreeResponse struct {
	Root       *TreeNodeResponse `json:"root"`
	TotalNodes int               `json:"total_nodes"`
	HasRules   bool              `json:"has_rules"`
}
