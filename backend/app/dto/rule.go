package dto

import "time"

type RuleRequest struct {
	NodeID   uint   `json:"node_id"`
	RuleType string `json:"rule_type"`
	Pattern  string `json:"pattern"`
	Priority int    `json:"priority"`
	IsActive *bool  `json:"is_active"`
}

// RuleUpdateRequest only touches the fields that are present.
type RuleUpdateRequest struct {
	NodeID   *uint   `json:"node_id"`
	RuleType *string `json:"rule_type"`
	Pattern  *string `json:"pattern"`
	Priority *int    `json:"priority"`
	IsActive *bool   `json:"is_active"`
}

type RuleResponse struct {
	ID        uint      `json:"id"`
	NodeID    uint      `json:"node_id"`
	NodeName  string    `json:"node_name"`
	RuleType  string    `json:"rule_type"`
	Pattern   string    `json:"pattern"`
	Priority  int       `json:"priority"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
