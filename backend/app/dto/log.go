package dto

import "time"

type LogEntry struct {
	ID              uint      `json:"id"`
	BatchID         string    `json:"batch_id,omitempty"`
	Filename        string    `json:"filename"`
	OriginalPath    string    `json:"original_path"`
	DestinationPath *string   `json:"destination_path"`
	RuleID          *uint     `json:"rule_id"`
	NodeID          *uint     `json:"node_id"`
	Action          string    `json:"action"`
	Status          string    `json:"status"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

type LogStats struct {
	Total   int64 `json:"total"`
	Success int64 `json:"success"`
	Failed  int64 `json:"failed"`
	Pending int64 `json:"pending"`
}
