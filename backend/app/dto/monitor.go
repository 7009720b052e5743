package dto

import "time"

type MonitorStatus struct {
	IsRunning    bool       `json:"is_running"`
	PendingFiles int        `json:"pending_files"`
	WatchFolder  string     `json:"watch_folder"`
	AutoOrganize bool       `json:"auto_organize"`
	Recursive    bool       `json:"recursive"`
	LastScanAt   *time.Time `json:"last_scan_at,omitempty"`
	LastError    string     `json:"last_error,omitempty"`
}

type MonitorConfigRequest struct {
	WatchFolder  *string `json:"watch_folder"`
	AutoOrganize *bool   `json:"auto_organize"`
	Recursive    *bool   `json:"recursive"`
}

type MonitorConfigResponse struct {
	WatchFolder  string    `json:"watch_folder"`
	AutoOrganize bool      `json:"auto_organize"`
	Recursive    bool      `json:"recursive"`
	IsActive     bool      `json:"is_active"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FileEntry is the classifier's dry-run view of one file.
type FileEntry struct {
	Path            string    `json:"path"`
	Filename        string    `json:"filename"`
	Extension       string    `json:"extension"`
	Size            int64     `json:"size"`
	SizeHuman       string    `json:"size_human"`
	ModifiedAt      time.Time `json:"modified_at"`
	HasRule         bool      `json:"has_rule"`
	Destination     string    `json:"destination,omitempty"`
	DestinationName string    `json:"destination_name,omitempty"`
	RuleID          *uint     `json:"rule_id,omitempty"`
}

type FileListResponse struct {
	Files        []FileEntry `json:"files"`
	Total        int         `json:"total"`
	WithRules    int         `json:"with_rules"`
	WithoutRules int         `json:"without_rules"`
}
