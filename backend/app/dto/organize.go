package dto

type OrganizeFileRequest struct {
	FilePath string `json:"file_path"`
	Action   string `json:"action"`
}

type OrganizeFolderRequest struct {
	FolderPath string `json:"folder_path"`
	Recursive  bool   `json:"recursive"`
	Action     string `json:"action"`
}

type PreviewRequest struct {
	FolderPath string `json:"folder_path"`
	Recursive  bool   `json:"recursive"`
}

// FileResult is the outcome for one file in a batch.
type FileResult struct {
	Filename        string `json:"filename"`
	OriginalPath    string `json:"original_path"`
	DestinationPath string `json:"destination_path,omitempty"`
	Action          string `json:"action"`
	Status          string `json:"status"`
	RuleID          *uint  `json:"rule_id,omitempty"`
	NodeID          *uint  `json:"node_id,omitempty"`
	NodeName        string `json:"node_name,omitempty"`
	Error           string `json:"error,omitempty"`
}

type BatchResult struct {
	BatchID        string       `json:"batch_id"`
	FilesProcessed int          `json:"files_processed"`
	FilesMoved     int          `json:"files_moved"`
	FilesFailed    int          `json:"files_failed"`
	FilesSkipped   int          `json:"files_skipped"`
	Results        []FileResult `json:"results"`
}

type PreviewResult struct {
	Files             []FileEntry `json:"files"`
	TotalFiles        int         `json:"total_files"`
	FilesWithRules    int         `json:"files_with_rules"`
	FilesWithoutRules int         `json:"files_without_rules"`
}
