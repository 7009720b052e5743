package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"quicksort/backend/app/dto"
	"quicksort/backend/app/models"
	"quicksort/backend/app/services"
)

type OrganizeController struct {
	service *services.OrganizerService
}

func NewOrganizeController(svc *services.OrganizerService) *OrganizeController {
	return &OrganizeController{service: svc}
}

// File POST /api/organize/file
func (c *OrganizeController) File(w http.ResponseWriter, r *http.Request) {
	var req dto.OrganizeFileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.FilePath) == "" {
		writeError(w, r, fmt.Errorf("%w: file_path is required", services.ErrInvalidInput))
		return
	}
	res, err := c.service.OrganizeFile(r.Context(), req.FilePath, req.Action)
	if err != nil {
		writeError(w, r, err)
		return
	}
	switch res.Status {
	case models.StatusSuccess, models.StatusPending:
		// an unclassified file is a no-op, not an error
		audit(r).Str("file", res.OriginalPath).Str("status", res.Status).Msg("file organized")
		writeSuccess(w, http.StatusOK, "result", res)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": res.Error, "result": res})
	}
}

// Folder POST /api/organize/folder
func (c *OrganizeController) Folder(w http.ResponseWriter, r *http.Request) {
	var req dto.OrganizeFolderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.FolderPath) == "" {
		writeError(w, r, fmt.Errorf("%w: folder_path is required", services.ErrInvalidInput))
		return
	}
	res, err := c.service.OrganizeFolder(r.Context(), req.FolderPath, req.Recursive, req.Action)
	if err != nil {
		writeError(w, r, err)
		return
	}
	audit(r).Str("batch", res.BatchID).Int("moved", res.FilesMoved).Msg("folder organized")
	writeSuccess(w, http.StatusOK, "result", res)
}

// Preview POST /api/organize/preview
func (c *OrganizeController) Preview(w http.ResponseWriter, r *http.Request) {
	var req dto.PreviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.FolderPath) == "" {
		writeError(w, r, fmt.Errorf("%w: folder_path is required", services.ErrInvalidInput))
		return
	}
	res, err := c.service.Preview(r.Context(), req.FolderPath, req.Recursive)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "preview", res)
}
