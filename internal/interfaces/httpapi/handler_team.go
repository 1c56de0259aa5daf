package httpapi

import (
	"net/http"
	"strconv"
)

func (h *Handler) GenerateTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateTeams")
	defer span.End()

	var req generateTeamsRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	sessionID := r.PathValue("sessionID")
	item, err := h.allocationService.Generate(ctx, sessionID, req.TeamCount, req.Strategy)
	if err != nil {
		h.logger.WarnContext(ctx, "generate teams failed",
			"session_id", sessionID,
			"team_count", req.TeamCount,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, assignmentToDTO(item))
}

func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeams")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	item, err := h.allocationService.GetAssignment(ctx, sessionID)
	if err != nil {
		h.logger.WarnContext(ctx, "get teams failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, assignmentToDTO(item))
}

// ExportTeams streams the current teams as a downloadable file.
func (h *Handler) ExportTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportTeams")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	format := r.PathValue("format")
	file, err := h.exportService.Export(ctx, sessionID, format)
	if err != nil {
		h.logger.WarnContext(ctx, "export teams failed", "session_id", sessionID, "format", format, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.FileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Content)
}

// ExportAllTeams renders every export format and returns them inline.
func (h *Handler) ExportAllTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportAllTeams")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	files, err := h.exportService.ExportAll(ctx, sessionID)
	if err != nil {
		h.logger.WarnContext(ctx, "export all teams failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]exportFileDTO, 0, len(files))
	for _, f := range files {
		items = append(items, exportFileDTO{
			Format:      f.Format,
			FileName:    f.FileName,
			ContentType: f.ContentType,
			SizeBytes:   len(f.Content),
			Content:     f.Content,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
