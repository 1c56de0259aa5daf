package httpapi

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/riskibarqy/team-randomiser/internal/usecase"
)

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	players, err := h.rosterService.ListPlayers(ctx, sessionID)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(players))
}

func (h *Handler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddPlayer")
	defer span.End()

	var req playerRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	sessionID := r.PathValue("sessionID")
	item, err := h.rosterService.AddPlayer(ctx, sessionID, usecase.PlayerInput{
		Name:     req.Name,
		Position: req.Position,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "add player failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, sessionToDTO(item))
}

func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePlayer")
	defer span.End()

	index, err := parsePlayerIndex(r.PathValue("index"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req playerRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	sessionID := r.PathValue("sessionID")
	item, err := h.rosterService.UpdatePlayer(ctx, sessionID, index, usecase.PlayerInput{
		Name:     req.Name,
		Position: req.Position,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update player failed", "session_id", sessionID, "index", index, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(item))
}

func (h *Handler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemovePlayer")
	defer span.End()

	index, err := parsePlayerIndex(r.PathValue("index"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	sessionID := r.PathValue("sessionID")
	removed, err := h.rosterService.RemovePlayer(ctx, sessionID, index)
	if err != nil {
		h.logger.WarnContext(ctx, "remove player failed", "session_id", sessionID, "index", index, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerDTO{
		Index:    index,
		Name:     removed.Name,
		Position: string(removed.Position),
	})
}

func (h *Handler) ShufflePlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ShufflePlayers")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	item, err := h.rosterService.Shuffle(ctx, sessionID)
	if err != nil {
		h.logger.WarnContext(ctx, "shuffle players failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(item))
}

// ImportPlayers appends players from an uploaded workbook. Repeated "name"
// form fields restrict the import to those players.
func (h *Handler) ImportPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ImportPlayers")
	defer span.End()

	file, names, err := h.readUpload(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	defer func() { _ = file.Close() }()

	sessionID := r.PathValue("sessionID")
	item, err := h.rosterService.ImportPlayers(ctx, sessionID, file, names)
	if err != nil {
		h.logger.WarnContext(ctx, "import players failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(item))
}

// PreviewPlayerDatabase parses an uploaded workbook and returns its rows
// without changing any session.
func (h *Handler) PreviewPlayerDatabase(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PreviewPlayerDatabase")
	defer span.End()

	file, _, err := h.readUpload(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	defer func() { _ = file.Close() }()

	players, err := h.rosterService.PreviewImport(ctx, file)
	if err != nil {
		h.logger.WarnContext(ctx, "preview player database failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(players))
}

func (h *Handler) readUpload(r *http.Request) (multipart.File, []string, error) {
	if err := r.ParseMultipartForm(h.importMaxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: invalid multipart payload: %v", usecase.ErrInvalidInput, err)
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: form field \"file\" is required", usecase.ErrInvalidInput)
	}

	return file, r.MultipartForm.Value["name"], nil
}
