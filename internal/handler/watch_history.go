package handler

import (
	"net/http"

	"github.com/forgo/moveyes/internal/middleware"
	"github.com/forgo/moveyes/internal/model"
	"github.com/forgo/moveyes/internal/service"
)

// WatchHistoryHandler handles watch progress endpoints
type WatchHistoryHandler struct {
	historyService *service.WatchHistoryService
	errs           middleware.ErrorWriter
}

// WatchHistoryHandlerConfig holds dependencies for the watch history handler
type WatchHistoryHandlerConfig struct {
	HistoryService *service.WatchHistoryService
	Errors         middleware.ErrorWriter
}

// NewWatchHistoryHandler creates a new watch history handler
func NewWatchHistoryHandler(cfg WatchHistoryHandlerConfig) *WatchHistoryHandler {
	return &WatchHistoryHandler{
		historyService: cfg.HistoryService,
		errs:           cfg.Errors,
	}
}

// List handles GET /api/watch-history
func (h *WatchHistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.historyService.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, entries)
}

// Update handles POST /api/watch-history/update
func (h *WatchHistoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateWatchProgressRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		h.errs.WriteError(w, r, err)
		return
	}

	entry, err := h.historyService.UpdateProgress(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, entry)
}
