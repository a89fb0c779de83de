package handler

import (
	"net/http"

	"github.com/forgo/moveyes/internal/middleware"
	"github.com/forgo/moveyes/internal/model"
	"github.com/forgo/moveyes/internal/service"
)

// ProfileHandler handles the caller's own profile.
type ProfileHandler struct {
	profileService *service.ProfileService
	errs           middleware.ErrorWriter
}

// ProfileHandlerConfig holds dependencies for the profile handler
type ProfileHandlerConfig struct {
	ProfileService *service.ProfileService
	Errors         middleware.ErrorWriter
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(cfg ProfileHandlerConfig) *ProfileHandler {
	return &ProfileHandler{
		profileService: cfg.ProfileService,
		errs:           cfg.Errors,
	}
}

// Get handles GET /api/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileService.GetProfile(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, profile)
}

// Update handles PUT /api/profile. Fields left out of the body are unchanged.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateProfileRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		h.errs.WriteError(w, r, err)
		return
	}

	profile, err := h.profileService.UpdateProfile(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, profile)
}
