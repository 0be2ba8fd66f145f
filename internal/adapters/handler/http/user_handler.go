package http

import (
	"net/http"

	"github.com/vncsmyrnk/wishpool/internal/core/domain"
	"github.com/vncsmyrnk/wishpool/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

type meResponse struct {
	domain.Viewer
	User *domain.User `json:"user,omitempty"`
}

type adminResponse struct {
	IsAdmin bool `json:"is_admin"`
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerOrReject(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetByEmail(r.Context(), viewer.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meResponse{Viewer: viewer, User: user})
}

// IsAdmin godoc
// @Summary      Reports whether the caller is the board admin
// @Tags         users
// @Produce      json
// @Success      200
// @Router       /api/me/admin [get]
func (h *UserHandler) IsAdmin(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerOrReject(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, adminResponse{IsAdmin: viewer.IsAdmin})
}
