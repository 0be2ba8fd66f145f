package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/wishpool/internal/core/domain"
	"github.com/vncsmyrnk/wishpool/internal/core/ports"
)

type WishHandler struct {
	service ports.WishService
}

func NewWishHandler(service ports.WishService) *WishHandler {
	return &WishHandler{
		service: service,
	}
}

type createWishRequest struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
}

type updateWishRequest struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
}

// ListWishes godoc
// @Summary      Lists every wish
// @Description  Returns all wishes in creation order with the owner flag computed for the caller.
// @Tags         wishes
// @Produce      json
// @Success      200  {array}  domain.Wish
// @Failure      401
// @Router       /api/wishes [get]
func (h *WishHandler) ListWishes(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerOrReject(w, r)
	if !ok {
		return
	}

	wishes, err := h.service.List(r.Context(), viewer)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wishes)
}

// CreateWish godoc
// @Summary      Adds a wish
// @Description  Stores a wish under the caller-generated id and counts the creator's vote.
// @Tags         wishes
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      400
// @Failure      409
// @Router       /api/wishes [post]
func (h *WishHandler) CreateWish(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerOrReject(w, r)
	if !ok {
		return
	}

	var req createWishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	input := ports.CreateWishInput{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Desc,
	}
	if _, err := h.service.Create(r.Context(), viewer, input); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{Message: "wish added"})
}

// UpdateWish godoc
// @Summary      Edits a wish
// @Description  Replaces title and description. Only the creator or an admin may edit.
// @Tags         wishes
// @Accept       json
// @Produce      json
// @Success      200
// @Failure      403
// @Failure      404
// @Router       /api/wishes/{id} [put]
func (h *WishHandler) UpdateWish(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerOrReject(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var req updateWishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ID != "" && req.ID != id {
		writeError(w, r, fmt.Errorf("%w: body id does not match path", domain.ErrValidation))
		return
	}

	input := ports.UpdateWishInput{
		ID:          id,
		Title:       req.Title,
		Description: req.Desc,
	}
	if err := h.service.Update(r.Context(), viewer, input); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "wish updated"})
}

// DeleteWish godoc
// @Summary      Deletes a wish
// @Description  Removes the wish and every vote cast for it. Only the creator or an admin may delete.
// @Tags         wishes
// @Produce      json
// @Success      200
// @Failure      403
// @Failure      404
// @Router       /api/wishes/{id} [delete]
func (h *WishHandler) DeleteWish(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerOrReject(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), viewer, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "wish deleted"})
}
