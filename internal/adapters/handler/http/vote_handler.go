package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/wishpool/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

// VoteOnWish godoc
// @Summary      Votes for a wish
// @Description  Adds one vote. Non-admin users can vote once per wish.
// @Tags         votes
// @Produce      json
// @Success      201
// @Failure      404
// @Failure      409
// @Router       /api/wishes/{id}/votes [post]
func (h *VoteHandler) VoteOnWish(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerOrReject(w, r)
	if !ok {
		return
	}

	if err := h.service.Vote(r.Context(), viewer, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{Message: "vote recorded"})
}

// MyVotes godoc
// @Summary      Lists the wishes the caller voted for
// @Tags         votes
// @Produce      json
// @Success      200  {array}  string
// @Router       /api/me/votes [get]
func (h *VoteHandler) MyVotes(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerOrReject(w, r)
	if !ok {
		return
	}

	ids, err := h.service.VotedWishIDs(r.Context(), viewer)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}
