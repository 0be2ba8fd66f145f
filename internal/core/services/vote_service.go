package services

import (
	"context"
	"time"

	"github.com/vncsmyrnk/wishpool/internal/core/domain"
	"github.com/vncsmyrnk/wishpool/internal/core/ports"
)

type voteService struct {
	voteRepo ports.VoteRepository
	now      func() time.Time
}

func NewVoteService(voteRepo ports.VoteRepository) ports.VoteService {
	return &voteService{
		voteRepo: voteRepo,
		now:      time.Now,
	}
}

// Vote records one vote. The one-vote-per-wish rule is enforced by the
// repository for everyone except admins.
func (s *voteService) Vote(ctx context.Context, viewer domain.Viewer, wishID string) error {
	if err := domain.ValidateWishID(wishID); err != nil {
		return err
	}
	if viewer.ID == "" {
		return domain.ErrUnauthenticated
	}

	entry := domain.VoteEntry{
		Voter:   viewer.ID,
		WishID:  wishID,
		VotedAt: s.now().UTC(),
	}
	return s.voteRepo.AddVote(ctx, entry, viewer.IsAdmin)
}

func (s *voteService) VotedWishIDs(ctx context.Context, viewer domain.Viewer) ([]string, error) {
	if viewer.ID == "" {
		return nil, domain.ErrUnauthenticated
	}
	ids, err := s.voteRepo.ListVotedWishIDs(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
