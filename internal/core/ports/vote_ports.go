package ports

import (
	"context"

	"github.com/vncsmyrnk/wishpool/internal/core/domain"
)

type VoteRepository interface {
	// AddVote appends the entry and increments the wish's count atomically.
	// Unless allowRepeat is set, a second entry for the same voter and wish
	// fails with domain.ErrAlreadyVoted.
	AddVote(ctx context.Context, entry domain.VoteEntry, allowRepeat bool) error
	ListVotedWishIDs(ctx context.Context, voter string) ([]string, error)
	RecountVotes(ctx context.Context, wishID string) (bool, error)
	PurgeOrphanVotes(ctx context.Context) (int64, error)
}

type VoteService interface {
	Vote(ctx context.Context, viewer domain.Viewer, wishID string) error
	VotedWishIDs(ctx context.Context, viewer domain.Viewer) ([]string, error)
}
