package ports

import (
	"context"

	"github.com/vncsmyrnk/wishpool/internal/core/domain"
)

// Gateway is the client's view of the remote wish operations. Each call
// produces exactly one outcome: a value or an error carrying a readable message.
type Gateway interface {
	IsAdmin(ctx context.Context) (bool, error)
	VotedWishIDs(ctx context.Context) ([]string, error)
	ListWishes(ctx context.Context) ([]*domain.Wish, error)
	AddWish(ctx context.Context, input CreateWishInput) (string, error)
	AddVote(ctx context.Context, wishID string) (string, error)
	UpdateWish(ctx context.Context, input UpdateWishInput) (string, error)
	DeleteWish(ctx context.Context, wishID string) (string, error)
}
