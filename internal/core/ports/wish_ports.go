package ports

import (
	"context"

	"github.com/vncsmyrnk/wishpool/internal/core/domain"
)

type WishRepository interface {
	// Create stores the wish together with the creator's vote entry as one unit.
	Create(ctx context.Context, wish *domain.Wish) error
	GetByID(ctx context.Context, id string) (*domain.Wish, error)
	List(ctx context.Context) ([]*domain.Wish, error)
	UpdateText(ctx context.Context, id, title, description string) error
	// Delete removes the wish and every vote entry referencing it as one unit.
	Delete(ctx context.Context, id string) error
}

type CreateWishInput struct {
	ID          string
	Title       string
	Description string
}

type UpdateWishInput struct {
	ID          string
	Title       string
	Description string
}

type WishService interface {
	List(ctx context.Context, viewer domain.Viewer) ([]*domain.Wish, error)
	Create(ctx context.Context, viewer domain.Viewer, input CreateWishInput) (*domain.Wish, error)
	Update(ctx context.Context, viewer domain.Viewer, input UpdateWishInput) error
	Delete(ctx context.Context, viewer domain.Viewer, id string) error
}
