package ports

import (
	"context"

	"github.com/vncsmyrnk/wishpool/internal/core/domain"
)

type UserService interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
