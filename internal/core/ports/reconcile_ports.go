package ports

import (
	"context"

	"github.com/vncsmyrnk/wishpool/internal/core/domain"
)

type ReconcileService interface {
	ReconcileAll(ctx context.Context) (*domain.ReconcileReport, error)
}
