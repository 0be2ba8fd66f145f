package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/vncsmyrnk/wishpool/internal/core/domain"
	"github.com/vncsmyrnk/wishpool/internal/core/ports"
)

type reconcileService struct {
	wishRepo ports.WishRepository
	voteRepo ports.VoteRepository
	logger   *slog.Logger
}

func NewReconcileService(wishRepo ports.WishRepository, voteRepo ports.VoteRepository, logger *slog.Logger) ports.ReconcileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &reconcileService{
		wishRepo: wishRepo,
		voteRepo: voteRepo,
		logger:   logger,
	}
}

// ReconcileAll repairs drift between the wish table and the vote log: orphaned
// log rows are removed first, then every count is recomputed from the log.
func (s *reconcileService) ReconcileAll(ctx context.Context) (*domain.ReconcileReport, error) {
	removed, err := s.voteRepo.PurgeOrphanVotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to purge orphan votes: %w", err)
	}
	if removed > 0 {
		s.logger.Info("removed orphan vote entries", "count", removed)
	}

	wishes, err := s.wishRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch all wishes: %w", err)
	}

	var wg sync.WaitGroup
	var recounted atomic.Int64
	errChan := make(chan error, len(wishes))

	for _, wish := range wishes {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			changed, err := s.voteRepo.RecountVotes(ctx, id)
			if err != nil {
				errChan <- fmt.Errorf("failed to recount wish %s: %w", id, err)
				return
			}
			if changed {
				recounted.Add(1)
				s.logger.Info("vote count repaired", "wish_id", id)
			}
		}(wish.ID)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	return &domain.ReconcileReport{
		Wishes:         len(wishes),
		Recounted:      int(recounted.Load()),
		OrphansRemoved: removed,
	}, nil
}
