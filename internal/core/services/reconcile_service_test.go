package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/wishpool/internal/core/domain"
	"github.com/vncsmyrnk/wishpool/internal/core/ports"
)

func TestReconcileCleanBoard(t *testing.T) {
	wishes, votes, reconciler := newSheetServices(t)
	ctx := context.Background()

	for _, id := range []string{"w1", "w2", "w3"} {
		_, err := wishes.Create(ctx, alice, ports.CreateWishInput{ID: id, Title: id})
		require.NoError(t, err)
	}
	require.NoError(t, votes.Vote(ctx, bob, "w2"))

	report, err := reconciler.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, &domain.ReconcileReport{Wishes: 3}, report)
}

type failingVotes struct {
	ports.VoteRepository
	err error
}

func (f failingVotes) PurgeOrphanVotes(ctx context.Context) (int64, error) {
	return 0, nil
}

func (f failingVotes) RecountVotes(ctx context.Context, wishID string) (bool, error) {
	if wishID == "w2" {
		return false, f.err
	}
	return false, nil
}

func TestReconcileReportsRecountFailure(t *testing.T) {
	wishes, _, _ := newSheetServices(t)
	ctx := context.Background()
	for _, id := range []string{"w1", "w2"} {
		_, err := wishes.Create(ctx, alice, ports.CreateWishInput{ID: id, Title: id})
		require.NoError(t, err)
	}

	boom := errors.New("sheet locked")
	svc := NewReconcileService(wishes.(*wishService).repo, failingVotes{err: boom}, nil)

	_, err := svc.ReconcileAll(ctx)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "w2")
}
