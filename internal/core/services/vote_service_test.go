package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/wishpool/internal/core/domain"
	"github.com/vncsmyrnk/wishpool/internal/core/ports"
)

func TestVote(t *testing.T) {
	wishes, votes, _ := newSheetServices(t)
	ctx := context.Background()

	_, err := wishes.Create(ctx, alice, ports.CreateWishInput{ID: "w1", Title: "Dark mode"})
	require.NoError(t, err)

	assert.ErrorIs(t, votes.Vote(ctx, alice, "w1"), domain.ErrAlreadyVoted)
	require.NoError(t, votes.Vote(ctx, bob, "w1"))
	assert.ErrorIs(t, votes.Vote(ctx, bob, "w1"), domain.ErrAlreadyVoted)

	require.NoError(t, votes.Vote(ctx, root, "w1"))
	require.NoError(t, votes.Vote(ctx, root, "w1"))

	assert.ErrorIs(t, votes.Vote(ctx, bob, "missing"), domain.ErrWishNotFound)
	assert.ErrorIs(t, votes.Vote(ctx, bob, ""), domain.ErrValidation)
	assert.ErrorIs(t, votes.Vote(ctx, domain.Viewer{}, "w1"), domain.ErrUnauthenticated)

	list, err := wishes.List(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(4), list[0].Votes)
}

func TestVotedWishIDs(t *testing.T) {
	wishes, votes, _ := newSheetServices(t)
	ctx := context.Background()

	ids, err := votes.VotedWishIDs(ctx, bob)
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)

	for _, id := range []string{"w1", "w2"} {
		_, err := wishes.Create(ctx, alice, ports.CreateWishInput{ID: id, Title: id})
		require.NoError(t, err)
	}
	require.NoError(t, votes.Vote(ctx, bob, "w2"))

	ids, err = votes.VotedWishIDs(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, []string{"w2"}, ids)

	ids, err = votes.VotedWishIDs(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{"w1", "w2"}, ids)

	_, err = votes.VotedWishIDs(ctx, domain.Viewer{})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

// The final count is one for the creator plus every accepted vote.
func TestVoteCountAfterMixedSequence(t *testing.T) {
	wishes, votes, _ := newSheetServices(t)
	ctx := context.Background()

	_, err := wishes.Create(ctx, alice, ports.CreateWishInput{ID: "w1", Title: "Tally"})
	require.NoError(t, err)

	accepted := 0
	for _, v := range []domain.Viewer{bob, bob, alice, root, root, {ID: "carol@example.com"}} {
		if votes.Vote(ctx, v, "w1") == nil {
			accepted++
		}
		require.NoError(t, wishes.Update(ctx, alice, ports.UpdateWishInput{ID: "w1", Title: "Tally"}))
	}

	list, err := wishes.List(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(1+accepted), list[0].Votes)
	assert.Equal(t, 4, accepted)
}
