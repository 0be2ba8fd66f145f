package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/wishpool/internal/adapters/repository/sheet"
	"github.com/vncsmyrnk/wishpool/internal/core/domain"
	"github.com/vncsmyrnk/wishpool/internal/core/ports"
)

var (
	alice = domain.Viewer{ID: "alice@example.com"}
	bob   = domain.Viewer{ID: "bob@example.com"}
	root  = domain.Viewer{ID: "root@example.com", IsAdmin: true}
)

func newSheetServices(t *testing.T) (ports.WishService, ports.VoteService, ports.ReconcileService) {
	t.Helper()
	wb, err := sheet.OpenBoard("")
	require.NoError(t, err)

	wishRepo := sheet.NewWishRepository(wb)
	voteRepo := sheet.NewVoteRepository(wb)
	return NewWishService(wishRepo), NewVoteService(voteRepo), NewReconcileService(wishRepo, voteRepo, nil)
}

func TestCreateWish(t *testing.T) {
	wishes, _, _ := newSheetServices(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	wishes.(*wishService).now = func() time.Time { return fixed }

	wish, err := wishes.Create(context.Background(), alice, ports.CreateWishInput{ID: "w1", Title: "  Dark mode ", Description: " soon "})
	require.NoError(t, err)
	assert.Equal(t, "Dark mode", wish.Title)
	assert.Equal(t, "soon", wish.Description)
	assert.Equal(t, domain.InitialVotes, wish.Votes)
	assert.Equal(t, alice.ID, wish.Creator)
	assert.Equal(t, fixed.UTC(), wish.CreatedAt)
}

func TestCreateWishValidation(t *testing.T) {
	wishes, _, _ := newSheetServices(t)
	ctx := context.Background()

	cases := map[string]ports.CreateWishInput{
		"empty title":      {ID: "w1", Title: "   "},
		"empty id":         {ID: "", Title: "ok"},
		"id with space":    {ID: "w 1", Title: "ok"},
		"long id":          {ID: strings.Repeat("x", domain.MaxWishIDLength+1), Title: "ok"},
		"long title":       {ID: "w1", Title: strings.Repeat("t", domain.MaxTitleLength+1)},
		"long description": {ID: "w1", Title: "ok", Description: strings.Repeat("d", domain.MaxDescriptionLength+1)},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := wishes.Create(ctx, alice, input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	list, err := wishes.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListComputesOwnership(t *testing.T) {
	wishes, _, _ := newSheetServices(t)
	ctx := context.Background()

	_, err := wishes.Create(ctx, alice, ports.CreateWishInput{ID: "a1", Title: "Alice's"})
	require.NoError(t, err)
	_, err = wishes.Create(ctx, bob, ports.CreateWishInput{ID: "b1", Title: "Bob's"})
	require.NoError(t, err)

	list, err := wishes.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].IsOwner)
	assert.False(t, list[1].IsOwner)
	assert.Empty(t, list[0].Creator)
	assert.Empty(t, list[1].Creator)

	list, err = wishes.List(ctx, root)
	require.NoError(t, err)
	assert.True(t, list[0].IsOwner)
	assert.True(t, list[1].IsOwner)
	assert.Equal(t, bob.ID, list[1].Creator)
}

func TestUpdateAndDeletePermissions(t *testing.T) {
	wishes, votes, _ := newSheetServices(t)
	ctx := context.Background()

	_, err := wishes.Create(ctx, alice, ports.CreateWishInput{ID: "w1", Title: "Original"})
	require.NoError(t, err)

	err = wishes.Update(ctx, bob, ports.UpdateWishInput{ID: "w1", Title: "Mine now"})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.ErrorIs(t, wishes.Delete(ctx, bob, "w1"), domain.ErrPermissionDenied)

	err = wishes.Update(ctx, alice, ports.UpdateWishInput{ID: "w1", Title: ""})
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, wishes.Update(ctx, alice, ports.UpdateWishInput{ID: "w1", Title: "Edited", Description: "more"}))
	require.NoError(t, wishes.Update(ctx, root, ports.UpdateWishInput{ID: "w1", Title: "Moderated"}))

	list, err := wishes.List(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "Moderated", list[0].Title)
	assert.Empty(t, list[0].Description)

	require.NoError(t, votes.Vote(ctx, bob, "w1"))
	require.NoError(t, wishes.Delete(ctx, alice, "w1"))
	assert.ErrorIs(t, wishes.Delete(ctx, alice, "w1"), domain.ErrWishNotFound)
	assert.ErrorIs(t, wishes.Update(ctx, alice, ports.UpdateWishInput{ID: "w1", Title: "Late"}), domain.ErrWishNotFound)

	ids, err := votes.VotedWishIDs(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
