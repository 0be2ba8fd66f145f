package sheet

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/wishpool/internal/core/domain"
	"github.com/vncsmyrnk/wishpool/internal/core/ports"
)

type board struct {
	wb     *Workbook
	wishes ports.WishRepository
	votes  ports.VoteRepository
}

func newBoard(t *testing.T, dir string) board {
	t.Helper()
	wb, err := OpenBoard(dir)
	require.NoError(t, err)
	return board{wb: wb, wishes: NewWishRepository(wb), votes: NewVoteRepository(wb)}
}

func (b board) create(t *testing.T, id, creator string) {
	t.Helper()
	require.NoError(t, b.wishes.Create(context.Background(), &domain.Wish{
		ID:        id,
		Votes:     domain.InitialVotes,
		Title:     "Wish " + id,
		Creator:   creator,
		CreatedAt: time.Now(),
	}))
}

func (b board) vote(voter, id string, allowRepeat bool) error {
	return b.votes.AddVote(context.Background(), domain.VoteEntry{Voter: voter, WishID: id, VotedAt: time.Now()}, allowRepeat)
}

func (b board) count(t *testing.T, id string) int64 {
	t.Helper()
	w, err := b.wishes.GetByID(context.Background(), id)
	require.NoError(t, err)
	return w.Votes
}

func TestCreateRecordsCreatorVote(t *testing.T) {
	b := newBoard(t, "")
	b.create(t, "w1", "alice")

	ids, err := b.votes.ListVotedWishIDs(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"w1"}, ids)
	assert.Equal(t, int64(1), b.count(t, "w1"))

	err = b.wishes.Create(context.Background(), &domain.Wish{ID: "w1", Title: "dup", Creator: "bob"})
	assert.ErrorIs(t, err, domain.ErrDuplicateWishID)

	ids, err = b.votes.ListVotedWishIDs(context.Background(), "bob")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestListKeepsInsertionOrder(t *testing.T) {
	b := newBoard(t, "")
	for _, id := range []string{"c", "a", "b"} {
		b.create(t, id, "alice")
	}

	list, err := b.wishes.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "a", list[1].ID)
	assert.Equal(t, "b", list[2].ID)
	assert.Equal(t, "alice", list[0].Creator)
}

func TestAddVote(t *testing.T) {
	b := newBoard(t, "")
	b.create(t, "w1", "alice")

	require.NoError(t, b.vote("bob", "w1", false))
	assert.ErrorIs(t, b.vote("bob", "w1", false), domain.ErrAlreadyVoted)
	assert.ErrorIs(t, b.vote("alice", "w1", false), domain.ErrAlreadyVoted)
	assert.ErrorIs(t, b.vote("bob", "missing", false), domain.ErrWishNotFound)

	require.NoError(t, b.vote("root", "w1", true))
	require.NoError(t, b.vote("root", "w1", true))

	assert.Equal(t, int64(4), b.count(t, "w1"))

	ids, err := b.votes.ListVotedWishIDs(context.Background(), "root")
	require.NoError(t, err)
	assert.Equal(t, []string{"w1"}, ids)
}

func TestConcurrentVotesSerialize(t *testing.T) {
	b := newBoard(t, "")
	b.create(t, "p1", "owner")
	require.NoError(t, b.vote("v1", "p1", false))
	require.NoError(t, b.vote("v2", "p1", false))

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// two distinct voters, each trying five times
			errs[i] = b.vote(fmt.Sprintf("late-%d", i%2), "p1", false)
		}()
	}
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		if err == nil {
			accepted++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrAlreadyVoted)
	}
	assert.Equal(t, 2, accepted)
	assert.Equal(t, int64(5), b.count(t, "p1"))
}

func TestUpdateText(t *testing.T) {
	b := newBoard(t, "")
	b.create(t, "w1", "alice")

	require.NoError(t, b.wishes.UpdateText(context.Background(), "w1", "New", "desc"))
	w, err := b.wishes.GetByID(context.Background(), "w1")
	require.NoError(t, err)
	assert.Equal(t, "New", w.Title)
	assert.Equal(t, "desc", w.Description)
	assert.Equal(t, "alice", w.Creator)

	assert.ErrorIs(t, b.wishes.UpdateText(context.Background(), "nope", "x", ""), domain.ErrWishNotFound)
}

func TestDeleteCascadesToLog(t *testing.T) {
	b := newBoard(t, "")
	b.create(t, "keep", "alice")
	b.create(t, "drop", "alice")
	for _, voter := range []string{"bob", "carol"} {
		require.NoError(t, b.vote(voter, "drop", false))
		require.NoError(t, b.vote(voter, "keep", false))
	}

	require.NoError(t, b.wishes.Delete(context.Background(), "drop"))
	assert.ErrorIs(t, b.wishes.Delete(context.Background(), "drop"), domain.ErrWishNotFound)

	for _, voter := range []string{"alice", "bob", "carol"} {
		ids, err := b.votes.ListVotedWishIDs(context.Background(), voter)
		require.NoError(t, err)
		assert.Equal(t, []string{"keep"}, ids, voter)
	}

	_, err := b.wishes.GetByID(context.Background(), "drop")
	assert.ErrorIs(t, err, domain.ErrWishNotFound)
	assert.Equal(t, int64(3), b.count(t, "keep"))
}

func TestRecountAndPurge(t *testing.T) {
	b := newBoard(t, "")
	b.create(t, "w1", "alice")
	require.NoError(t, b.vote("bob", "w1", false))

	require.NoError(t, b.wb.Update(func(tx *Tx) error {
		wishes, log, err := boardTables(tx)
		if err != nil {
			return err
		}
		i, _ := wishes.Lookup("w1")
		if err := wishes.SetCell(i, wishColVotes, "40"); err != nil {
			return err
		}
		return log.Append([]string{"ghost", "gone", formatTime(time.Now())})
	}))

	removed, err := b.votes.PurgeOrphanVotes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	changed, err := b.votes.RecountVotes(context.Background(), "w1")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, int64(2), b.count(t, "w1"))

	changed, err = b.votes.RecountVotes(context.Background(), "w1")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = b.votes.RecountVotes(context.Background(), "gone")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestBoardSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	b := newBoard(t, dir)
	b.create(t, "w1", "alice")
	require.NoError(t, b.vote("bob", "w1", false))

	again := newBoard(t, dir)
	assert.Equal(t, int64(2), again.count(t, "w1"))
	assert.ErrorIs(t, again.vote("bob", "w1", false), domain.ErrAlreadyVoted)
}
