package integration

import (
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteOncePerVoter(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t, nil)
	defer app.Teardown(t)

	owner := newUserToken(t, app.DB)
	voter := newUserToken(t, app.DB)

	status, _ := app.call(t, http.MethodPost, "/api/wishes", owner, wishPayload("w-1", "Offline mode", ""))
	require.Equal(t, http.StatusCreated, status)

	// the creator's vote is implicit
	status, _ = app.call(t, http.MethodPost, "/api/wishes/w-1/votes", owner, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, body := app.call(t, http.MethodPost, "/api/wishes/w-1/votes", voter, nil)
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = app.call(t, http.MethodPost, "/api/wishes/w-1/votes", voter, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, string(body), "already voted")

	wish, ok := findWish(app.listWishes(t, voter), "w-1")
	require.True(t, ok)
	assert.Equal(t, int64(2), wish.Votes)
	assert.Equal(t, []string{"w-1"}, app.votedIDs(t, voter))

	status, _ = app.call(t, http.MethodPost, "/api/wishes/missing/votes", voter, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestConcurrentVotesAreNotLost(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t, nil)
	defer app.Teardown(t)

	owner := newUserToken(t, app.DB)
	status, _ := app.call(t, http.MethodPost, "/api/wishes", owner, wishPayload("p1", "Popular", ""))
	require.Equal(t, http.StatusCreated, status)

	for range 2 {
		status, _ = app.call(t, http.MethodPost, "/api/wishes/p1/votes", newUserToken(t, app.DB), nil)
		require.Equal(t, http.StatusCreated, status)
	}

	tokens := []string{newUserToken(t, app.DB), newUserToken(t, app.DB)}
	statuses := make([]int, len(tokens))
	errs := make([]error, len(tokens))

	var wg sync.WaitGroup
	for i, token := range tokens {
		wg.Add(1)
		go func() {
			defer wg.Done()
			statuses[i], errs[i] = app.vote(token, "p1")
		}()
	}
	wg.Wait()

	require.Equal(t, []error{nil, nil}, errs)

	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated}, statuses)

	wish, ok := findWish(app.listWishes(t, owner), "p1")
	require.True(t, ok)
	assert.Equal(t, int64(5), wish.Votes)

	var logRows int
	require.NoError(t, app.DB.QueryRow("SELECT COUNT(*) FROM vote_log WHERE wish_id = 'p1'").Scan(&logRows))
	assert.Equal(t, 5, logRows)
}

func TestConcurrentDoubleVoteCountsOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t, nil)
	defer app.Teardown(t)

	owner := newUserToken(t, app.DB)
	status, _ := app.call(t, http.MethodPost, "/api/wishes", owner, wishPayload("p1", "Contested", ""))
	require.Equal(t, http.StatusCreated, status)

	voter := newUserToken(t, app.DB)
	statuses := make([]int, 4)
	errs := make([]error, 4)

	var wg sync.WaitGroup
	for i := range statuses {
		wg.Add(1)
		go func() {
			defer wg.Done()
			statuses[i], errs[i] = app.vote(voter, "p1")
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	assert.ElementsMatch(t, []int{http.StatusCreated, http.StatusConflict, http.StatusConflict, http.StatusConflict}, statuses)

	wish, ok := findWish(app.listWishes(t, owner), "p1")
	require.True(t, ok)
	assert.Equal(t, int64(2), wish.Votes)
}

func TestAdminMayVoteRepeatedly(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t, nil)
	defer app.Teardown(t)

	owner := newUserToken(t, app.DB)
	admin := createUserAndToken(t, app.DB, adminEmail)

	status, _ := app.call(t, http.MethodPost, "/api/wishes", owner, wishPayload("w-1", "Boost me", ""))
	require.Equal(t, http.StatusCreated, status)

	for range 3 {
		status, _ = app.call(t, http.MethodPost, "/api/wishes/w-1/votes", admin, nil)
		require.Equal(t, http.StatusCreated, status)
	}

	wish, ok := findWish(app.listWishes(t, admin), "w-1")
	require.True(t, ok)
	assert.Equal(t, int64(4), wish.Votes)
	assert.Equal(t, []string{"w-1"}, app.votedIDs(t, admin))
}
