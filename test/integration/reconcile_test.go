package integration

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/wishpool/internal/app"
)

func TestReconcileRepairsDrift(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testApp := setupTestApp(t, nil)
	defer testApp.Teardown(t)

	owner := newUserToken(t, testApp.DB)
	for _, id := range []string{"a", "b"} {
		status, _ := testApp.call(t, http.MethodPost, "/api/wishes", owner, wishPayload(id, "Wish "+id, ""))
		require.Equal(t, http.StatusCreated, status)
	}

	// counter drift and a log row whose wish no longer exists
	_, err := testApp.DB.Exec("UPDATE wishes SET vote_count = 42 WHERE id = 'a'")
	require.NoError(t, err)
	_, err = testApp.DB.Exec("INSERT INTO vote_log (voter, wish_id) VALUES ('ghost@example.com', 'gone')")
	require.NoError(t, err)

	report, err := app.NewReconciler(testApp.Store, slog.Default()).ReconcileAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Wishes)
	assert.Equal(t, 1, report.Recounted)
	assert.Equal(t, int64(1), report.OrphansRemoved)

	wish, ok := findWish(testApp.listWishes(t, owner), "a")
	require.True(t, ok)
	assert.Equal(t, int64(1), wish.Votes)
}
