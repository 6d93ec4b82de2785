package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	for _, table := range []string{"members", "tournaments", "matches", "tournament_tables", "leaderboard_entries"} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "Querying for %s table should not produce an error", table)
		assert.Equal(t, table, name, "The '%s' table should be created", table)
	}
}

func TestInitDB_LeaderboardRankDefaultsToSentinel(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err)
	defer teardown()

	_, err = db.Exec(`INSERT INTO leaderboard_entries (board, member_id, full_name) VALUES ('tspc_mens_singles_results', 'm1', 'A')`)
	require.NoError(t, err)

	var rank int
	require.NoError(t, db.Get(&rank, `SELECT rank_position FROM leaderboard_entries WHERE member_id = 'm1'`))
	assert.Equal(t, 999, rank)
}

func TestInitDB_IsIdempotent(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err)
	defer teardown()

	// Re-running the migrations against an up-to-date schema is a no-op.
	require.NoError(t, migrate(db.DB))
}
