package db

import (
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/susu3304/geoguess/internal/catalog"
	"github.com/susu3304/geoguess/internal/game"
	"github.com/susu3304/geoguess/internal/geoscore"
	"github.com/susu3304/geoguess/internal/session"
)

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *DB) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewWithPool(mock)
}

func TestRunMigrations(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mock, db := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta(migrationSQL)).
			WillReturnResult(pgxmock.NewResult("CREATE", 0))

		require.NoError(t, db.RunMigrations(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error", func(t *testing.T) {
		t.Parallel()
		mock, db := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta(migrationSQL)).
			WillReturnError(assert.AnError)

		err := db.RunMigrations(ctx)
		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to run migrations")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRecordResult(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	owner := session.Owner{ID: "42", Name: "Ana", Source: "discord"}
	res := game.ScoreResult{
		Round:          3,
		DistanceMeters: 340545.2,
		Distance:       "341 km",
		Points:         3267,
		Difficulty:     geoscore.Easy,
		Target:         catalog.Location{Name: "Paris, France", Lat: 48.85837, Lng: 2.29448},
		Guess:          geoscore.Coordinate{Lat: 51.5074, Lng: -0.1278},
	}
	args := []any{
		"game-1", "42", "Ana", "discord", 3, "Paris, France",
		48.85837, 2.29448, 51.5074, -0.1278, 340545.2, 3267, "easy",
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mock, db := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta(insertResultSQL)).
			WithArgs(args...).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, db.RecordResult(ctx, "game-1", owner, res))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error", func(t *testing.T) {
		t.Parallel()
		mock, db := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta(insertResultSQL)).
			WithArgs(args...).
			WillReturnError(assert.AnError)

		err := db.RecordResult(ctx, "game-1", owner, res)
		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to insert round result")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLeaderboard(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	columns := []string{"player_id", "player_name", "rounds", "total_points", "best_points"}

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mock, db := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(leaderboardSQL)).
			WithArgs("hard", 5).
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow("1", "Ana", int64(4), int64(18000), 7000).
				AddRow("2", "Ben", int64(2), int64(3100), 2500))

		entries, err := db.Leaderboard(ctx, "hard", 5)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, LeaderboardEntry{PlayerID: "1", PlayerName: "Ana", Rounds: 4, TotalPoints: 18000, BestPoints: 7000}, entries[0])
		assert.Equal(t, "Ben", entries[1].PlayerName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("limit defaults", func(t *testing.T) {
		t.Parallel()
		mock, db := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(leaderboardSQL)).
			WithArgs("", 10).
			WillReturnRows(pgxmock.NewRows(columns))

		entries, err := db.Leaderboard(ctx, "", 0)
		require.NoError(t, err)
		assert.Empty(t, entries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		t.Parallel()
		mock, db := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(leaderboardSQL)).
			WithArgs("", 10).
			WillReturnError(assert.AnError)

		entries, err := db.Leaderboard(ctx, "", 500)
		require.Nil(t, entries)
		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to query leaderboard")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("scan error", func(t *testing.T) {
		t.Parallel()
		mock, db := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(leaderboardSQL)).
			WithArgs("", 10).
			WillReturnRows(pgxmock.NewRows(columns).AddRow("1", "Ana", "four", int64(1), 1))

		entries, err := db.Leaderboard(ctx, "", 10)
		require.Nil(t, entries)
		require.ErrorContains(t, err, "failed to scan leaderboard entry")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rows error", func(t *testing.T) {
		t.Parallel()
		mock, db := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(leaderboardSQL)).
			WithArgs("", 10).
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow("1", "Ana", int64(1), int64(1), 1).
				RowError(0, assert.AnError))

		entries, err := db.Leaderboard(ctx, "", 10)
		require.Nil(t, entries)
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListResults(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	columns := []string{
		"id", "game_id", "player_id", "player_name", "round_number", "location_name",
		"distance_meters", "points", "difficulty", "created_at",
	}
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mock, db := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(listResultsSQL)).
			WithArgs("game-1").
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(int64(1), "game-1", "", "", 1, "Tokyo, Japan", 12.5, 5000, "easy", created).
				AddRow(int64(2), "game-1", "", "", 2, "Sydney, Australia", 900000.0, 1616, "easy", created))

		results, err := db.ListResults(ctx, "game-1")
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, 1, results[0].Round)
		assert.Equal(t, "Sydney, Australia", results[1].LocationName)
		assert.Equal(t, 1616, results[1].Points)
		assert.Equal(t, created, results[1].CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		t.Parallel()
		mock, db := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(listResultsSQL)).
			WithArgs("game-1").
			WillReturnError(assert.AnError)

		results, err := db.ListResults(ctx, "game-1")
		require.Nil(t, results)
		require.ErrorContains(t, err, "failed to query round results")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
