package db

import (
	"context"
	"fmt"
	"time"

	"github.com/susu3304/geoguess/internal/game"
	"github.com/susu3304/geoguess/internal/session"
)

type RoundResult struct {
	ID             int64     `json:"id"`
	GameID         string    `json:"game_id"`
	PlayerID       string    `json:"player_id"`
	PlayerName     string    `json:"player_name"`
	Round          int       `json:"round"`
	LocationName   string    `json:"location_name"`
	DistanceMeters float64   `json:"distance_meters"`
	Points         int       `json:"points"`
	Difficulty     string    `json:"difficulty"`
	CreatedAt      time.Time `json:"created_at"`
}

type LeaderboardEntry struct {
	PlayerID    string `json:"player_id"`
	PlayerName  string `json:"player_name"`
	Rounds      int64  `json:"rounds"`
	TotalPoints int64  `json:"total_points"`
	BestPoints  int    `json:"best_points"`
}

const insertResultSQL = `
		INSERT INTO round_results (
			game_id, player_id, player_name, source, round_number, location_name,
			target_lat, target_lng, guess_lat, guess_lng, distance_meters, points, difficulty
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

const leaderboardSQL = `
		SELECT player_id, MAX(player_name), COUNT(*), SUM(points), MAX(points)
		FROM round_results
		WHERE player_id <> '' AND ($1 = '' OR difficulty = $1)
		GROUP BY player_id
		ORDER BY SUM(points) DESC, MAX(points) DESC
		LIMIT $2
	`

const listResultsSQL = `
		SELECT id, game_id, player_id, player_name, round_number, location_name,
		       distance_meters, points, difficulty, created_at
		FROM round_results
		WHERE game_id = $1
		ORDER BY round_number ASC, id ASC
	`

// RecordResult archives one scored round.
func (db *DB) RecordResult(ctx context.Context, gameID string, owner session.Owner, r game.ScoreResult) error {
	_, err := db.pool.Exec(ctx, insertResultSQL,
		gameID, owner.ID, owner.Name, owner.Source, r.Round, r.Target.Name,
		r.Target.Lat, r.Target.Lng, r.Guess.Lat, r.Guess.Lng, r.DistanceMeters, r.Points, string(r.Difficulty),
	)
	if err != nil {
		return fmt.Errorf("failed to insert round result: %w", err)
	}
	return nil
}

// Leaderboard returns players ordered by total points. An empty difficulty covers all of them.
// Rounds played without a player identity are not ranked.
func (db *DB) Leaderboard(ctx context.Context, difficulty string, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	rows, err := db.pool.Query(ctx, leaderboardSQL, difficulty, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.PlayerID, &e.PlayerName, &e.Rounds, &e.TotalPoints, &e.BestPoints); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	return entries, nil
}

// ListResults returns the archived rounds of one game in play order.
func (db *DB) ListResults(ctx context.Context, gameID string) ([]RoundResult, error) {
	rows, err := db.pool.Query(ctx, listResultsSQL, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query round results: %w", err)
	}
	defer rows.Close()

	var results []RoundResult
	for rows.Next() {
		var r RoundResult
		if err := rows.Scan(
			&r.ID, &r.GameID, &r.PlayerID, &r.PlayerName, &r.Round, &r.LocationName,
			&r.DistanceMeters, &r.Points, &r.Difficulty, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan round result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read round results: %w", err)
	}
	return results, nil
}
