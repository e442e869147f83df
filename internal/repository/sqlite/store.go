// Package sqlite persists the re-entrant state that outlives a process:
// the previous power-ranking snapshot per league and the most recent
// projection uploads.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/glebarez/go-sqlite"

	"github.com/stuckabuc/huddlebot/internal/models"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS rank_snapshots (
			league_id TEXT NOT NULL,
			roster_id INTEGER NOT NULL,
			rank INTEGER NOT NULL,
			PRIMARY KEY (league_id, roster_id)
		);`,
		`CREATE TABLE IF NOT EXISTS ros_rows (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			rank INTEGER,
			player TEXT NOT NULL,
			position TEXT,
			pos_rank INTEGER,
			tier INTEGER,
			move INTEGER,
			team TEXT,
			ros REAL,
			next4 REAL,
			ppg REAL,
			bye INTEGER
		);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRankSnapshot replaces the stored {roster -> rank} set for a league.
func (s *Store) SaveRankSnapshot(leagueID string, ranks map[int]int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("saving rank snapshot: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM rank_snapshots WHERE league_id = ?`, leagueID); err != nil {
		return fmt.Errorf("clearing rank snapshot: %w", err)
	}
	for rosterID, rank := range ranks {
		if _, err := tx.Exec(
			`INSERT INTO rank_snapshots (league_id, roster_id, rank) VALUES (?, ?, ?)`,
			leagueID, rosterID, rank,
		); err != nil {
			return fmt.Errorf("inserting rank snapshot row: %w", err)
		}
	}

	return tx.Commit()
}

// LoadRankSnapshot returns the stored ranks for a league. A league never
// ranked before yields an empty map, not an error.
func (s *Store) LoadRankSnapshot(leagueID string) (map[int]int, error) {
	rows, err := s.db.Query(
		`SELECT roster_id, rank FROM rank_snapshots WHERE league_id = ?`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("loading rank snapshot: %w", err)
	}
	defer rows.Close()

	ranks := make(map[int]int)
	for rows.Next() {
		var rosterID, rank int
		if err := rows.Scan(&rosterID, &rank); err != nil {
			return nil, fmt.Errorf("scanning rank snapshot row: %w", err)
		}
		ranks[rosterID] = rank
	}
	return ranks, rows.Err()
}

// SaveROSRows replaces the persisted ROS upload.
func (s *Store) SaveROSRows(rowsIn []models.ProjectionRow) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("saving ROS rows: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM ros_rows`); err != nil {
		return fmt.Errorf("clearing ROS rows: %w", err)
	}
	for _, row := range rowsIn {
		var move sql.NullInt64
		if row.Move != nil {
			move = sql.NullInt64{Int64: int64(*row.Move), Valid: true}
		}
		if _, err := tx.Exec(
			`INSERT INTO ros_rows (rank, player, position, pos_rank, tier, move, team, ros, next4, ppg, bye)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			row.Rank, row.Player, row.Position, row.PosRank, row.Tier, move,
			row.Team, row.ROS, row.Next4, row.PPG, row.Bye,
		); err != nil {
			return fmt.Errorf("inserting ROS row: %w", err)
		}
	}

	return tx.Commit()
}

// LoadROSRows returns the persisted ROS upload in insertion order.
func (s *Store) LoadROSRows() ([]models.ProjectionRow, error) {
	rows, err := s.db.Query(
		`SELECT rank, player, position, pos_rank, tier, move, team, ros, next4, ppg, bye
		 FROM ros_rows ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("loading ROS rows: %w", err)
	}
	defer rows.Close()

	var out []models.ProjectionRow
	for rows.Next() {
		var row models.ProjectionRow
		var move sql.NullInt64
		if err := rows.Scan(&row.Rank, &row.Player, &row.Position, &row.PosRank,
			&row.Tier, &move, &row.Team, &row.ROS, &row.Next4, &row.PPG, &row.Bye); err != nil {
			return nil, fmt.Errorf("scanning ROS row: %w", err)
		}
		if move.Valid {
			m := int(move.Int64)
			row.Move = &m
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
