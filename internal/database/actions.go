// internal/database/actions.go
package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/liarsdeck/internal/cache"
)

const schema = `
	CREATE TABLE IF NOT EXISTS games (
		id         UUID PRIMARY KEY,
		room_id    TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'in_progress',
		winner_id  TEXT,
		start_time TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		end_time   TIMESTAMPTZ
	);
	CREATE TABLE IF NOT EXISTS game_actions (
		game_id        UUID NOT NULL REFERENCES games (id),
		action_index   INT NOT NULL,
		actor_id       TEXT,
		action_type    TEXT NOT NULL,
		action_payload JSONB,
		created_at     TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (game_id, action_index)
	);
`

// ActionStore persists game action records for the historian.
type ActionStore struct {
	pool *pgxpool.Pool
}

func NewActionStore(pool *pgxpool.Pool) *ActionStore {
	return &ActionStore{pool: pool}
}

// EnsureSchema creates the tables if they do not exist yet.
func (s *ActionStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// InsertActions writes a batch of records in one transaction. A game row is
// upserted for every record and closed when its game_end record arrives.
func (s *ActionStore) InsertActions(ctx context.Context, records []cache.GameActionRecord) error {
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range records {
			if err := insertActionTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("action %s/%d: %w", rec.GameID, rec.ActionIndex, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert %d actions: %w", len(records), err)
	}
	return nil
}

func insertActionTx(ctx context.Context, tx pgx.Tx, rec cache.GameActionRecord) error {
	upsertGameQ := `
		INSERT INTO games (id, room_id, status)
		VALUES ($1, $2, 'in_progress')
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := tx.Exec(ctx, upsertGameQ, rec.GameID, rec.RoomID); err != nil {
		return err
	}

	payload, err := json.Marshal(rec.ActionPayload)
	if err != nil {
		return err
	}
	actionInsertQ := `
		INSERT INTO game_actions (game_id, action_index, actor_id, action_type, action_payload, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, to_timestamp($6::float8 / 1000))
		ON CONFLICT (game_id, action_index) DO NOTHING
	`
	if _, err := tx.Exec(ctx, actionInsertQ,
		rec.GameID, rec.ActionIndex, rec.ActorID, rec.ActionType, json.RawMessage(payload), rec.Timestamp,
	); err != nil {
		return err
	}

	if rec.ActionType == "game_end" {
		finalizeQ := `
			UPDATE games
			SET status = 'completed', end_time = NOW(), winner_id = NULLIF($2, '')
			WHERE id = $1
		`
		if _, err := tx.Exec(ctx, finalizeQ, rec.GameID, rec.ActorID); err != nil {
			return err
		}
	}
	return nil
}
