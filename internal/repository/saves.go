package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSaveNotFound is returned when no save exists for a game name.
var ErrSaveNotFound = errors.New("save not found")

const savesSchema = `
CREATE TABLE IF NOT EXISTS game_saves (
	id BIGSERIAL PRIMARY KEY,
	game_name TEXT NOT NULL,
	snapshot JSONB NOT NULL,
	checksum TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS game_saves_name_idx ON game_saves (game_name, created_at DESC);
`

// SaveInfo describes a stored save without its snapshot payload.
type SaveInfo struct {
	ID        int64
	GameName  string
	Checksum  string
	CreatedAt time.Time
}

// SaveRepository persists game snapshots.
type SaveRepository struct {
	db *pgxpool.Pool
}

// NewSaveRepository creates a save repository over the connection pool.
func NewSaveRepository(db *pgxpool.Pool) *SaveRepository {
	return &SaveRepository{db: db}
}

// EnsureSchema creates the saves table if it does not exist.
func (r *SaveRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, savesSchema); err != nil {
		return fmt.Errorf("ensure saves schema: %w", err)
	}
	return nil
}

// Save stores a snapshot under a game name and returns the save ID.
func (r *SaveRepository) Save(ctx context.Context, gameName string, snapshot []byte, checksum string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO game_saves (game_name, snapshot, checksum) VALUES ($1, $2, $3) RETURNING id`,
		gameName, snapshot, checksum,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert save for %s: %w", gameName, err)
	}
	return id, nil
}

// LoadLatest returns the newest snapshot and checksum for a game name.
func (r *SaveRepository) LoadLatest(ctx context.Context, gameName string) ([]byte, string, error) {
	var snapshot []byte
	var checksum string
	err := r.db.QueryRow(ctx,
		`SELECT snapshot, checksum FROM game_saves WHERE game_name = $1 ORDER BY created_at DESC LIMIT 1`,
		gameName,
	).Scan(&snapshot, &checksum)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", fmt.Errorf("%w: %s", ErrSaveNotFound, gameName)
	}
	if err != nil {
		return nil, "", fmt.Errorf("load save for %s: %w", gameName, err)
	}
	return snapshot, checksum, nil
}

// List returns save metadata, newest first.
func (r *SaveRepository) List(ctx context.Context, limit int) ([]SaveInfo, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, game_name, checksum, created_at FROM game_saves ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	var saves []SaveInfo
	for rows.Next() {
		var s SaveInfo
		if err := rows.Scan(&s.ID, &s.GameName, &s.Checksum, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan save row: %w", err)
		}
		saves = append(saves, s)
	}
	return saves, rows.Err()
}
