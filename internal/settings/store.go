// Package settings persists each user's last country-pair selection so
// mapping contexts can be rebuilt without client-side state.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/synergy-credit/scorenorm/internal/calibration"
)

var ErrNotFound = errors.New("settings not found")

type Settings struct {
	UserID    string                `json:"userId"`
	Selection calibration.Selection `json:"selection"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

type Store interface {
	Get(ctx context.Context, userID string) (Settings, error)
	Put(ctx context.Context, userID string, sel calibration.Selection) (Settings, error)
}

type SQLStore struct{ db *sql.DB }

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Get(ctx context.Context, userID string) (Settings, error) {
	out := Settings{UserID: userID}
	var updated int64
	err := s.db.QueryRowContext(ctx,
		`SELECT origin_code, dest_code, updated_at FROM user_settings WHERE user_id=$1`, userID,
	).Scan(&out.Selection.Origin, &out.Selection.Dest, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Settings{}, ErrNotFound
	}
	if err != nil {
		return Settings{}, err
	}
	out.UpdatedAt = time.Unix(updated, 0).UTC()
	return out, nil
}

func (s *SQLStore) Put(ctx context.Context, userID string, sel calibration.Selection) (Settings, error) {
	now := time.Now().UTC().Truncate(time.Second)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_settings (user_id, origin_code, dest_code, updated_at)
		 VALUES ($1,$2,$3,$4)
		 ON CONFLICT (user_id) DO UPDATE SET
		   origin_code=EXCLUDED.origin_code, dest_code=EXCLUDED.dest_code, updated_at=EXCLUDED.updated_at`,
		userID, sel.Origin, sel.Dest, now.Unix())
	if err != nil {
		return Settings{}, err
	}
	return Settings{UserID: userID, Selection: sel, UpdatedAt: now}, nil
}
