package calibration

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/synergy-credit/scorenorm/internal/normalize"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Get(ctx context.Context, sel Selection) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT origin_code,dest_code,anchors_json,method,updated_at,updated_by
		 FROM anchor_sets WHERE origin_code=$1 AND dest_code=$2`,
		sel.Origin, sel.Dest)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

func (s *SQLStore) Put(ctx context.Context, rec Record) error {
	aj, err := json.Marshal(pairs(rec.Anchors))
	if err != nil {
		return err
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO anchor_sets (origin_code,dest_code,anchors_json,method,updated_at,updated_by)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (origin_code,dest_code) DO UPDATE SET
		   anchors_json=EXCLUDED.anchors_json, method=EXCLUDED.method,
		   updated_at=EXCLUDED.updated_at, updated_by=EXCLUDED.updated_by`,
		rec.Origin, rec.Dest, string(aj), rec.Method, rec.UpdatedAt.Unix(), rec.UpdatedBy)
	return err
}

func (s *SQLStore) Delete(ctx context.Context, sel Selection) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM anchor_sets WHERE origin_code=$1 AND dest_code=$2`, sel.Origin, sel.Dest)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT origin_code,dest_code,anchors_json,method,updated_at,updated_by
		 FROM anchor_sets ORDER BY origin_code, dest_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var rec Record
	var aj string
	var updated int64
	if err := sc.Scan(&rec.Origin, &rec.Dest, &aj, &rec.Method, &updated, &rec.UpdatedBy); err != nil {
		return Record{}, err
	}
	var ps [][2]float64
	if err := json.Unmarshal([]byte(aj), &ps); err != nil {
		return Record{}, fmt.Errorf("anchors for %s-%s: %w", rec.Origin, rec.Dest, err)
	}
	rec.Anchors = make([]normalize.Anchor, len(ps))
	for i, p := range ps {
		rec.Anchors[i] = normalize.Anchor{Origin: p[0], Mapped: p[1]}
	}
	rec.UpdatedAt = time.Unix(updated, 0).UTC()
	return rec, nil
}

func pairs(anchors []normalize.Anchor) [][2]float64 {
	out := make([][2]float64, len(anchors))
	for i, a := range anchors {
		out[i] = [2]float64{a.Origin, a.Mapped}
	}
	return out
}
