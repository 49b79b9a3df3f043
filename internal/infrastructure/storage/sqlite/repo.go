package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"pmwatch/internal/application/port"
	"pmwatch/internal/domain/model"
)

type Repo struct {
	db *sql.DB
}

func New(path string) (*Repo, error) {
	// ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS activities (
  transaction_hash TEXT PRIMARY KEY,
  wallet_address TEXT NOT NULL,
  timestamp INTEGER NOT NULL,
  side TEXT,
  title TEXT,
  outcome TEXT,
  size REAL,
  price REAL,
  usdc_size REAL,
  activity_type TEXT,
  raw_data TEXT,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_wallet_timestamp ON activities(wallet_address, timestamp DESC);
`)
	return err
}

const activityCols = `transaction_hash, wallet_address, timestamp, side, title, outcome,
	size, price, usdc_size, activity_type, raw_data`

func (r *Repo) InsertActivity(ctx context.Context, a *model.Activity) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO activities(`+activityCols+`, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(transaction_hash) DO NOTHING
	`, a.TransactionHash, a.Wallet, a.Timestamp, string(a.Side), a.Title, a.Outcome,
		a.Size, a.Price, a.USDCSize, string(a.Type), string(a.Payload()), time.Now().UnixMilli())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// LatestActivity breaks timestamp ties by insertion order. Records are stored oldest first,
// so the last stored of equal timestamps is the newest the source reported.
func (r *Repo) LatestActivity(ctx context.Context, wallet string) (*model.Activity, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+activityCols+`
		FROM activities
		WHERE wallet_address = ?
		ORDER BY timestamp DESC, rowid DESC
		LIMIT 1
	`, wallet)

	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *Repo) ListActivities(ctx context.Context, wallet string, limit int) ([]model.Activity, error) {
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+activityCols+`
		FROM activities
		WHERE wallet_address = ?
		ORDER BY timestamp DESC, rowid DESC
		LIMIT ?
	`, wallet, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *Repo) CountActivities(ctx context.Context, wallet string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities WHERE wallet_address = ?`, wallet).Scan(&n)
	return n, err
}

func (r *Repo) DeleteActivity(ctx context.Context, transactionHash string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE transaction_hash = ?`, transactionHash)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanActivity(s scanner) (*model.Activity, error) {
	var (
		a                     model.Activity
		side, title, outcome  sql.NullString
		typ, raw              sql.NullString
		size, price, usdcSize sql.NullFloat64
	)
	if err := s.Scan(&a.TransactionHash, &a.Wallet, &a.Timestamp, &side, &title, &outcome,
		&size, &price, &usdcSize, &typ, &raw); err != nil {
		return nil, err
	}
	return fillActivity(&a, side, title, outcome, typ, raw, size, price, usdcSize), nil
}

// fillActivity prefers the stored payload for display fields and falls back to the columns.
func fillActivity(a *model.Activity, side, title, outcome, typ, raw sql.NullString, size, price, usdcSize sql.NullFloat64) *model.Activity {
	if raw.Valid && raw.String != "" {
		if parsed, err := model.ParseActivity(a.Wallet, []byte(raw.String)); err == nil {
			parsed.TransactionHash = a.TransactionHash
			parsed.Timestamp = a.Timestamp
			return parsed
		}
	}
	a.Side = model.Side(side.String)
	a.Title = title.String
	a.Outcome = outcome.String
	a.Type = model.ActivityType(typ.String)
	a.Size = size.Float64
	a.Price = price.Float64
	a.USDCSize = usdcSize.Float64
	return a
}

var _ port.ActivityRepository = (*Repo)(nil)
