package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"pmwatch/internal/application/port"
	"pmwatch/internal/domain/model"
)

type Repo struct {
	db *sql.DB
}

func New(dsn string, maxOpenConns int) (*Repo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if maxOpenConns <= 0 {
		maxOpenConns = 4
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	r := &Repo{db: db}
	if err := r.migrate(ctx); err != nil {
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
  seq BIGSERIAL,
  wallet_address TEXT NOT NULL,
  timestamp BIGINT NOT NULL,
  side TEXT,
  title TEXT,
  outcome TEXT,
  size DOUBLE PRECISION,
  price DOUBLE PRECISION,
  usdc_size DOUBLE PRECISION,
  activity_type TEXT,
  raw_data TEXT,
  created_at BIGINT NOT NULL
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
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (transaction_hash) DO NOTHING
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

func (r *Repo) LatestActivity(ctx context.Context, wallet string) (*model.Activity, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+activityCols+`
		FROM activities
		WHERE wallet_address = $1
		ORDER BY timestamp DESC, seq DESC
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
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+activityCols+`
		FROM activities
		WHERE wallet_address = $1
		ORDER BY timestamp DESC, seq DESC
		LIMIT $2
	`, wallet, limitArg)
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
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities WHERE wallet_address = $1`, wallet).Scan(&n)
	return n, err
}

func (r *Repo) DeleteActivity(ctx context.Context, transactionHash string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE transaction_hash = $1`, transactionHash)
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

	if raw.Valid && raw.String != "" {
		if parsed, err := model.ParseActivity(a.Wallet, []byte(raw.String)); err == nil {
			parsed.TransactionHash = a.TransactionHash
			parsed.Timestamp = a.Timestamp
			return parsed, nil
		}
	}
	a.Side = model.Side(side.String)
	a.Title = title.String
	a.Outcome = outcome.String
	a.Type = model.ActivityType(typ.String)
	a.Size = size.Float64
	a.Price = price.Float64
	a.USDCSize = usdcSize.Float64
	return &a, nil
}

var _ port.ActivityRepository = (*Repo)(nil)
