package port

import (
	"context"

	"pmwatch/internal/domain/model"
)

type ActivityRepository interface {
	// InsertActivity stores a record unless its transaction hash is already present.
	// inserted reports whether a row was written.
	InsertActivity(ctx context.Context, a *model.Activity) (inserted bool, err error)

	// LatestActivity returns the stored record with the highest timestamp for wallet,
	// or nil if the wallet has never been seen.
	LatestActivity(ctx context.Context, wallet string) (*model.Activity, error)

	// ListActivities returns up to limit stored records for wallet, newest first.
	ListActivities(ctx context.Context, wallet string, limit int) ([]model.Activity, error)
	CountActivities(ctx context.Context, wallet string) (int, error)

	// DeleteActivity is for manual tooling only; the detector never deletes.
	DeleteActivity(ctx context.Context, transactionHash string) (bool, error)

	// Connection management
	Close() error
}
