package port

import (
	"context"

	"pmwatch/internal/domain/model"
)

// ActivitySource fetches at most limit recent activities for one wallet, newest first.
// The page is not guaranteed to be complete.
type ActivitySource interface {
	Name() string
	Fetch(ctx context.Context, wallet string, limit int) ([]model.Activity, error)
}
