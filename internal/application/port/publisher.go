package port

import (
	"context"

	"pmwatch/internal/domain/model"
)

// ActivityPublisher hands newly detected activity to downstream consumers.
type ActivityPublisher interface {
	Publish(ctx context.Context, wallet string, activities []model.Activity) error
}
