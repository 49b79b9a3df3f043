package monitor

import (
	"context"

	"pmwatch/internal/domain/model"
)

type noopPublisher struct{}

func NewNoopPublisher() Publisher { return &noopPublisher{} }

func (n *noopPublisher) Publish(ctx context.Context, wallet string, activities []model.Activity) error {
	return nil
}
