package composite

import (
	"context"
	"errors"

	"pmwatch/internal/application/port"
	"pmwatch/internal/domain/model"
)

// Publisher hands activities to every configured publisher, even after one fails.
type Publisher struct {
	pubs []port.ActivityPublisher
}

func NewPublisher(pubs ...port.ActivityPublisher) *Publisher {
	out := make([]port.ActivityPublisher, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			out = append(out, p)
		}
	}
	return &Publisher{pubs: out}
}

func (p *Publisher) Len() int { return len(p.pubs) }

func (p *Publisher) Publish(ctx context.Context, wallet string, activities []model.Activity) error {
	var errs []error
	for _, pub := range p.pubs {
		if err := pub.Publish(ctx, wallet, activities); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ port.ActivityPublisher = (*Publisher)(nil)
