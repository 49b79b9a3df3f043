package composite

import (
	"context"

	"github.com/rs/zerolog/log"

	"pmwatch/internal/application/port"
	"pmwatch/internal/domain/model"
)

// Repo reads from the primary and mirrors writes to the other repos.
// Mirror failures are logged and never change the primary's answer, so the
// watermark always comes from one store.
type Repo struct {
	primary port.ActivityRepository
	mirrors []port.ActivityRepository
}

func New(primary port.ActivityRepository, mirrors ...port.ActivityRepository) *Repo {
	// nil mirrors are dropped
	out := make([]port.ActivityRepository, 0, len(mirrors))
	for _, r := range mirrors {
		if r != nil {
			out = append(out, r)
		}
	}
	return &Repo{primary: primary, mirrors: out}
}

func (r *Repo) InsertActivity(ctx context.Context, a *model.Activity) (bool, error) {
	inserted, err := r.primary.InsertActivity(ctx, a)
	if err != nil {
		return false, err
	}
	for _, m := range r.mirrors {
		if _, err := m.InsertActivity(ctx, a); err != nil {
			log.Warn().Err(err).Str("tx", a.TransactionHash).Msg("mirror insert failed")
		}
	}
	return inserted, nil
}

func (r *Repo) LatestActivity(ctx context.Context, wallet string) (*model.Activity, error) {
	return r.primary.LatestActivity(ctx, wallet)
}

func (r *Repo) ListActivities(ctx context.Context, wallet string, limit int) ([]model.Activity, error) {
	return r.primary.ListActivities(ctx, wallet, limit)
}

func (r *Repo) CountActivities(ctx context.Context, wallet string) (int, error) {
	return r.primary.CountActivities(ctx, wallet)
}

func (r *Repo) DeleteActivity(ctx context.Context, transactionHash string) (bool, error) {
	deleted, err := r.primary.DeleteActivity(ctx, transactionHash)
	if err != nil {
		return false, err
	}
	for _, m := range r.mirrors {
		if _, err := m.DeleteActivity(ctx, transactionHash); err != nil {
			log.Warn().Err(err).Str("tx", transactionHash).Msg("mirror delete failed")
		}
	}
	return deleted, nil
}

// Close closes every repo and returns the first error.
func (r *Repo) Close() error {
	var errs []error
	if err := r.primary.Close(); err != nil {
		errs = append(errs, err)
	}
	for _, m := range r.mirrors {
		if err := m.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}

var _ port.ActivityRepository = (*Repo)(nil)
