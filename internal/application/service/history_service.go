package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"pmwatch/internal/application/port"
	"pmwatch/internal/domain/model"
	dsvc "pmwatch/internal/domain/service"
)

const MaxHistory = 25

var ErrHistoryRange = fmt.Errorf("n must be between 1 and %d", MaxHistory)

// Inspection is a snapshot of what is stored for a wallet next to what the source returns now.
type Inspection struct {
	Wallet    string
	Stored    int
	Watermark *model.Activity
	Local     []model.Activity // newest first
	Remote    []model.Activity // newest first

	// WatermarkOnPage is false when the stored watermark has scrolled off the source page.
	WatermarkOnPage bool
	RemoteErr       error
}

type HistoryService struct {
	repo   port.ActivityRepository
	source port.ActivitySource
}

func NewHistoryService(repo port.ActivityRepository, source port.ActivitySource) *HistoryService {
	return &HistoryService{repo: repo, source: source}
}

// Inspect never writes. A source failure is reported on the Inspection, not as an error.
func (s *HistoryService) Inspect(ctx context.Context, wallet string, n int) (*Inspection, error) {
	if n < 1 || n > MaxHistory {
		return nil, ErrHistoryRange
	}
	out := &Inspection{Wallet: wallet}

	var err error
	if out.Stored, err = s.repo.CountActivities(ctx, wallet); err != nil {
		return nil, fmt.Errorf("count activities: %w", err)
	}
	if out.Watermark, err = s.repo.LatestActivity(ctx, wallet); err != nil {
		return nil, fmt.Errorf("load watermark: %w", err)
	}
	if out.Local, err = s.repo.ListActivities(ctx, wallet, n); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	if s.source == nil {
		out.RemoteErr = errors.New("no activity source configured")
		return out, nil
	}
	page, err := s.source.Fetch(ctx, wallet, MaxHistory)
	if err != nil {
		out.RemoteErr = err
		log.Warn().Err(err).Str("wallet", wallet).Msg("inspect: fetch activity failed")
		return out, nil
	}
	if out.Watermark != nil {
		_, out.WatermarkOnPage = dsvc.NewSince(page, out.Watermark.TransactionHash)
	}
	if len(page) > n {
		page = page[:n]
	}
	out.Remote = page
	return out, nil
}

// Forget deletes the n newest stored records so the next check reports them again.
func (s *HistoryService) Forget(ctx context.Context, wallet string, n int) ([]model.Activity, error) {
	if n < 1 || n > MaxHistory {
		return nil, ErrHistoryRange
	}
	newest, err := s.repo.ListActivities(ctx, wallet, n)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	removed := make([]model.Activity, 0, len(newest))
	for _, a := range newest {
		ok, err := s.repo.DeleteActivity(ctx, a.TransactionHash)
		if err != nil {
			return removed, fmt.Errorf("delete %s: %w", a.TransactionHash, err)
		}
		if ok {
			removed = append(removed, a)
		}
	}
	log.Info().Str("wallet", wallet).Int("removed", len(removed)).Msg("forgot newest activity")
	return removed, nil
}
