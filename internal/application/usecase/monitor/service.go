package monitor

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pmwatch/internal/domain/model"
	dsvc "pmwatch/internal/domain/service"
)

type ServiceDeps struct {
	Source    ActivitySource
	Repo      Repository
	Publisher Publisher // optional
	Limit     int
	Logger    *zerolog.Logger // optional, defaults to the global logger
}

type Service struct {
	deps ServiceDeps
	log  zerolog.Logger
}

func NewService(deps ServiceDeps) *Service {
	if deps.Limit <= 0 {
		deps.Limit = DefaultLimit
	}
	if deps.Publisher == nil {
		deps.Publisher = NewNoopPublisher()
	}
	l := log.Logger
	if deps.Logger != nil {
		l = *deps.Logger
	}
	return &Service{deps: deps, log: l.With().Str("component", "monitor").Logger()}
}

// DetectNew fetches the wallet's recent activity and returns what was not seen before,
// oldest first. Every new record is stored, including REWARD activity that is not reported.
// A fetch failure is logged and reads as no activity.
func (s *Service) DetectNew(ctx context.Context, wallet string) (*model.CheckResult, error) {
	if s.deps.Source == nil || s.deps.Repo == nil {
		return nil, errors.New("monitor: source and repo are required")
	}
	res := &model.CheckResult{Wallet: wallet, Activities: []model.Activity{}}
	l := s.log.With().Str("wallet", wallet).Logger()
	if !model.IsWalletAddress(wallet) {
		l.Warn().Msg("wallet is not a 20-byte hex address; the source will likely return nothing")
	}

	page, err := s.deps.Source.Fetch(ctx, wallet, s.deps.Limit)
	if err != nil {
		l.Error().Err(err).Str("source", s.deps.Source.Name()).Msg("fetch activity failed")
		res.FetchFailed = true
		return res, nil
	}
	res.Fetched = len(page)
	if len(page) == 0 {
		return res, nil
	}

	latest, err := s.deps.Repo.LatestActivity(ctx, wallet)
	if err != nil {
		return nil, fmt.Errorf("monitor: load watermark: %w", err)
	}

	if latest == nil {
		res.Bootstrapped = true
		s.store(ctx, l, page, res)
		l.Info().
			Int("fetched", res.Fetched).
			Int("stored", res.Stored).
			Msg("first run: stored activity without notifying")
		return res, nil
	}
	res.Watermark = latest.TransactionHash

	fresh, found := dsvc.NewSince(page, latest.TransactionHash)
	if !found {
		res.PossibleGap = true
		l.Warn().
			Str("watermark", latest.TransactionHash).
			Int("page", len(page)).
			Msg("watermark not on page, treating whole page as new; older activity may be missing")
	}

	s.store(ctx, l, fresh, res)
	res.Activities = dsvc.Chronological(dsvc.Notifiable(fresh))

	l.Info().
		Int("fetched", res.Fetched).
		Int("new", len(fresh)).
		Int("stored", res.Stored).
		Int("reported", len(res.Activities)).
		Msg("check complete")

	if len(res.Activities) > 0 {
		if err := s.deps.Publisher.Publish(ctx, wallet, res.Activities); err != nil {
			l.Error().Err(err).Msg("publish new activity failed")
		}
	}
	return res, nil
}

// CheckWallets runs DetectNew for each wallet in order. Each wallet keeps its own watermark,
// so a failed wallet does not stop the rest: the completed results are returned together
// with the joined per-wallet errors and must be reported even when the error is non-nil.
func (s *Service) CheckWallets(ctx context.Context, wallets []string) ([]*model.CheckResult, error) {
	out := make([]*model.CheckResult, 0, len(wallets))
	var errs []error
	for _, w := range wallets {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		res, err := s.DetectNew(ctx, w)
		if err != nil {
			s.log.Error().Err(err).Str("wallet", w).Msg("check wallet failed")
			errs = append(errs, fmt.Errorf("wallet %s: %w", w, err))
			continue
		}
		out = append(out, res)
	}
	return out, errors.Join(errs...)
}

// store inserts a newest-first slice oldest first, so insertion order stays chronological
// across runs. A failed insert is logged and skipped.
func (s *Service) store(ctx context.Context, l zerolog.Logger, activities []model.Activity, res *model.CheckResult) {
	for i := len(activities) - 1; i >= 0; i-- {
		a := activities[i]
		a.Wallet = res.Wallet
		inserted, err := s.deps.Repo.InsertActivity(ctx, &a)
		if err != nil {
			res.Skipped++
			l.Error().Err(err).Str("tx", a.TransactionHash).Msg("store activity failed")
			continue
		}
		if inserted {
			res.Stored++
		}
	}
}
