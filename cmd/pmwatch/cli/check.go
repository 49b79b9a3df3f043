package cli

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"pmwatch/internal/application/port"
	"pmwatch/internal/application/usecase/monitor"
	"pmwatch/internal/domain/model"
	"pmwatch/internal/infrastructure/metrics"
	"pmwatch/internal/interfaces/console"
)

func runCheck(ctx context.Context, opts *options, wallets []string) error {
	infra, app, err := opts.open()
	if err != nil {
		return err
	}
	defer infra.Close()

	cfg := infra.Config()
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// completed wallets are already stored, so they are reported even when another wallet failed
	results, checkErr := app.MonitorService().CheckWallets(ctx, wallets)

	formatter := monitor.NewFormatter(loc, cfg.Display.Plain)
	err = reportResults(console.NewWriterSink(opts.stdout), formatter, results, checkErr)

	if path := cfg.Metrics.Textfile; path != "" {
		writeMetrics(path, results)
	}
	return err
}

// reportResults writes every completed result and then hands back checkErr.
func reportResults(sink port.Sink, f *monitor.Formatter, results []*model.CheckResult, checkErr error) error {
	for _, res := range results {
		if err := f.Report(sink, res); err != nil {
			return errors.Join(checkErr, err)
		}
	}
	return checkErr
}

// writeMetrics never fails the check; the results are already on stdout.
func writeMetrics(path string, results []*model.CheckResult) {
	rec := metrics.NewRecorder()
	now := time.Now()
	for _, res := range results {
		rec.Observe(res, now)
	}
	if err := rec.WriteTextfile(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("write metrics textfile failed")
	}
}
