package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	appcontainer "pmwatch/internal/application/container"
	"pmwatch/internal/infrastructure/config"
	"pmwatch/internal/infrastructure/container"
	"pmwatch/internal/infrastructure/logger"
)

// ErrMissingWallet is returned after the usage text has been printed.
var ErrMissingWallet = errors.New("missing wallet address")

type options struct {
	configPath string
	dbPath     string
	limit      int
	logLevel   string
	stdout     io.Writer
}

func NewRootCmd(stdout io.Writer) *cobra.Command {
	opts := &options{stdout: stdout}

	rootCmd := &cobra.Command{
		Use:           "pmwatch <wallet_address> [wallet_address...]",
		Short:         "Report Polymarket activity that is new since the last check",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			wallets := cleanWallets(args)
			if len(wallets) == 0 {
				_ = cmd.Usage()
				return ErrMissingWallet
			}
			return runCheck(cmd.Context(), opts, wallets)
		},
	}
	rootCmd.SetOut(stdout)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "TOML config file (optional)")
	pf.StringVar(&opts.dbPath, "db", "", "sqlite database path (overrides config)")
	pf.IntVar(&opts.limit, "limit", 0, "activities fetched per check (default 25)")
	pf.StringVar(&opts.logLevel, "log-level", "", "debug | info | warn | error")

	rootCmd.AddCommand(InspectCmd(opts))
	rootCmd.AddCommand(ForgetCmd(opts))
	return rootCmd
}

func Execute(ctx context.Context) error {
	return NewRootCmd(os.Stdout).ExecuteContext(ctx)
}

// open loads the configuration, applies flag overrides and builds both containers.
// Closing the infrastructure container releases everything.
func (o *options) open() (*container.Container, *appcontainer.Container, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.dbPath != "" {
		cfg.Storage.SQLite.Path = o.dbPath
	}
	if o.limit > 0 {
		cfg.App.Limit = o.limit
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}

	logger.Setup(cfg.LogLevel)
	runID := uuid.NewString()
	logger.WithRunID(runID)

	infra, err := container.New(cfg, runID)
	if err != nil {
		return nil, nil, err
	}
	return infra, appcontainer.New(infra.Repository(), infra.Source(), infra.Publisher(), cfg.App.Limit), nil
}

func cleanWallets(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
