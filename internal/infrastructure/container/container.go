package container

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"pmwatch/internal/application/port"
	"pmwatch/internal/infrastructure/config"
	_ "pmwatch/internal/infrastructure/exchange/polymarket"
	"pmwatch/internal/infrastructure/messaging/rabbitmq"
	"pmwatch/internal/infrastructure/source"
	"pmwatch/internal/infrastructure/storage/composite"
	pgrepo "pmwatch/internal/infrastructure/storage/postgres"
	redisrepo "pmwatch/internal/infrastructure/storage/redis"
	sqliterepo "pmwatch/internal/infrastructure/storage/sqlite"
)

// Container owns the storage, source and publisher built from one Config.
type Container struct {
	cfg         *config.Config
	runID       string
	repo        port.ActivityRepository
	source      port.ActivitySource
	publishers  []port.ActivityPublisher
	closeOnce   sync.Once
	closerChain []func() error
}

func New(cfg *config.Config, runID string) (*Container, error) {
	src, err := source.New(cfg.App.Source, cfg.Polymarket.BaseURL, cfg.Timeout())
	if err != nil {
		return nil, err
	}
	c := &Container{
		cfg:         cfg,
		runID:       runID,
		source:      src,
		closerChain: make([]func() error, 0),
	}

	if err := c.initStorage(); err != nil {
		_ = c.Close()
		return nil, err
	}

	if cfg.Redis.Enabled {
		if err := c.initRedis(); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("redis init failed: %w", err)
		}
	}

	if cfg.AMQP.Enabled {
		if err := c.initAMQP(); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("amqp init failed: %w", err)
		}
	}

	return c, nil
}

func (c *Container) initStorage() error {
	switch c.cfg.Storage.Driver {
	case config.DriverPostgres:
		repo, err := c.initPostgres()
		if err != nil {
			return err
		}
		c.repo = repo
	default:
		primary, err := c.initSQLite()
		if err != nil {
			return err
		}
		c.repo = primary
		if c.cfg.Storage.Postgres.Mirror {
			mirror, err := c.initPostgres()
			if err != nil {
				return err
			}
			c.repo = composite.New(primary, mirror)
		}
	}
	return nil
}

func (c *Container) initSQLite() (*sqliterepo.Repo, error) {
	repo, err := sqliterepo.New(c.cfg.Storage.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite init failed: %w", err)
	}
	c.closerChain = append(c.closerChain, func() error {
		log.Debug().Msg("closing sqlite connection")
		return repo.Close()
	})
	log.Debug().Str("path", c.cfg.Storage.SQLite.Path).Msg("sqlite initialized")
	return repo, nil
}

func (c *Container) initPostgres() (*pgrepo.Repo, error) {
	repo, err := pgrepo.New(c.cfg.Storage.Postgres.DSN, c.cfg.Storage.Postgres.MaxOpenConns)
	if err != nil {
		return nil, fmt.Errorf("postgres init failed: %w", err)
	}
	c.closerChain = append(c.closerChain, func() error {
		log.Debug().Msg("closing postgres connection")
		return repo.Close()
	})
	log.Debug().Bool("mirror", c.cfg.Storage.Postgres.Mirror).Msg("postgres initialized")
	return repo, nil
}

func (c *Container) initRedis() error {
	rdb := redis.NewClient(&redis.Options{
		Addr:     c.cfg.Redis.Addr,
		Password: c.cfg.Redis.Password,
		DB:       c.cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("redis ping failed: %w", err)
	}

	pub := redisrepo.New(rdb, c.cfg.Redis.Prefix, c.cfg.Redis.Stream, c.cfg.Redis.Channel, c.cfg.Redis.MaxLen).
		WithRunID(c.runID)
	c.publishers = append(c.publishers, pub)

	c.closerChain = append(c.closerChain, func() error {
		log.Debug().Msg("closing redis connection")
		return rdb.Close()
	})

	log.Debug().
		Str("addr", c.cfg.Redis.Addr).
		Int("db", c.cfg.Redis.DB).
		Str("stream", pub.Stream()).
		Msg("redis initialized")
	return nil
}

func (c *Container) initAMQP() error {
	pub, err := rabbitmq.Dial(c.cfg.AMQP.URL, c.cfg.AMQP.Exchange, c.cfg.AMQP.RoutingKey)
	if err != nil {
		return err
	}
	pub.WithRunID(c.runID)
	c.publishers = append(c.publishers, pub)

	c.closerChain = append(c.closerChain, func() error {
		log.Debug().Msg("closing amqp connection")
		return pub.Close()
	})

	log.Debug().Str("exchange", pub.Exchange()).Msg("amqp initialized")
	return nil
}

func (c *Container) Config() *config.Config { return c.cfg }

func (c *Container) Repository() port.ActivityRepository { return c.repo }

func (c *Container) Source() port.ActivitySource { return c.source }

// Publisher is nil when no publisher is enabled.
func (c *Container) Publisher() port.ActivityPublisher {
	switch len(c.publishers) {
	case 0:
		return nil
	case 1:
		return c.publishers[0]
	default:
		return composite.NewPublisher(c.publishers...)
	}
}

// Close releases resources in reverse order of creation.
func (c *Container) Close() error {
	var err error
	c.closeOnce.Do(func() {
		for i := len(c.closerChain) - 1; i >= 0; i-- {
			if e := c.closerChain[i](); e != nil {
				log.Error().Err(e).Msg("error closing resource")
				if err == nil {
					err = e
				}
			}
		}
	})
	return err
}
