package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"pmwatch/internal/application/port"
	"pmwatch/internal/domain/model"
)

// Publisher feeds new activity to downstream automation: every record is appended to a
// stream and announced on a pub/sub channel.
type Publisher struct {
	rdb     *redis.Client
	prefix  string
	stream  string
	channel string
	maxLen  int64
	runID   string
}

func New(rdb *redis.Client, prefix, stream, channel string, maxLen int64) *Publisher {
	if strings.TrimSpace(prefix) == "" {
		prefix = "pmwatch"
	}
	if strings.TrimSpace(stream) == "" {
		stream = prefix + ":activity"
	}
	if strings.TrimSpace(channel) == "" {
		channel = prefix + ":activity:pub"
	}
	return &Publisher{
		rdb:     rdb,
		prefix:  prefix,
		stream:  stream,
		channel: channel,
		maxLen:  maxLen,
	}
}

// WithRunID tags published messages with the invocation id.
func (p *Publisher) WithRunID(id string) *Publisher {
	p.runID = id
	return p
}

func (p *Publisher) Stream() string  { return p.stream }
func (p *Publisher) Channel() string { return p.channel }

// LastSeenKey holds the most recently published transaction hash per wallet.
func (p *Publisher) LastSeenKey(wallet string) string {
	return fmt.Sprintf("%s:last_seen:%s", p.prefix, strings.ToLower(wallet))
}

func (p *Publisher) Publish(ctx context.Context, wallet string, activities []model.Activity) error {
	if len(activities) == 0 {
		return nil
	}

	pipe := p.rdb.Pipeline()
	for i := range activities {
		msg := model.NewActivityEvent(p.runID, wallet, &activities[i])
		b, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("redis: encode activity %s: %w", msg.TxHash, err)
		}

		// 1) Stream: XADD <stream> * wallet tx ts type payload
		args := &redis.XAddArgs{
			Stream: p.stream,
			Values: map[string]any{
				"wallet":  wallet,
				"tx":      msg.TxHash,
				"ts":      msg.Timestamp,
				"type":    msg.Type,
				"payload": string(b),
			},
		}
		if p.maxLen > 0 {
			args.MaxLen = p.maxLen
			args.Approx = true
		}
		pipe.XAdd(ctx, args)

		// 2) PubSub: PUBLISH <channel> json
		pipe.Publish(ctx, p.channel, string(b))
	}
	// activities are oldest first, so the last one is the newest
	pipe.Set(ctx, p.LastSeenKey(wallet), activities[len(activities)-1].TransactionHash, 0)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: publish activity: %w", err)
	}
	return nil
}

var _ port.ActivityPublisher = (*Publisher)(nil)
