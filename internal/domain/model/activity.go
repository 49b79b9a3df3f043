package model

import (
	"encoding/json"
	"fmt"
	"time"
)

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

type ActivityType string

const (
	ActivityTrade      ActivityType = "TRADE"
	ActivityReward     ActivityType = "REWARD"
	ActivitySplit      ActivityType = "SPLIT"
	ActivityMerge      ActivityType = "MERGE"
	ActivityRedeem     ActivityType = "REDEEM"
	ActivityConversion ActivityType = "CONVERSION"
)

// Activity is one observed market transaction for a wallet, as reported by the data API.
// Raw keeps the original payload byte for byte; it is what gets stored and re-emitted.
type Activity struct {
	TransactionHash string       `json:"transactionHash"`
	Wallet          string       `json:"-"` // address the activity was fetched for
	ProxyWallet     string       `json:"proxyWallet"`
	Pseudonym       string       `json:"pseudonym"`
	Name            string       `json:"name"`
	Timestamp       int64        `json:"timestamp"` // unix seconds, from the source
	Side            Side         `json:"side"`
	Title           string       `json:"title"`
	Outcome         string       `json:"outcome"`
	Size            float64      `json:"size"`
	Price           float64      `json:"price"`
	USDCSize        float64      `json:"usdcSize"`
	Type            ActivityType `json:"type"`

	Raw json.RawMessage `json:"-"`
}

// IsReward matches the REWARD type exactly.
func (a *Activity) IsReward() bool {
	return a.Type == ActivityReward
}

func (a *Activity) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(a.Timestamp, 0).In(loc)
}

// DisplayUser prefers the pseudonym, then the profile name.
func (a *Activity) DisplayUser() string {
	if a.Pseudonym != "" {
		return a.Pseudonym
	}
	if a.Name != "" {
		return a.Name
	}
	return "Anonymous"
}

// Payload returns the verbatim source payload, or a re-encoding when none was kept.
func (a *Activity) Payload() json.RawMessage {
	if len(a.Raw) > 0 {
		return a.Raw
	}
	b, _ := json.Marshal(a)
	return b
}

// ParseActivities decodes a data API activity array for wallet.
// Entries without a transaction hash are dropped: they cannot be keyed. An entry that
// does not decode is left out and returned in skipped; only a body that is not a JSON
// array fails the page.
func ParseActivities(wallet string, body []byte) (activities []Activity, skipped []error, err error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, nil, fmt.Errorf("decode activity array: %w", err)
	}

	activities = make([]Activity, 0, len(raws))
	for i, raw := range raws {
		a, err := ParseActivity(wallet, raw)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("decode activity %d: %w", i, err))
			continue
		}
		if a.TransactionHash == "" {
			continue
		}
		activities = append(activities, *a)
	}
	return activities, skipped, nil
}

func ParseActivity(wallet string, raw json.RawMessage) (*Activity, error) {
	var a Activity
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, err
	}
	a.Wallet = wallet
	a.Raw = append(json.RawMessage(nil), raw...)
	return &a, nil
}

func ShortenWallet(addr string) string {
	if len(addr) > 10 {
		return addr[:6] + "..." + addr[len(addr)-4:]
	}
	return addr
}
