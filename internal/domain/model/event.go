package model

import "encoding/json"

// ActivityEvent is what downstream consumers receive for each reported activity.
type ActivityEvent struct {
	RunID     string          `json:"run_id,omitempty"`
	Wallet    string          `json:"wallet"`
	TxHash    string          `json:"transaction_hash"`
	Timestamp int64           `json:"timestamp"`
	Type      string          `json:"type"`
	Activity  json.RawMessage `json:"activity"`
}

func NewActivityEvent(runID, wallet string, a *Activity) ActivityEvent {
	return ActivityEvent{
		RunID:     runID,
		Wallet:    wallet,
		TxHash:    a.TransactionHash,
		Timestamp: a.Timestamp,
		Type:      string(a.Type),
		Activity:  a.Payload(),
	}
}
