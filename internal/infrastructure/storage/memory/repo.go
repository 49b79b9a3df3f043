package memory

import (
	"context"
	"sort"
	"sync"

	"pmwatch/internal/application/port"
	"pmwatch/internal/domain/model"
)

// Repo is an in-process activity store. Records are kept in insertion order.
type Repo struct {
	mu      sync.RWMutex
	records []model.Activity
	byHash  map[string]int
}

func New() *Repo {
	return &Repo{
		records: make([]model.Activity, 0),
		byHash:  make(map[string]int),
	}
}

func (r *Repo) InsertActivity(ctx context.Context, a *model.Activity) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byHash[a.TransactionHash]; ok {
		return false, nil
	}
	r.byHash[a.TransactionHash] = len(r.records)
	r.records = append(r.records, *a)
	return true, nil
}

func (r *Repo) LatestActivity(ctx context.Context, wallet string) (*model.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *model.Activity
	for i := range r.records {
		a := &r.records[i]
		if a.Wallet != wallet {
			continue
		}
		// on equal timestamps the last stored wins
		if latest == nil || a.Timestamp >= latest.Timestamp {
			latest = a
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := *latest
	return &out, nil
}

func (r *Repo) ListActivities(ctx context.Context, wallet string, limit int) ([]model.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.Activity
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].Wallet == wallet {
			out = append(out, r.records[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *Repo) CountActivities(ctx context.Context, wallet string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, a := range r.records {
		if a.Wallet == wallet {
			n++
		}
	}
	return n, nil
}

func (r *Repo) DeleteActivity(ctx context.Context, transactionHash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.byHash[transactionHash]
	if !ok {
		return false, nil
	}
	r.records = append(r.records[:idx], r.records[idx+1:]...)
	r.byHash = make(map[string]int, len(r.records))
	for i, a := range r.records {
		r.byHash[a.TransactionHash] = i
	}
	return true, nil
}

func (r *Repo) Close() error { return nil }

var _ port.ActivityRepository = (*Repo)(nil)
