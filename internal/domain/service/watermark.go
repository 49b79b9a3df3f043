package service

import "pmwatch/internal/domain/model"

// NewSince returns the records of a newest-first page that precede the watermark.
// If the watermark is not on the page, the whole page is returned with found=false:
// more activity may have happened than the page holds.
func NewSince(page []model.Activity, watermark string) (fresh []model.Activity, found bool) {
	for i := range page {
		if page[i].TransactionHash == watermark {
			return page[:i:i], true
		}
	}
	return page, false
}

// Notifiable drops REWARD activity. Rewards are stored but never reported.
func Notifiable(activities []model.Activity) []model.Activity {
	out := make([]model.Activity, 0, len(activities))
	for _, a := range activities {
		if a.IsReward() {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Chronological returns a reversed copy, turning a newest-first page oldest-first.
func Chronological(activities []model.Activity) []model.Activity {
	out := make([]model.Activity, len(activities))
	for i, a := range activities {
		out[len(activities)-1-i] = a
	}
	return out
}
