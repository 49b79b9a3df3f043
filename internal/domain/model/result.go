package model

// CheckResult is the outcome of one new-activity check for a wallet.
type CheckResult struct {
	Wallet     string
	Activities []Activity // new, notifiable, oldest first
	Watermark  string     // watermark the check compared against; empty on first run

	Fetched int // records returned by the source
	Stored  int // records actually inserted
	Skipped int // records whose insert failed

	Bootstrapped bool // first run: page stored, nothing reported
	PossibleGap  bool // watermark was not on the page, older activity may have been missed
	FetchFailed  bool // the source errored; reported as no activity
}

func (r *CheckResult) HasNewActivity() bool {
	return r != nil && len(r.Activities) > 0
}
