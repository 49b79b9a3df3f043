package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"pmwatch/internal/application/port"
	"pmwatch/internal/domain/model"
)

const (
	markerBuy   = "🟢"
	markerSell  = "🔴"
	separator   = "------------------------------------------------------------"
	timeLayout  = "2006-01-02 15:04:05"
	noActivity  = "No new activity detected"
	plainBuy    = "[+]"
	plainSell   = "[-]"
	unknownText = "UNKNOWN"
)

type Formatter struct {
	Location *time.Location
	Plain    bool // no emoji markers
}

func NewFormatter(loc *time.Location, plain bool) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{Location: loc, Plain: plain}
}

func (f *Formatter) marker(side model.Side) string {
	buy := side == model.SideBuy
	switch {
	case f.Plain && buy:
		return plainBuy
	case f.Plain:
		return plainSell
	case buy:
		return markerBuy
	default:
		return markerSell
	}
}

func (f *Formatter) Render(a *model.Activity) string {
	side := string(a.Side)
	if side == "" {
		side = unknownText
	}
	title := orDefault(a.Title, "Unknown Market")
	outcome := orDefault(a.Outcome, "Unknown")
	wallet := orDefault(a.ProxyWallet, "Unknown")
	tx := orDefault(a.TransactionHash, "N/A")
	ts := a.Time(f.Location)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", f.marker(a.Side), side)
	fmt.Fprintf(&sb, "Market: %s\n", title)
	fmt.Fprintf(&sb, "Outcome: %s\n", outcome)
	fmt.Fprintf(&sb, "Size: %s shares @ $%.4f\n", groupThousands(a.Size, 0), a.Price)
	fmt.Fprintf(&sb, "Value: $%s USDC\n", groupThousands(a.USDCSize, 2))
	fmt.Fprintf(&sb, "User: %s\n", a.DisplayUser())
	fmt.Fprintf(&sb, "Wallet: %s\n", model.ShortenWallet(wallet))
	fmt.Fprintf(&sb, "Time: %s %s\n", ts.Format(timeLayout), ts.Format("MST"))
	fmt.Fprintf(&sb, "Transaction: %s", tx)
	return sb.String()
}

// Summary renders a one line listing used by the history commands.
func (f *Formatter) Summary(a *model.Activity) string {
	ts := a.Time(f.Location)
	side := orDefault(string(a.Side), "-")
	return fmt.Sprintf("%s %s  %-10s %-4s  %s  %s",
		ts.Format(timeLayout), ts.Format("MST"), orDefault(string(a.Type), unknownText), side,
		orDefault(a.Title, "Unknown Market"), orDefault(a.TransactionHash, "N/A"))
}

// Report writes the human readable blocks followed by the machine readable document.
func (f *Formatter) Report(sink port.Sink, res *model.CheckResult) error {
	if !res.HasNewActivity() {
		if err := sink.WriteBlock(noActivity); err != nil {
			return err
		}
		return sink.WriteDocument(NewDocument(res))
	}

	if err := sink.WriteBlock(fmt.Sprintf("Found %d new activities:\n", len(res.Activities))); err != nil {
		return err
	}
	for i := range res.Activities {
		if err := sink.WriteBlock(f.Render(&res.Activities[i])); err != nil {
			return err
		}
		if err := sink.WriteBlock(separator); err != nil {
			return err
		}
	}
	return sink.WriteDocument(NewDocument(res))
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// groupThousands formats v with comma separated thousands and zero or two decimals.
func groupThousands(v float64, decimals int) string {
	if decimals > 0 {
		return humanize.FormatFloat("#,###.##", v)
	}
	return humanize.FormatFloat("#,###.", v)
}
