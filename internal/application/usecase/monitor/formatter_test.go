package monitor

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pmwatch/internal/domain/model"
)

type bufferSink struct {
	blocks []string
	docs   []any
}

func (s *bufferSink) WriteBlock(block string) error {
	s.blocks = append(s.blocks, block)
	return nil
}

func (s *bufferSink) WriteDocument(doc any) error {
	s.docs = append(s.docs, doc)
	return nil
}

func sampleActivity() model.Activity {
	return model.Activity{
		TransactionHash: "0xabc123",
		ProxyWallet:     "0xdfe3fedc5c7679be42c3d393e99d4b55247b73c4",
		Pseudonym:       "Quiet-Heron",
		Timestamp:       1735000000, // 2024-12-24 00:26:40 UTC
		Side:            model.SideBuy,
		Title:           "Will it rain?",
		Outcome:         "Yes",
		Size:            12345.4,
		Price:           0.49,
		USDCSize:        6049.246,
		Type:            model.ActivityTrade,
		Raw:             json.RawMessage(`{"transactionHash":"0xabc123","extra":1}`),
	}
}

func TestFormatterRender(t *testing.T) {
	a := sampleActivity()
	out := NewFormatter(time.UTC, false).Render(&a)

	want := strings.Join([]string{
		"🟢 BUY",
		"Market: Will it rain?",
		"Outcome: Yes",
		"Size: 12,345 shares @ $0.4900",
		"Value: $6,049.25 USDC",
		"User: Quiet-Heron",
		"Wallet: 0xdfe3...73c4",
		"Time: 2024-12-24 00:26:40 UTC",
		"Transaction: 0xabc123",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestFormatterRenderUsesConfiguredZone(t *testing.T) {
	a := sampleActivity()
	a.Side = model.SideSell
	out := NewFormatter(time.FixedZone("EST", -5*3600), true).Render(&a)

	assert.True(t, strings.HasPrefix(out, "[-] SELL"))
	assert.Contains(t, out, "Time: 2024-12-23 19:26:40 EST")
}

func TestFormatterRenderDefaults(t *testing.T) {
	out := NewFormatter(nil, true).Render(&model.Activity{})
	assert.Contains(t, out, "UNKNOWN")
	assert.Contains(t, out, "Market: Unknown Market")
	assert.Contains(t, out, "User: Anonymous")
	assert.Contains(t, out, "Transaction: N/A")
}

func TestFormatterSummary(t *testing.T) {
	a := sampleActivity()
	assert.Equal(t,
		"2024-12-24 00:26:40 UTC  TRADE      BUY   Will it rain?  0xabc123",
		NewFormatter(time.UTC, false).Summary(&a))

	reward := model.Activity{TransactionHash: "0xr", Timestamp: 1735000000, Type: model.ActivityReward}
	assert.Equal(t,
		"2024-12-24 00:26:40 UTC  REWARD     -     Unknown Market  0xr",
		NewFormatter(time.UTC, true).Summary(&reward))
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "0", groupThousands(0, 0))
	assert.Equal(t, "999.50", groupThousands(999.5, 2))
	assert.Equal(t, "1,000", groupThousands(1000, 0))
	assert.Equal(t, "1,234,567.89", groupThousands(1234567.891, 2))
	assert.Equal(t, "-12,000", groupThousands(-12000, 0))
	assert.Equal(t, "0.00", groupThousands(0, 2))
	assert.Equal(t, "12,346", groupThousands(12345.6, 0))
}

func TestReportWithActivity(t *testing.T) {
	sink := &bufferSink{}
	res := &model.CheckResult{Wallet: wallet, Activities: []model.Activity{sampleActivity()}, PossibleGap: true}

	require.NoError(t, NewFormatter(time.UTC, false).Report(sink, res))
	require.Len(t, sink.blocks, 3)
	assert.Equal(t, "Found 1 new activities:\n", sink.blocks[0])
	assert.Equal(t, separator, sink.blocks[2])

	require.Len(t, sink.docs, 1)
	raw, err := json.Marshal(sink.docs[0])
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"hasNewActivity":true,"count":1,"possibleGap":true,"activities":[{"transactionHash":"0xabc123","extra":1}]}`,
		string(raw))
}

func TestReportWithoutActivity(t *testing.T) {
	sink := &bufferSink{}
	require.NoError(t, NewFormatter(time.UTC, false).Report(sink, &model.CheckResult{Wallet: wallet}))

	assert.Equal(t, []string{noActivity}, sink.blocks)
	raw, err := json.Marshal(sink.docs[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"hasNewActivity":false,"count":0,"possibleGap":false,"activities":[]}`, string(raw))
}
