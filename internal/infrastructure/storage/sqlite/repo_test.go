package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v7"

	"pmwatch/internal/domain/model"
)

const wallet = "0xdfe3fedc5c7679be42c3d393e99d4b55247b73c4"

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "data", "activity.db"))
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func activity(id string, ts int64) *model.Activity {
	raw := json.RawMessage(`{"transactionHash":"` + id + `","timestamp":1,"type":"TRADE","side":"BUY","title":"Will it rain?","size":10,"usdcSize":4.5,"pseudonym":"Quiet-Heron"}`)
	return &model.Activity{
		TransactionHash: id,
		Wallet:          wallet,
		Timestamp:       ts,
		Side:            model.SideBuy,
		Title:           "Will it rain?",
		Size:            10,
		USDCSize:        4.5,
		Type:            model.ActivityTrade,
		Raw:             raw,
	}
}

func TestSQLiteRepoInsertIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	inserted, err := repo.InsertActivity(ctx, activity("0xA", 100))
	if err != nil || !inserted {
		t.Fatalf("first insert: inserted=%v err=%v", inserted, err)
	}
	inserted, err = repo.InsertActivity(ctx, activity("0xA", 100))
	if err != nil {
		t.Fatalf("duplicate insert must not fail: %v", err)
	}
	if inserted {
		t.Errorf("duplicate insert reported a new row")
	}

	n, err := repo.CountActivities(ctx, wallet)
	if err != nil {
		t.Fatalf("CountActivities failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 row, got %d", n)
	}
}

func TestSQLiteRepoLatestByTimestamp(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	latest, err := repo.LatestActivity(ctx, wallet)
	if err != nil {
		t.Fatalf("LatestActivity on empty store failed: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected no watermark, got %s", latest.TransactionHash)
	}

	// inserted out of timestamp order on purpose
	for _, a := range []*model.Activity{activity("0xB", 110), activity("0xC", 120), activity("0xA", 100)} {
		if _, err := repo.InsertActivity(ctx, a); err != nil {
			t.Fatalf("insert %s failed: %v", a.TransactionHash, err)
		}
	}

	latest, err = repo.LatestActivity(ctx, wallet)
	if err != nil {
		t.Fatalf("LatestActivity failed: %v", err)
	}
	if latest.TransactionHash != "0xC" {
		t.Errorf("expected watermark 0xC, got %s", latest.TransactionHash)
	}
	if latest.Timestamp != 120 {
		t.Errorf("expected stored timestamp 120, got %d", latest.Timestamp)
	}
	if latest.DisplayUser() != "Quiet-Heron" {
		t.Errorf("expected payload fields restored, got user %q", latest.DisplayUser())
	}
}

func TestSQLiteRepoLatestTieBreaksOnLastStored(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	repo.InsertActivity(ctx, activity("0xOLDER", 100))
	repo.InsertActivity(ctx, activity("0xNEWER", 100))

	latest, err := repo.LatestActivity(ctx, wallet)
	if err != nil {
		t.Fatalf("LatestActivity failed: %v", err)
	}
	if latest.TransactionHash != "0xNEWER" {
		t.Errorf("expected 0xNEWER, got %s", latest.TransactionHash)
	}

	list, err := repo.ListActivities(ctx, wallet, 0)
	if err != nil {
		t.Fatalf("ListActivities failed: %v", err)
	}
	if len(list) != 2 || list[0].TransactionHash != "0xNEWER" {
		t.Errorf("expected 0xNEWER listed first, got %+v", list)
	}
}

func TestSQLiteRepoListAndDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	repo.InsertActivity(ctx, activity("0xA", 100))
	repo.InsertActivity(ctx, activity("0xB", 110))
	repo.InsertActivity(ctx, activity("0xC", 120))
	other := activity("0xOTHER", 130)
	other.Wallet = "0xsomeoneelse"
	repo.InsertActivity(ctx, other)

	list, err := repo.ListActivities(ctx, wallet, 2)
	if err != nil {
		t.Fatalf("ListActivities failed: %v", err)
	}
	if len(list) != 2 || list[0].TransactionHash != "0xC" || list[1].TransactionHash != "0xB" {
		t.Fatalf("unexpected list: %+v", list)
	}

	deleted, err := repo.DeleteActivity(ctx, "0xC")
	if err != nil || !deleted {
		t.Fatalf("DeleteActivity: deleted=%v err=%v", deleted, err)
	}
	deleted, _ = repo.DeleteActivity(ctx, "0xC")
	if deleted {
		t.Errorf("second delete should report nothing deleted")
	}

	latest, _ := repo.LatestActivity(ctx, wallet)
	if latest.TransactionHash != "0xB" {
		t.Errorf("expected watermark to move back to 0xB, got %s", latest.TransactionHash)
	}

	all, err := repo.ListActivities(ctx, wallet, 0)
	if err != nil {
		t.Fatalf("ListActivities without limit failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 remaining rows, got %d", len(all))
	}
}

func TestSQLiteRepoReopenKeepsState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.db")
	repo, err := New(path)
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	repo.InsertActivity(context.Background(), activity("0xA", 100))
	repo.Close()

	repo, err = New(path)
	if err != nil {
		t.Fatalf("failed to reopen repo: %v", err)
	}
	defer repo.Close()

	latest, err := repo.LatestActivity(context.Background(), wallet)
	if err != nil || latest == nil || latest.TransactionHash != "0xA" {
		t.Fatalf("expected 0xA after reopen, got %+v err=%v", latest, err)
	}
}

func TestSQLiteRepoRandomActivities(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var newest *model.Activity
	for i := 0; i < 50; i++ {
		var a model.Activity
		if err := gofakeit.Struct(&a); err != nil {
			t.Fatalf("gofakeit.Struct failed: %v", err)
		}
		a.TransactionHash = gofakeit.HexUint(256)
		a.Wallet = wallet
		a.Timestamp = int64(gofakeit.Number(1, 1_000_000))
		a.Raw = nil

		inserted, err := repo.InsertActivity(ctx, &a)
		if err != nil || !inserted {
			t.Fatalf("insert %d: inserted=%v err=%v", i, inserted, err)
		}
		if newest == nil || a.Timestamp > newest.Timestamp {
			cp := a
			newest = &cp
		}
	}

	latest, err := repo.LatestActivity(ctx, wallet)
	if err != nil {
		t.Fatalf("LatestActivity failed: %v", err)
	}
	if latest.TransactionHash != newest.TransactionHash {
		t.Errorf("expected watermark %s, got %s", newest.TransactionHash, latest.TransactionHash)
	}
	if latest.Title != newest.Title || latest.Price != newest.Price {
		t.Errorf("stored fields not restored: got %+v want %+v", latest, newest)
	}

	all, err := repo.ListActivities(ctx, wallet, 0)
	if err != nil {
		t.Fatalf("ListActivities failed: %v", err)
	}
	if len(all) != 50 {
		t.Fatalf("expected 50 rows, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Timestamp < all[i].Timestamp {
			t.Fatalf("list not newest first at %d", i)
		}
	}
}
