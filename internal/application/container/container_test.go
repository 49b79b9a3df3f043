package container

import (
	"context"
	"path/filepath"
	"testing"

	"pmwatch/internal/domain/model"
	"pmwatch/internal/infrastructure/config"
	infracontainer "pmwatch/internal/infrastructure/container"
)

type staticSource struct {
	page []model.Activity
}

func (s *staticSource) Name() string { return "static" }

func (s *staticSource) Fetch(ctx context.Context, wallet string, limit int) ([]model.Activity, error) {
	return s.page, nil
}

func TestContainerWithSQLite(t *testing.T) {
	cfg := config.Defaults()
	cfg.Storage.SQLite.Path = filepath.Join(t.TempDir(), "test_container.db")

	infra, err := infracontainer.New(cfg, "run-1")
	if err != nil {
		t.Fatalf("failed to create container: %v", err)
	}
	defer infra.Close()

	c := New(infra.Repository(), infra.Source(), infra.Publisher(), cfg.App.Limit)
	if c.Repository() == nil {
		t.Errorf("expected repository, got nil")
	}
	if c.MonitorService() != c.MonitorService() {
		t.Errorf("expected monitor service to be built once")
	}
	if c.HistoryService() != c.HistoryService() {
		t.Errorf("expected history service to be built once")
	}
}

func TestContainerServiceWorkflow(t *testing.T) {
	cfg := config.Defaults()
	cfg.Storage.SQLite.Path = filepath.Join(t.TempDir(), "test_workflow.db")

	infra, err := infracontainer.New(cfg, "run-2")
	if err != nil {
		t.Fatalf("failed to create container: %v", err)
	}
	defer infra.Close()

	ctx := context.Background()
	const wallet = "0xwallet"
	src := &staticSource{page: []model.Activity{
		{TransactionHash: "0x2", Timestamp: 200, Type: model.ActivityTrade},
		{TransactionHash: "0x1", Timestamp: 100, Type: model.ActivityTrade},
	}}
	c := New(infra.Repository(), src, nil, 0)

	res, err := c.MonitorService().DetectNew(ctx, wallet)
	if err != nil {
		t.Fatalf("DetectNew failed: %v", err)
	}
	if !res.Bootstrapped || len(res.Activities) != 0 {
		t.Fatalf("expected silent bootstrap, got %+v", res)
	}

	removed, err := c.HistoryService().Forget(ctx, wallet, 1)
	if err != nil {
		t.Fatalf("Forget failed: %v", err)
	}
	if len(removed) != 1 || removed[0].TransactionHash != "0x2" {
		t.Fatalf("expected 0x2 removed, got %+v", removed)
	}

	res, err = c.MonitorService().DetectNew(ctx, wallet)
	if err != nil {
		t.Fatalf("DetectNew failed: %v", err)
	}
	if len(res.Activities) != 1 || res.Activities[0].TransactionHash != "0x2" {
		t.Errorf("expected 0x2 reported again, got %+v", res.Activities)
	}
}
