package app

import (
	"context"
	"testing"

	log "github.com/sirupsen/logrus"

	"github.com/mbarhoumi/agil-backoffice/internal/health"
)

func TestSeedDemoData(t *testing.T) {
	cfg := DefaultConfig()
	logger := log.WithField("component", "test")

	repos, store, err := openStorage(context.Background(), cfg, logger, health.NewHandler("test"))
	if err != nil {
		t.Fatalf("openStorage: %v", err)
	}
	if store != nil {
		t.Fatal("memory driver must not open a postgres store")
	}

	if err := seedDemoData(context.Background(), repos); err != nil {
		t.Fatalf("seedDemoData: %v", err)
	}

	users, err := repos.users.List(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 4 {
		t.Errorf("expected 4 demo users, got %d", len(users))
	}

	// Seeding twice must fail on the unique email, not silently duplicate.
	if err := seedDemoData(context.Background(), repos); err == nil {
		t.Error("expected duplicate seed to fail")
	}

	products, err := repos.products.List(context.Background())
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) != 2 {
		t.Errorf("expected 2 demo products, got %d", len(products))
	}

	// The demo gerant manages the demo station.
	stations, err := repos.stations.List(context.Background())
	if err != nil {
		t.Fatalf("list stations: %v", err)
	}
	if len(stations) != 1 || stations[0].ManagerID == "" {
		t.Errorf("unexpected stations: %+v", stations)
	}
}
