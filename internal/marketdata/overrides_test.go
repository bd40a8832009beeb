package marketdata

import (
	"path/filepath"
	"testing"

	"github.com/art-pro/valuation-backend/internal/models"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func overrideStoreForTest(t *testing.T) *OverrideStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "overrides-test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.FCFOverride{}); err != nil {
		t.Fatalf("migrate override failed: %v", err)
	}
	return NewOverrideStore(db, zerolog.Nop())
}

func TestOverrideStoreSetGetDelete(t *testing.T) {
	t.Parallel()

	store := overrideStoreForTest(t)

	if _, found, err := store.Get("AAPL"); err != nil || found {
		t.Fatalf("empty store Get: got (found=%v, err=%v) want (false, nil)", found, err)
	}

	created, err := store.Set("aapl", 5e9, "normalized fcf")
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if created.Symbol != "AAPL" {
		t.Fatalf("Symbol: got %q want %q", created.Symbol, "AAPL")
	}

	got, found, err := store.Get("AAPL")
	if err != nil || !found {
		t.Fatalf("Get after Set: got (found=%v, err=%v) want (true, nil)", found, err)
	}
	if got.FCF != 5e9 {
		t.Fatalf("FCF: got %.0f want %.0f", got.FCF, 5e9)
	}

	if err := store.Delete("AAPL"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found, _ := store.Get("AAPL"); found {
		t.Fatalf("expected override to be gone after Delete")
	}

	// Deleting again is a no-op, not an error.
	if err := store.Delete("AAPL"); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
}

func TestOverrideStoreSetUpserts(t *testing.T) {
	t.Parallel()

	store := overrideStoreForTest(t)

	if _, err := store.Set("MSFT", 1e9, "first"); err != nil {
		t.Fatalf("first Set failed: %v", err)
	}
	if _, err := store.Set("MSFT", 2e9, "second"); err != nil {
		t.Fatalf("second Set failed: %v", err)
	}

	all, err := store.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("override count: got %d want %d", len(all), 1)
	}
	if all[0].FCF != 2e9 {
		t.Fatalf("FCF after upsert: got %.0f want %.0f", all[0].FCF, 2e9)
	}
	if all[0].Note != "second" {
		t.Fatalf("Note after upsert: got %q want %q", all[0].Note, "second")
	}
}

func TestOverrideStoreAllOrdersBySymbol(t *testing.T) {
	t.Parallel()

	store := overrideStoreForTest(t)
	for _, symbol := range []string{"MSFT", "AAPL", "NVDA"} {
		if _, err := store.Set(symbol, 1e9, ""); err != nil {
			t.Fatalf("Set(%s) failed: %v", symbol, err)
		}
	}

	all, err := store.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	want := []string{"AAPL", "MSFT", "NVDA"}
	if len(all) != len(want) {
		t.Fatalf("override count: got %d want %d", len(all), len(want))
	}
	for i, symbol := range want {
		if all[i].Symbol != symbol {
			t.Fatalf("All[%d].Symbol: got %q want %q", i, all[i].Symbol, symbol)
		}
	}
}
