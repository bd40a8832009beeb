package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/art-pro/valuation-backend/internal/marketdata"
	"github.com/art-pro/valuation-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOverrideHandlerTest(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	dbPath := filepath.Join(t.TempDir(), "override-test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.FCFOverride{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	store := marketdata.NewOverrideStore(db, zerolog.Nop())
	h := NewOverrideHandler(store, zerolog.Nop())

	r := gin.New()
	r.GET("/overrides", h.List)
	r.GET("/overrides/:symbol", h.Get)
	r.PUT("/overrides/:symbol", h.Set)
	r.DELETE("/overrides/:symbol", h.Delete)
	return r
}

func jsonBody(body string) *bytes.Reader {
	return bytes.NewReader([]byte(body))
}

func TestOverrideLifecycle(t *testing.T) {
	t.Parallel()

	r := setupOverrideHandlerTest(t)

	// Set.
	req := httptest.NewRequest(http.MethodPut, "/overrides/aapl",
		jsonBody(`{"fcf": 95e9, "note": "normalized for one-off litigation"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("set status: got %d want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}

	var override models.FCFOverride
	if err := json.Unmarshal(w.Body.Bytes(), &override); err != nil {
		t.Fatalf("decode override failed: %v", err)
	}
	if override.Symbol != "AAPL" || override.FCF != 95e9 {
		t.Fatalf("override: got %+v", override)
	}

	// Get.
	req = httptest.NewRequest(http.MethodGet, "/overrides/AAPL", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get status: got %d want %d", w.Code, http.StatusOK)
	}

	// List.
	req = httptest.NewRequest(http.MethodGet, "/overrides", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list status: got %d want %d", w.Code, http.StatusOK)
	}
	var listResp struct {
		Overrides []models.FCFOverride `json:"overrides"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode list failed: %v", err)
	}
	if len(listResp.Overrides) != 1 {
		t.Fatalf("overrides length: got %d want 1", len(listResp.Overrides))
	}

	// Delete, then Get misses.
	req = httptest.NewRequest(http.MethodDelete, "/overrides/AAPL", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status: got %d want %d", w.Code, http.StatusOK)
	}

	req = httptest.NewRequest(http.MethodGet, "/overrides/AAPL", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: got %d want %d", w.Code, http.StatusNotFound)
	}
}

func TestOverrideSetRequiresFCF(t *testing.T) {
	t.Parallel()

	r := setupOverrideHandlerTest(t)
	req := httptest.NewRequest(http.MethodPut, "/overrides/AAPL", jsonBody(`{"note": "no figure"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want %d", w.Code, http.StatusBadRequest)
	}
}
