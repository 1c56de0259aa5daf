package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/team-randomiser/internal/config"
	"github.com/riskibarqy/team-randomiser/internal/platform/logging"
)

func testConfig() config.Config {
	return config.Config{
		AppEnv:               config.EnvDev,
		ServiceName:          "team-randomiser-api",
		HTTPAddr:             ":0",
		ReadTimeout:          time.Second,
		WriteTimeout:         time.Second,
		SessionTTL:           time.Hour,
		SessionSweepInterval: time.Minute,
		TeamCountMin:         2,
		TeamCountMax:         6,
		RosterMaxPlayers:     50,
		RandomSeed:           7,
		ImportMaxBytes:       1 << 20,
		ExportCacheTTL:       time.Minute,
		ExportWorkers:        2,
		ExportTitle:          "Test Teams",
		ExportFilePrefix:     "Test",
	}
}

func TestNew_RequiresAddr(t *testing.T) {
	cfg := testConfig()
	cfg.HTTPAddr = ""

	if _, err := New(cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

func TestNew_ServesHealthAndSessions(t *testing.T) {
	a, err := New(testConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	rec := httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/sessions", strings.NewReader("{}")))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session status: %d body=%s", rec.Code, rec.Body.String())
	}

	removed, err := a.Sessions.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 0 {
		t.Fatalf("fresh session should survive sweep, removed=%d", removed)
	}
}

func TestNewExportService_RegistersFormats(t *testing.T) {
	svc := NewExportService(testConfig(), nil, logging.NewNop())

	got := strings.Join(svc.Formats(), ",")
	if got != "pdf,xlsx" {
		t.Fatalf("unexpected formats: %s", got)
	}
}
