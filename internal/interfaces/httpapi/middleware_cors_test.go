package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const frontendOrigin = "https://randomiser.ediblefc.example"

func crossOrigin(t *testing.T, h http.Handler, method, path, origin, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Origin", origin)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCORS_ConfiguredOriginCreatesSession(t *testing.T) {
	h := newTestRouterWithOrigins(t, 1<<20, []string{" ", frontendOrigin})

	rec := crossOrigin(t, h, http.MethodPost, "/v1/sessions", frontendOrigin, "")

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != frontendOrigin {
		t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
	}
	if got := rec.Header().Get("Vary"); got != "Origin" {
		t.Fatalf("unexpected Vary: %q", got)
	}
}

func TestCORS_PreflightForTeamExportSkipsHandlers(t *testing.T) {
	h := newTestRouterWithOrigins(t, 1<<20, []string{frontendOrigin})

	// the session does not exist; a preflight must not reach the handler
	rec := crossOrigin(t, h, http.MethodOptions, "/v1/sessions/missing/teams/export/pdf", frontendOrigin, "")

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "DELETE") {
		t.Fatalf("unexpected Access-Control-Allow-Methods: %q", got)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty preflight body, got %q", rec.Body.String())
	}
}

func TestCORS_ExportExposesContentDisposition(t *testing.T) {
	h := newTestRouterWithOrigins(t, 1<<20, []string{"*"})
	sessionID := createSession(t, h)
	base := "/v1/sessions/" + sessionID

	for _, p := range []string{`{"name":"Ana","position":"GK"}`, `{"name":"Ben","position":"ST"}`} {
		if rec := doJSON(t, h, http.MethodPost, base+"/players", p); rec.Code != http.StatusCreated {
			t.Fatalf("add player: %d %s", rec.Code, rec.Body.String())
		}
	}
	if rec := doJSON(t, h, http.MethodPost, base+"/teams", `{"team_count":2}`); rec.Code != http.StatusOK {
		t.Fatalf("generate teams: %d %s", rec.Code, rec.Body.String())
	}

	rec := crossOrigin(t, h, http.MethodGet, base+"/teams/export/xlsx", frontendOrigin, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
	}
	if got := rec.Header().Get("Access-Control-Expose-Headers"); got != "Content-Disposition" {
		t.Fatalf("unexpected Access-Control-Expose-Headers: %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "_Teams.xlsx") {
		t.Fatalf("unexpected Content-Disposition: %q", got)
	}
}

func TestCORS_UnconfiguredOriginGetsNoGrant(t *testing.T) {
	h := newTestRouterWithOrigins(t, 1<<20, []string{frontendOrigin})

	rec := crossOrigin(t, h, http.MethodGet, "/v1/options", "https://elsewhere.example", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected empty Access-Control-Allow-Origin, got %q", got)
	}
}
