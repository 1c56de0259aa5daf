package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /v1/options", handler.Options)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerSessionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/sessions", handler.CreateSession)
	mux.HandleFunc("GET /v1/sessions/{sessionID}", handler.GetSession)
	mux.HandleFunc("DELETE /v1/sessions/{sessionID}", handler.DeleteSession)
	mux.HandleFunc("POST /v1/sessions/{sessionID}/reset", handler.ResetSession)
}

func registerRosterRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/sessions/{sessionID}/players", handler.ListPlayers)
	mux.HandleFunc("POST /v1/sessions/{sessionID}/players", handler.AddPlayer)
	mux.HandleFunc("PUT /v1/sessions/{sessionID}/players/{index}", handler.UpdatePlayer)
	mux.HandleFunc("DELETE /v1/sessions/{sessionID}/players/{index}", handler.RemovePlayer)
	mux.HandleFunc("POST /v1/sessions/{sessionID}/players/shuffle", handler.ShufflePlayers)
	// Multipart upload: "file" holds the workbook, repeated "name" fields select players.
	mux.HandleFunc("POST /v1/sessions/{sessionID}/players/import", handler.ImportPlayers)
	mux.HandleFunc("POST /v1/player-database/preview", handler.PreviewPlayerDatabase)
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/sessions/{sessionID}/teams", handler.GenerateTeams)
	mux.HandleFunc("GET /v1/sessions/{sessionID}/teams", handler.GetTeams)
	mux.HandleFunc("GET /v1/sessions/{sessionID}/teams/export/{format}", handler.ExportTeams)
	mux.HandleFunc("GET /v1/sessions/{sessionID}/teams/exports", handler.ExportAllTeams)
}
