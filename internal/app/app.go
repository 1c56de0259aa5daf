package app

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/team-randomiser/internal/config"
	"github.com/riskibarqy/team-randomiser/internal/domain/session"
	"github.com/riskibarqy/team-randomiser/internal/infrastructure/document"
	"github.com/riskibarqy/team-randomiser/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/team-randomiser/internal/infrastructure/spreadsheet"
	"github.com/riskibarqy/team-randomiser/internal/interfaces/httpapi"
	"github.com/riskibarqy/team-randomiser/internal/platform/cache"
	idgen "github.com/riskibarqy/team-randomiser/internal/platform/id"
	"github.com/riskibarqy/team-randomiser/internal/platform/logging"
	"github.com/riskibarqy/team-randomiser/internal/platform/random"
	"github.com/riskibarqy/team-randomiser/internal/usecase"
)

// App holds the HTTP server plus the services that run outside the request path.
type App struct {
	Server   *http.Server
	Sessions *usecase.SessionService
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	sessionRepo := memory.NewSessionRepository()
	source := random.FromSeed(cfg.RandomSeed)
	if cfg.RandomSeed != 0 {
		logger.Warn("random seed configured, team draws are reproducible", "seed", cfg.RandomSeed)
	}

	exportSvc := NewExportService(cfg, sessionRepo, logger)
	sessionSvc := usecase.NewSessionService(
		sessionRepo,
		idgen.NewRandomGenerator(),
		cfg.SessionTTL,
		logger,
		exportSvc,
	)
	rosterSvc := usecase.NewRosterService(
		sessionRepo,
		spreadsheet.NewImporter(),
		source,
		cfg.RosterMaxPlayers,
		logger,
	)
	allocationSvc := usecase.NewAllocationService(
		sessionRepo,
		source,
		usecase.TeamCountBounds{Min: cfg.TeamCountMin, Max: cfg.TeamCountMax},
		logger,
	)

	handler := httpapi.NewHandler(sessionSvc, rosterSvc, allocationSvc, exportSvc, cfg.ImportMaxBytes, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.ImportMaxBytes)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{Server: server, Sessions: sessionSvc}, nil
}

// NewExportService registers the spreadsheet and document renderers.
func NewExportService(cfg config.Config, repo session.Repository, logger *logging.Logger) *usecase.ExportService {
	return usecase.NewExportService(
		repo,
		cache.NewStore(cfg.ExportCacheTTL),
		cfg.ExportWorkers,
		cfg.ExportFilePrefix,
		logger,
		spreadsheet.NewExporter(),
		document.NewExporter(cfg.ExportTitle),
	)
}
