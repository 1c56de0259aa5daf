package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/team-randomiser/internal/domain/allocation"
	"github.com/riskibarqy/team-randomiser/internal/domain/player"
	"github.com/riskibarqy/team-randomiser/internal/platform/logging"
	"github.com/riskibarqy/team-randomiser/internal/usecase"
)

type Handler struct {
	sessionService    *usecase.SessionService
	rosterService     *usecase.RosterService
	allocationService *usecase.AllocationService
	exportService     *usecase.ExportService
	importMaxBytes    int64
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	sessionService *usecase.SessionService,
	rosterService *usecase.RosterService,
	allocationService *usecase.AllocationService,
	exportService *usecase.ExportService,
	importMaxBytes int64,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if importMaxBytes <= 0 {
		importMaxBytes = defaultImportMaxBytes
	}

	return &Handler{
		sessionService:    sessionService,
		rosterService:     rosterService,
		allocationService: allocationService,
		exportService:     exportService,
		importMaxBytes:    importMaxBytes,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// Options describes the choices a client may offer when building a roster
// and generating teams.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Options")
	defer span.End()

	positions := make([]string, 0, len(player.Positions))
	for _, pos := range player.Positions {
		positions = append(positions, string(pos))
	}
	bounds := h.allocationService.Bounds()

	writeSuccess(ctx, w, http.StatusOK, optionsDTO{
		Positions:       positions,
		Strategies:      []string{string(allocation.StrategyBalanced), string(allocation.StrategyPositional)},
		DefaultStrategy: string(allocation.StrategyBalanced),
		TeamCountMin:    bounds.Min,
		TeamCountMax:    bounds.Max,
		ExportFormats:   h.exportService.Formats(),
	})
}
