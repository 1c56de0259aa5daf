package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/team-randomiser/internal/domain/allocation"
	"github.com/riskibarqy/team-randomiser/internal/domain/session"
	"github.com/riskibarqy/team-randomiser/internal/platform/cache"
	"github.com/riskibarqy/team-randomiser/internal/platform/logging"
)

// Renderer turns an assignment into a downloadable document.
type Renderer interface {
	Format() string
	ContentType() string
	Render(ctx context.Context, assignment allocation.Assignment) ([]byte, error)
}

type ExportFile struct {
	Format      string
	FileName    string
	ContentType string
	Content     []byte
}

type ExportService struct {
	repo       session.Repository
	renderers  map[string]Renderer
	cache      *cache.Store
	workers    int
	filePrefix string
	logger     *logging.Logger
}

func NewExportService(
	repo session.Repository,
	store *cache.Store,
	workers int,
	filePrefix string,
	logger *logging.Logger,
	renderers ...Renderer,
) *ExportService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = 1
	}

	byFormat := make(map[string]Renderer, len(renderers))
	for _, r := range renderers {
		byFormat[strings.ToLower(r.Format())] = r
	}

	return &ExportService{
		repo:       repo,
		renderers:  byFormat,
		cache:      store,
		workers:    workers,
		filePrefix: filePrefix,
		logger:     logger,
	}
}

// Formats lists the registered export formats in sorted order.
func (s *ExportService) Formats() []string {
	out := make([]string, 0, len(s.renderers))
	for format := range s.renderers {
		out = append(out, format)
	}
	sort.Strings(out)
	return out
}

// Export renders the current teams of a session. Results are cached per
// session revision, so any roster or team change yields a fresh document.
func (s *ExportService) Export(ctx context.Context, sessionID, format string) (ExportFile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExportService.Export", sessionAttr(sessionID))
	defer span.End()

	renderer, err := s.renderer(format)
	if err != nil {
		return ExportFile{}, err
	}
	item, err := s.assignedSession(ctx, sessionID)
	if err != nil {
		return ExportFile{}, err
	}

	return s.exportCached(ctx, item, renderer)
}

// ExportAll renders every registered format for a session concurrently.
func (s *ExportService) ExportAll(ctx context.Context, sessionID string) ([]ExportFile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExportService.ExportAll", sessionAttr(sessionID))
	defer span.End()

	item, err := s.assignedSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return s.renderMany(ctx, s.Formats(), func(ctx context.Context, r Renderer) (ExportFile, error) {
		return s.exportCached(ctx, item, r)
	})
}

// RenderAssignment renders an assignment that is not bound to a session,
// bypassing the cache.
func (s *ExportService) RenderAssignment(
	ctx context.Context,
	assignment allocation.Assignment,
	formats []string,
) ([]ExportFile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExportService.RenderAssignment")
	defer span.End()

	if len(formats) == 0 {
		formats = s.Formats()
	}
	return s.renderMany(ctx, formats, func(ctx context.Context, r Renderer) (ExportFile, error) {
		return s.render(ctx, assignment, r)
	})
}

// PruneExpired drops cached exports older than the cache TTL.
func (s *ExportService) PruneExpired(ctx context.Context) int {
	if s.cache == nil {
		return 0
	}
	removed := s.cache.Prune(ctx)
	if removed > 0 {
		s.logger.DebugContext(ctx, "expired exports pruned", "entries", removed, "remaining", s.cache.Len())
	}
	return removed
}

// EvictSession drops every cached export of a session.
func (s *ExportService) EvictSession(ctx context.Context, sessionID string) {
	if s.cache == nil {
		return
	}
	removed := s.cache.DeletePrefix(ctx, exportCachePrefix(sessionID))
	if removed > 0 {
		s.logger.DebugContext(ctx, "export cache evicted", "session_id", sessionID, "entries", removed)
	}
}

func (s *ExportService) renderMany(
	ctx context.Context,
	formats []string,
	run func(context.Context, Renderer) (ExportFile, error),
) ([]ExportFile, error) {
	type result struct {
		index int
		file  ExportFile
		err   error
	}

	workerCount := s.workers
	if workerCount > len(formats) {
		workerCount = len(formats)
	}
	if workerCount == 0 {
		return []ExportFile{}, nil
	}

	renderers := make([]Renderer, 0, len(formats))
	for _, format := range formats {
		renderer, err := s.renderer(format)
		if err != nil {
			return nil, err
		}
		renderers = append(renderers, renderer)
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan result, len(renderers))
	var workers sync.WaitGroup
	for i, renderer := range renderers {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			file, err := run(ctx, renderer)
			results <- result{index: i, file: file, err: err}
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	files := make([]ExportFile, len(formats))
	for row := range results {
		if row.err != nil {
			return nil, row.err
		}
		files[row.index] = row.file
	}

	return files, nil
}

func (s *ExportService) exportCached(ctx context.Context, item session.Session, renderer Renderer) (ExportFile, error) {
	if s.cache == nil {
		return s.render(ctx, item.Assignment, renderer)
	}

	key := exportCacheKey(item.ID, item.Revision, renderer.Format())
	value, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		// older revisions of this session can no longer be requested
		s.cache.DeletePrefixExcept(ctx, exportCachePrefix(item.ID), exportRevisionPrefix(item.ID, item.Revision))
		return s.render(ctx, item.Assignment, renderer)
	})
	if err != nil {
		return ExportFile{}, err
	}

	file, ok := value.(ExportFile)
	if !ok {
		return ExportFile{}, fmt.Errorf("unexpected cached export type %T", value)
	}
	return file, nil
}

func (s *ExportService) render(ctx context.Context, assignment allocation.Assignment, renderer Renderer) (ExportFile, error) {
	content, err := renderer.Render(ctx, assignment)
	if err != nil {
		s.logger.WarnContext(ctx, "render export failed", "format", renderer.Format(), "error", err)
		return ExportFile{}, fmt.Errorf("%w: render %s: %v", ErrDependencyUnavailable, renderer.Format(), err)
	}

	format := strings.ToLower(renderer.Format())
	return ExportFile{
		Format:      format,
		FileName:    s.fileName(format),
		ContentType: renderer.ContentType(),
		Content:     content,
	}, nil
}

func (s *ExportService) assignedSession(ctx context.Context, sessionID string) (session.Session, error) {
	item, err := loadSession(ctx, s.repo, sessionID)
	if err != nil {
		return session.Session{}, err
	}
	if !item.HasAssignment {
		return session.Session{}, fmt.Errorf("%w: no teams generated for session=%s", ErrNotFound, item.ID)
	}

	return item, nil
}

func (s *ExportService) renderer(format string) (Renderer, error) {
	key := strings.ToLower(strings.TrimSpace(format))
	r, ok := s.renderers[key]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported export format %q", ErrInvalidInput, format)
	}
	return r, nil
}

func (s *ExportService) fileName(format string) string {
	prefix := strings.TrimSpace(s.filePrefix)
	if prefix == "" {
		return "Teams." + format
	}
	return prefix + "_Teams." + format
}

func exportCachePrefix(sessionID string) string {
	return "export:" + sessionID + ":"
}

func exportRevisionPrefix(sessionID string, revision int64) string {
	return fmt.Sprintf("%s%d:", exportCachePrefix(sessionID), revision)
}

func exportCacheKey(sessionID string, revision int64, format string) string {
	return exportRevisionPrefix(sessionID, revision) + strings.ToLower(format)
}
