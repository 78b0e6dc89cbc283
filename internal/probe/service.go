package probe

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/samvad-hq/samvad-comment-probe/internal/domain"
	"github.com/samvad-hq/samvad-comment-probe/internal/logger"
	"github.com/samvad-hq/samvad-comment-probe/pkg/publishers"
)

// Service issues operations and routes their exchanges to the archive and publishers.
type Service struct {
	api       API
	publisher EventPublisher
	archive   Archiver
	source    string
	log       logger.Logger
}

// NewService wires a probe service. publisher and archive may be nil.
func NewService(api API, publisher EventPublisher, archive Archiver, source string, log logger.Logger) *Service {
	return &Service{
		api:       api,
		publisher: publisher,
		archive:   archive,
		source:    source,
		log:       logger.Ensure(log),
	}
}

// Run starts every operation at once and waits for all of them. Operations do not
// wait on or cancel each other; their errors are joined. Completion order is unspecified.
func (s *Service) Run(ctx context.Context, ops ...Operation) error {
	if s == nil || s.api == nil {
		return fmt.Errorf("probe service is not initialized")
	}
	if len(ops) == 0 {
		return fmt.Errorf("no operations to run")
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	var g errgroup.Group
	for _, op := range ops {
		g.Go(func() error {
			if err := s.runOperation(ctx, op); err != nil {
				s.log.ErrorObj("operation failed", "operation_error", map[string]any{
					"operation": op.Name(),
					"error":     err.Error(),
				})
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

func (s *Service) runOperation(ctx context.Context, op Operation) error {
	ex, err := op.Execute(ctx, s.api)
	if err != nil {
		// Exchanges that reached the server are still recorded.
		if ex.StatusCode != 0 {
			_ = s.record(ctx, ex)
		}
		return fmt.Errorf("%s: %w", op.Name(), err)
	}

	if err := s.record(ctx, ex); err != nil {
		return fmt.Errorf("%s: %w", op.Name(), err)
	}

	s.log.DebugObj("operation completed", "operation_result", map[string]any{
		"operation":   op.Name(),
		"exchange_id": ex.ID,
		"status_code": ex.StatusCode,
		"elapsed_ms":  ex.Elapsed.Milliseconds(),
	})
	return nil
}

// record archives and publishes ex. Archive failures are logged and do not block publishing.
func (s *Service) record(ctx context.Context, ex domain.Exchange) error {
	if s.archive != nil {
		if err := s.archive.Put(ex); err != nil {
			s.log.WarnObj("archive exchange failed", "archive_error", map[string]any{
				"exchange_id": ex.ID,
				"error":       err.Error(),
			})
		}
	}

	if s.publisher == nil {
		return nil
	}
	delivered, err := s.publisher.Publish(ctx, publishers.NewEvent(s.source, ex))
	if err != nil {
		return fmt.Errorf("publish exchange %s (delivered to %d): %w", ex.ID, delivered, err)
	}
	return nil
}
