package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rollmark/attendance-api/internal/models"
	"github.com/rollmark/attendance-api/pkg/jobs"
)

type auditRepository interface {
	Insert(ctx context.Context, log *models.AuditLog) error
	Recent(ctx context.Context, limit int) ([]models.AuditLog, error)
}

// AuditService records admin actions asynchronously so the control surface
// never blocks on the trail database. A nil *AuditService is a no-op.
type AuditService struct {
	repo   auditRepository
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewAuditService builds the service and its single-writer queue.
func NewAuditService(repo auditRepository, workers int, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AuditService{repo: repo, logger: logger}
	s.queue = jobs.NewQueue("audit", s.persist, jobs.QueueConfig{
		Workers: workers,
		Logger:  logger,
	})
	return s
}

// Start begins queue consumption.
func (s *AuditService) Start(ctx context.Context) {
	if s == nil {
		return
	}
	s.queue.Start(ctx)
}

// Stop drains the queue workers.
func (s *AuditService) Stop() {
	if s == nil {
		return
	}
	s.queue.Stop()
}

// Record enqueues an audit entry. Failures are logged, never surfaced.
func (s *AuditService) Record(ctx context.Context, log models.AuditLog) {
	if s == nil {
		return
	}
	if err := s.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: log.Action, Payload: log}); err != nil {
		s.logger.Warn("failed to enqueue audit record", zap.String("action", log.Action), zap.Error(err))
	}
}

// Recent lists the newest audit entries.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if s == nil {
		return []models.AuditLog{}, nil
	}
	return s.repo.Recent(ctx, limit)
}

func (s *AuditService) persist(ctx context.Context, job jobs.Job) error {
	log, ok := job.Payload.(models.AuditLog)
	if !ok {
		s.logger.Warn("dropping audit job with unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.repo.Insert(ctx, &log)
}
