package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/rollmark/attendance-api/internal/ledger"
	"github.com/rollmark/attendance-api/internal/models"
	"github.com/rollmark/attendance-api/internal/notify"
	"github.com/rollmark/attendance-api/internal/settings"
	appErrors "github.com/rollmark/attendance-api/pkg/errors"
)

// PortalService is the admin surface over attendance gating: the open flag,
// the token and the daily capacity limit. Every mutation saves the full
// settings snapshot and then rotates the change signal.
type PortalService struct {
	ledger   *ledger.Store
	settings *settings.Store
	notifier *notify.Notifier
	logger   *zap.Logger
	audit    *AuditService
}

// NewPortalService constructs a PortalService.
func NewPortalService(ledgerStore *ledger.Store, settingsStore *settings.Store, notifier *notify.Notifier, logger *zap.Logger, audit *AuditService) *PortalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PortalService{
		ledger:   ledgerStore,
		settings: settingsStore,
		notifier: notifier,
		logger:   logger,
		audit:    audit,
	}
}

// Settings resolves the current gating tuple for a classroom. An unreadable
// blob degrades to defaults rather than blocking the admin view.
func (s *PortalService) Settings(ctx context.Context, classroom string) (*models.ClassroomSettings, error) {
	if err := s.requireClassroom(classroom); err != nil {
		return nil, err
	}
	snap, err := s.settings.Load()
	if err != nil {
		s.logger.Warn("settings unreadable, applying defaults", zap.Error(err))
	}
	entry := snap.Get(classroom)
	return &entry, nil
}

// SetOpen opens or closes the attendance portal for a classroom.
func (s *PortalService) SetOpen(ctx context.Context, classroom string, open bool, actor *models.JWTClaims, ip string) error {
	if err := s.requireClassroom(classroom); err != nil {
		return err
	}
	if err := s.settings.SetOpen(classroom, open); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save portal settings")
	}
	s.publish(ctx, classroom)

	action := models.AuditActionGateClose
	if open {
		action = models.AuditActionGateOpen
	}
	s.audit.Record(ctx, models.AuditLog{
		Username:  actorName(actor),
		Action:    action,
		Classroom: classroom,
		IPAddress: ip,
	})
	s.logger.Info("portal gate updated", zap.String("classroom", classroom), zap.Bool("open", open))
	return nil
}

// SetToken replaces the attendance token for a classroom.
func (s *PortalService) SetToken(ctx context.Context, classroom, token string, actor *models.JWTClaims, ip string) error {
	if err := s.requireClassroom(classroom); err != nil {
		return err
	}
	if err := s.settings.SetToken(classroom, token); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save portal settings")
	}
	s.publish(ctx, classroom)

	s.audit.Record(ctx, models.AuditLog{
		Username:  actorName(actor),
		Action:    models.AuditActionTokenUpdate,
		Classroom: classroom,
		IPAddress: ip,
	})
	s.logger.Info("attendance token updated", zap.String("classroom", classroom))
	return nil
}

// SetLimit replaces the daily capacity limit for a classroom.
func (s *PortalService) SetLimit(ctx context.Context, classroom string, limit int, actor *models.JWTClaims, ip string) error {
	if err := s.requireClassroom(classroom); err != nil {
		return err
	}
	if err := s.settings.SetLimit(classroom, limit); err != nil {
		if errors.Is(err, settings.ErrInvalidLimit) {
			return appErrors.Clone(appErrors.ErrValidation, "limit must be at least 1")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save portal settings")
	}
	s.publish(ctx, classroom)

	s.audit.Record(ctx, models.AuditLog{
		Username:  actorName(actor),
		Action:    models.AuditActionLimitUpdate,
		Classroom: classroom,
		Detail:    strconv.Itoa(limit),
		IPAddress: ip,
	})
	s.logger.Info("attendance limit updated", zap.String("classroom", classroom), zap.Int("limit", limit))
	return nil
}

func (s *PortalService) requireClassroom(classroom string) error {
	if !s.ledger.Exists(classroom) {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("classroom %q does not exist", classroom))
	}
	return nil
}

func (s *PortalService) publish(ctx context.Context, classroom string) {
	if _, err := s.notifier.Publish(ctx, classroom); err != nil {
		s.logger.Warn("failed to publish change signal", zap.String("classroom", classroom), zap.Error(err))
	}
}
