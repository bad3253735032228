package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rollmark/attendance-api/internal/dto"
	"github.com/rollmark/attendance-api/internal/ledger"
	"github.com/rollmark/attendance-api/internal/models"
	"github.com/rollmark/attendance-api/internal/settings"
	appErrors "github.com/rollmark/attendance-api/pkg/errors"
)

const dateLayout = "2006-01-02"

// AttendanceService implements the submission state machine. Checks run in
// strict order and short-circuit on the first failure so a rejected attempt
// never mutates the ledger.
type AttendanceService struct {
	ledger   *ledger.Store
	settings *settings.Store
	logger   *zap.Logger
	metrics  *MetricsService
	now      func() time.Time
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(ledgerStore *ledger.Store, settingsStore *settings.Store, logger *zap.Logger, metrics *MetricsService) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		ledger:   ledgerStore,
		settings: settingsStore,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Submit records a presence mark for today. The per-classroom lock covers
// the whole read-modify-write cycle, so within this process two racing
// submissions cannot both pass the idempotency and capacity checks against
// a stale snapshot.
func (s *AttendanceService) Submit(ctx context.Context, req dto.SubmitAttendanceRequest) (*models.MarkResult, error) {
	result, err := s.submit(ctx, req)
	if err != nil {
		s.metrics.RecordSubmission(appErrors.FromError(err).Code)
		return nil, err
	}
	s.metrics.RecordSubmission("accepted")
	return result, nil
}

func (s *AttendanceService) submit(ctx context.Context, req dto.SubmitAttendanceRequest) (*models.MarkResult, error) {
	classroom := strings.TrimSpace(req.Classroom)
	name := strings.TrimSpace(req.Name)
	roll := strings.TrimSpace(req.Roll)
	token := req.Token

	if classroom == "" || name == "" || roll == "" || strings.TrimSpace(token) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name, roll and token are required")
	}
	if !allDigits(roll) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "roll number must be numeric")
	}

	// Reload settings from disk on every attempt: the decision must use the
	// latest admin state even when the change signal was missed.
	snap, err := s.settings.Load()
	if err != nil {
		s.logger.Warn("settings unreadable, applying defaults", zap.Error(err))
	}
	entry := snap.Get(classroom)

	if !entry.Open {
		return nil, appErrors.Clone(appErrors.ErrPortalClosed, "")
	}
	if token != entry.Token {
		return nil, appErrors.Clone(appErrors.ErrInvalidToken, "")
	}

	lock := s.ledger.Locker(classroom)
	lock.Lock()
	defer lock.Unlock()

	if !s.ledger.Exists(classroom) {
		return nil, appErrors.Clone(appErrors.ErrStorageMissing, "")
	}

	table, err := s.ledger.Read(classroom)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrEmpty):
			table = ledger.NewTable()
		case errors.Is(err, ledger.ErrMissing):
			return nil, appErrors.Clone(appErrors.ErrStorageMissing, "")
		case errors.Is(err, ledger.ErrFormat):
			return nil, appErrors.Clone(appErrors.ErrLedgerFormat, "")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read ledger")
		}
	}

	today := s.now().Format(dateLayout)
	table.EnsureColumn(today)

	// Idempotency strictly precedes capacity: a student re-submitting must
	// hear "already marked", and their own mark never counts against the
	// remaining capacity of others.
	idx := table.FindRow(roll)
	if idx >= 0 && table.Rows[idx][today] == "P" {
		return nil, appErrors.Clone(appErrors.ErrAlreadyMarked, "")
	}
	if table.PresentCount(today) >= entry.Limit {
		return nil, appErrors.Clone(appErrors.ErrCapacityReached, "")
	}

	newRow := idx < 0
	if newRow {
		row := table.AppendRow(roll, name)
		row[today] = "P"
	} else {
		table.Rows[idx][today] = "P"
	}

	if err := s.ledger.Write(classroom, table); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write ledger")
	}

	s.logger.Info("attendance marked",
		zap.String("classroom", classroom),
		zap.String("roll", roll),
		zap.String("date", today),
		zap.Bool("new_row", newRow),
	)

	return &models.MarkResult{
		Classroom: classroom,
		Roll:      roll,
		Name:      name,
		Date:      today,
		NewRow:    newRow,
	}, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
