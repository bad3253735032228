package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/rollmark/attendance-api/internal/dto"
	"github.com/rollmark/attendance-api/internal/ledger"
	"github.com/rollmark/attendance-api/internal/models"
	"github.com/rollmark/attendance-api/internal/notify"
	"github.com/rollmark/attendance-api/internal/settings"
	appErrors "github.com/rollmark/attendance-api/pkg/errors"
	"github.com/rollmark/attendance-api/pkg/export"
)

// Classroom names double as storage keys, so they are restricted to
// filesystem-safe characters.
var classroomNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ExportFormat selects the download rendering.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportPDF  ExportFormat = "pdf"
	ExportXLSX ExportFormat = "xlsx"
)

// ExportFile is a rendered ledger download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ClassroomService is the admin control surface over classroom lifecycle and
// ledger inspection.
type ClassroomService struct {
	ledger   *ledger.Store
	settings *settings.Store
	notifier *notify.Notifier
	logger   *zap.Logger
	audit    *AuditService
	metrics  *MetricsService

	csv  *export.CSVExporter
	pdf  *export.PDFExporter
	xlsx *export.XLSXExporter
}

// NewClassroomService constructs a ClassroomService.
func NewClassroomService(ledgerStore *ledger.Store, settingsStore *settings.Store, notifier *notify.Notifier, logger *zap.Logger, audit *AuditService, metrics *MetricsService) *ClassroomService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassroomService{
		ledger:   ledgerStore,
		settings: settingsStore,
		notifier: notifier,
		logger:   logger,
		audit:    audit,
		metrics:  metrics,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		xlsx:     export.NewXLSXExporter(),
	}
}

// Create allocates an empty ledger for a new classroom.
func (s *ClassroomService) Create(ctx context.Context, req dto.CreateClassroomRequest, actor *models.JWTClaims, ip string) error {
	name := req.Name
	if !classroomNamePattern.MatchString(name) {
		return appErrors.Clone(appErrors.ErrValidation, "classroom name must be 1-64 characters of letters, digits, '_' or '-'")
	}
	if s.ledger.Exists(name) {
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("classroom %q already exists", name))
	}

	lock := s.ledger.Locker(name)
	lock.Lock()
	defer lock.Unlock()

	if err := s.ledger.Create(name); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create classroom ledger")
	}

	s.refreshClassroomGauge()
	s.audit.Record(ctx, models.AuditLog{
		Username:  actorName(actor),
		Action:    models.AuditActionClassroomCreate,
		Classroom: name,
		IPAddress: ip,
	})
	s.logger.Info("classroom created", zap.String("classroom", name))
	return nil
}

// Delete removes the ledger, then purges settings entries and signals the
// change. Cleanup after the ledger removal is best-effort: a settings entry
// that outlives its ledger only re-applies defaults.
func (s *ClassroomService) Delete(ctx context.Context, name string, actor *models.JWTClaims, ip string) error {
	if !s.ledger.Exists(name) {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("classroom %q does not exist", name))
	}

	lock := s.ledger.Locker(name)
	lock.Lock()
	defer lock.Unlock()

	if err := s.ledger.Delete(name); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete classroom ledger")
	}
	if err := s.settings.Purge(name); err != nil {
		s.logger.Warn("failed to purge classroom settings", zap.String("classroom", name), zap.Error(err))
	}
	if _, err := s.notifier.Publish(ctx, name); err != nil {
		s.logger.Warn("failed to publish change signal", zap.String("classroom", name), zap.Error(err))
	}

	s.refreshClassroomGauge()
	s.audit.Record(ctx, models.AuditLog{
		Username:  actorName(actor),
		Action:    models.AuditActionClassroomDelete,
		Classroom: name,
		IPAddress: ip,
	})
	s.logger.Info("classroom deleted", zap.String("classroom", name))
	return nil
}

// List enumerates classrooms with existing ledgers.
func (s *ClassroomService) List(ctx context.Context) ([]string, error) {
	names, err := s.ledger.List()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classrooms")
	}
	s.metrics.SetClassroomCount(len(names))
	return names, nil
}

// Ledger returns the full table for admin inspection. An existing but empty
// ledger renders as the default two-column table.
func (s *ClassroomService) Ledger(ctx context.Context, name string) (*dto.LedgerView, error) {
	table, err := s.readTable(name)
	if err != nil {
		return nil, err
	}
	rows := table.Rows
	if rows == nil {
		rows = []map[string]string{}
	}
	return &dto.LedgerView{Classroom: name, Columns: table.Columns, Rows: rows}, nil
}

// Export renders the ledger for download in the requested format.
func (s *ClassroomService) Export(ctx context.Context, name string, format ExportFormat) (*ExportFile, error) {
	table, err := s.readTable(name)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{Headers: table.Columns, Rows: table.Rows}
	stamp := time.Now().UTC().Format("20060102")

	switch format {
	case ExportCSV, "":
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("attendance_%s_%s.csv", name, stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case ExportPDF:
		data, err := s.pdf.Render(dataset, fmt.Sprintf("Attendance %s", name))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("attendance_%s_%s.pdf", name, stamp),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	case ExportXLSX:
		data, err := s.xlsx.Render(dataset, name)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render xlsx")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("attendance_%s_%s.xlsx", name, stamp),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func (s *ClassroomService) readTable(name string) (*ledger.Table, error) {
	table, err := s.ledger.Read(name)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrEmpty):
			return ledger.NewTable(), nil
		case errors.Is(err, ledger.ErrMissing):
			return nil, appErrors.Clone(appErrors.ErrStorageMissing, "")
		case errors.Is(err, ledger.ErrFormat):
			return nil, appErrors.Clone(appErrors.ErrLedgerFormat, "")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read ledger")
		}
	}
	return table, nil
}

func (s *ClassroomService) refreshClassroomGauge() {
	if names, err := s.ledger.List(); err == nil {
		s.metrics.SetClassroomCount(len(names))
	}
}

func actorName(actor *models.JWTClaims) string {
	if actor == nil {
		return ""
	}
	return actor.Username
}
