package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rollmark/attendance-api/internal/models"
)

func newMockRepo(t *testing.T) (*AuditRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAuditRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestInsertFillsIDAndTimestamp(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	log := &models.AuditLog{
		Username:  "admin",
		Action:    models.AuditActionGateOpen,
		Classroom: "10A",
		IPAddress: "127.0.0.1",
	}
	require.NoError(t, repo.Insert(context.Background(), log))
	assert.NotEmpty(t, log.ID)
	assert.False(t, log.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertPreservesExplicitFields(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	log := &models.AuditLog{
		ID:        "fixed-id",
		Username:  "admin",
		Action:    models.AuditActionLogin,
		CreatedAt: created,
	}
	require.NoError(t, repo.Insert(context.Background(), log))
	assert.Equal(t, "fixed-id", log.ID)
	assert.Equal(t, created, log.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentAppliesDefaultLimit(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "username", "action", "classroom", "detail", "ip_address", "created_at"}).
		AddRow("a", "admin", models.AuditActionTokenUpdate, "10A", "", "127.0.0.1", time.Now()).
		AddRow("b", "admin", models.AuditActionGateOpen, "10A", "", "127.0.0.1", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, action, classroom, detail, ip_address, created_at FROM audit_logs")).
		WithArgs(50).
		WillReturnRows(rows)

	logs, err := repo.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
	assert.Equal(t, "a", logs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentHonorsLimit(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM audit_logs")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "action", "classroom", "detail", "ip_address", "created_at"}))

	logs, err := repo.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, logs)
	assert.NoError(t, mock.ExpectationsWereMet())
}
