package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"
)

func automationRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "name", "trigger", "response", "use_ai", "priority",
		"tags", "active", "total_triggers", "success_count", "created_at", "updated_at",
	})
}

func TestToggleFlipsAndReturnsRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAutomationRepository(db, zap.NewNop())

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE automations SET active = NOT active")).
		WithArgs(int64(1), int64(7)).
		WillReturnRows(automationRows().
			AddRow(int64(1), int64(7), "Greeting", "hello", "Hi there!", false, 0,
				"{}", false, int64(3), int64(2), now, now))

	a, err := repo.Toggle(1, 7)
	if err != nil {
		t.Fatal(err)
	}
	if a == nil || a.Active {
		t.Fatalf("expected the flipped row back, got %+v", a)
	}
}

func TestToggleScopedToOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAutomationRepository(db, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE automations SET active = NOT active")).
		WithArgs(int64(1), int64(8)).
		WillReturnRows(automationRows())

	a, err := repo.Toggle(1, 8)
	if err != nil {
		t.Fatal(err)
	}
	if a != nil {
		t.Fatalf("another user's toggle must hit no rows, got %+v", a)
	}
}

func TestIncrementCounters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAutomationRepository(db, zap.NewNop())

	mock.ExpectExec(regexp.QuoteMeta("total_triggers = total_triggers + 1")).
		WithArgs(true, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.IncrementCounters(1, true); err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
