package repository

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"neuraslide/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestAppendUpdatesConversationInOneTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepository(db, zap.NewNop())

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO messages")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), now))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE conversations SET")).
		WithArgs("hello", now, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	msg := &models.Message{
		ConversationID: 5,
		SenderType:     models.SenderUser,
		Text:           "hello",
		Type:           "text",
		Status:         models.MessageSent,
	}
	if err := repo.Append(msg); err != nil {
		t.Fatal(err)
	}
	if msg.ID != 42 {
		t.Fatalf("expected inserted id scanned back, got %d", msg.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestAppendRollsBackWhenCacheUpdateFails(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepository(db, zap.NewNop())

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO messages")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), now))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE conversations SET")).
		WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	msg := &models.Message{ConversationID: 5, SenderType: models.SenderUser, Text: "hello", Type: "text", Status: models.MessageSent}
	if err := repo.Append(msg); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
