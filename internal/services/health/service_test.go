package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStatus(t *testing.T) {
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := NewService(nil, "1.2.3")
	svc.Now = func() time.Time { return fixed }

	got := svc.Status()
	if got.Status != "healthy" || got.Version != "1.2.3" || !got.Timestamp.Equal(fixed) {
		t.Fatalf("unexpected status %+v", got)
	}
}

func TestDatabaseWithoutConnection(t *testing.T) {
	svc := NewService(nil, "test")
	got, err := svc.Database(context.Background())
	if err == nil {
		t.Fatalf("expected error without database")
	}
	if got.Database != "disconnected" {
		t.Fatalf("unexpected status %+v", got)
	}
}

func TestDatabasePing(t *testing.T) {
	database, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	svc := NewService(database, "test")
	if got, err := svc.Database(context.Background()); err != nil || got.Database != "connected" {
		t.Fatalf("expected connected, got %+v %v", got, err)
	}
	if got, err := svc.Database(context.Background()); err == nil || got.Database != "disconnected" {
		t.Fatalf("expected disconnected, got %+v %v", got, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
