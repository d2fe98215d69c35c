package history

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGStorageGetMissingKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := &PGStorage{DB: db}
	mock.ExpectQuery("SELECT value FROM kv_entries").
		WithArgs("ocrHistory/client-1").
		WillReturnError(sql.ErrNoRows)

	_, ok, err := store.Get(context.Background(), "ocrHistory/client-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatalf("expected missing key")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStorageGetReturnsValue(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := &PGStorage{DB: db}
	mock.ExpectQuery("SELECT value FROM kv_entries").
		WithArgs("k").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`[]`))

	val, ok, err := store.Get(context.Background(), "k")
	if err != nil || !ok || val != "[]" {
		t.Fatalf("unexpected result: %q %v %v", val, ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStorageSetUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := &PGStorage{DB: db}
	mock.ExpectExec("INSERT INTO kv_entries .* ON CONFLICT \\(key\\) DO UPDATE").
		WithArgs("k", "v").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Set(context.Background(), "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStorageDeleteAndClear(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := &PGStorage{DB: db}
	mock.ExpectExec("DELETE FROM kv_entries WHERE key").
		WithArgs("k").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM kv_entries").
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := store.Delete(context.Background(), "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Clear(context.Background()); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
