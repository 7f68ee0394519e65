package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestTxFromContext_Nil(t *testing.T) {
	if tx := TxFromContext(context.Background()); tx != nil {
		t.Error("expected nil tx from empty context")
	}
}

func TestTxFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), txKey{}, "not-a-tx")
	if tx := TxFromContext(ctx); tx != nil {
		t.Error("expected nil tx for wrong type in context")
	}
}

func TestConstraintViolations(t *testing.T) {
	fk := fmt.Errorf("insert doctor: %w", &pgconn.PgError{Code: "23503"})
	if !IsForeignKeyViolation(fk) {
		t.Error("expected 23503 to be a foreign key violation")
	}
	if IsUniqueViolation(fk) {
		t.Error("expected 23503 not to be a unique violation")
	}
	if !IsUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("expected 23505 to be a unique violation")
	}
	if IsForeignKeyViolation(errors.New("boom")) {
		t.Error("expected plain errors not to match")
	}
}

func TestIsSerializationFailure(t *testing.T) {
	serial := &pgconn.PgError{Code: "40001", Message: "could not serialize access"}
	if !IsSerializationFailure(serial) {
		t.Error("expected 40001 to be a serialization failure")
	}
	if !IsSerializationFailure(fmt.Errorf("commit: %w", serial)) {
		t.Error("expected wrapped 40001 to be a serialization failure")
	}
	if IsSerializationFailure(&pgconn.PgError{Code: "23505"}) {
		t.Error("unique violation is not a serialization failure")
	}
	if IsSerializationFailure(errors.New("boom")) {
		t.Error("plain error is not a serialization failure")
	}
}

func TestTranslate(t *testing.T) {
	err := translate(&pgconn.PgError{Code: "40001"})
	if !errors.Is(err, ErrSerialization) {
		t.Errorf("expected ErrSerialization, got %v", err)
	}

	plain := errors.New("boom")
	if translate(plain) != plain {
		t.Error("expected non-serialization errors to pass through unchanged")
	}
}
