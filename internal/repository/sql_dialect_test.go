package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestBuildLikeConditionByDialect(t *testing.T) {
	condition, argCount := buildLikeConditionByDialect("sqlite", []string{"order_code", " ", "customer_name"})
	if argCount != 2 {
		t.Fatalf("arg count want 2 got %d", argCount)
	}
	if condition != "(order_code LIKE ? OR customer_name LIKE ?)" {
		t.Fatalf("unexpected sqlite condition: %s", condition)
	}

	condition, _ = buildLikeConditionByDialect("postgres", []string{"order_code"})
	if condition != "(order_code ILIKE ?)" {
		t.Fatalf("unexpected postgres condition: %s", condition)
	}

	if condition, argCount := buildLikeConditionByDialect("sqlite", nil); condition != "" || argCount != 0 {
		t.Fatalf("empty columns should produce empty condition, got %q %d", condition, argCount)
	}
}

func TestDBDialectNameDefaultsToSQLite(t *testing.T) {
	if got := dbDialectName(nil); got != "sqlite" {
		t.Fatalf("nil db should default to sqlite, got %s", got)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%test%", 3)
	if len(args) != 3 {
		t.Fatalf("args len want 3 got %d", len(args))
	}
	for idx, arg := range args {
		if arg != "%test%" {
			t.Fatalf("args[%d] want %%test%% got %v", idx, arg)
		}
	}
}

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "gorm duplicated", err: fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), want: true},
		{name: "postgres unique", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation}, want: true},
		{name: "postgres other", err: &pgconn.PgError{Code: pgerrcode.NotNullViolation}, want: false},
		{name: "sqlite unique", err: errors.New("UNIQUE constraint failed: orders.order_code"), want: true},
		{name: "other", err: errors.New("disk full"), want: false},
	}
	for _, tc := range cases {
		if got := IsUniqueViolation(tc.err); got != tc.want {
			t.Fatalf("%s: want %v got %v", tc.name, tc.want, got)
		}
	}
}

func TestIsSerializationFailure(t *testing.T) {
	if !IsSerializationFailure(&pgconn.PgError{Code: pgerrcode.SerializationFailure}) {
		t.Fatalf("serialization failure should be retryable")
	}
	if !IsSerializationFailure(fmt.Errorf("tx: %w", &pgconn.PgError{Code: pgerrcode.DeadlockDetected})) {
		t.Fatalf("wrapped deadlock should be retryable")
	}
	if IsSerializationFailure(errors.New("UNIQUE constraint failed")) {
		t.Fatalf("sqlite unique error is not a serialization failure")
	}
}
