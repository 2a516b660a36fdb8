package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestNeedsLiteralRetry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "bind mismatch text", err: fakeErr(`pq: bind message supplies 2 parameters, but prepared statement "" requires 1`), want: true},
		{name: "statement missing text", err: fakeErr("pq: unnamed prepared statement does not exist"), want: true},
		{name: "statement code in text", err: fakeErr("pq: prepared statement missing (26000)"), want: true},
		{name: "protocol violation code", err: fmt.Errorf("get match: %w", &pq.Error{Code: "08P01"}), want: true},
		{name: "invalid statement code", err: &pq.Error{Code: "26000"}, want: true},
		{name: "unrelated pq error", err: &pq.Error{Code: "42P01", Message: "relation batting_slots does not exist"}, want: false},
		{name: "unrelated text", err: fakeErr("pq: relation batting_slots does not exist"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tc := range tests {
		if got := needsLiteralRetry(tc.err); got != tc.want {
			t.Fatalf("%s: got=%v want=%v", tc.name, got, tc.want)
		}
	}
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get match: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
	if isNotFound(fakeErr("boom")) {
		t.Fatalf("expected unrelated error to be found")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert assignment: %w", &pq.Error{Code: "23505"})
	if !isUniqueViolation(err) {
		t.Fatalf("expected unique violation")
	}
	if isUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Fatalf("foreign key violation must not be reported as unique violation")
	}
}

func TestSlotKeyLiteral(t *testing.T) {
	if got := slotKeyLiteral(2, 7); got != "2:7" {
		t.Fatalf("unexpected slot key literal got=%s want=2:7", got)
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
