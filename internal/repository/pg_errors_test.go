package repository

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassify_Table(t *testing.T) {
	cases := []struct {
		code       string
		constraint string
		want       ConstraintKind
	}{
		{"23505", "users_username_key", KindUsernameExists},
		{"23505", "users_email_key", KindEmailExists},
		{"23502", "", KindMissingRequiredField},
		{"23502", "anything", KindMissingRequiredField},
		{"23514", "valid_phone", KindInvalidPhoneFormat},
		{"23514", "valid_email", KindInvalidEmailFormat},
		{"23514", "education_valid_dates", KindDateOutOfRange},
		{"23514", "experience_valid_dates", KindDateOutOfRange},
		{"23503", "cvs_user_id_fkey", KindUserNotFound},
		{"23503", "education_cv_id_fkey", KindCVNotFound},
		{"23503", "experience_cv_id_fkey", KindCVNotFound},
		{"23503", "skills_cv_id_fkey", KindCVNotFound},
		{"23503", "languages_cv_id_fkey", KindCVNotFound},
	}

	for _, tc := range cases {
		if got := Classify(tc.code, tc.constraint); got != tc.want {
			t.Errorf("Classify(%q, %q) = %v, want %v", tc.code, tc.constraint, got, tc.want)
		}
	}
}

func TestClassify_UnlistedPairsAreStoreErrors(t *testing.T) {
	cases := []struct {
		code       string
		constraint string
	}{
		{"23505", "cvs_pkey"},
		{"23514", "skills_valid_level"},
		{"23503", "something_else_fkey"},
		{"42P01", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := Classify(tc.code, tc.constraint); got != KindStore {
			t.Errorf("Classify(%q, %q) = %v, want KindStore", tc.code, tc.constraint, got)
		}
	}
}

func TestTranslateError_ConstraintName(t *testing.T) {
	raw := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}

	err := translateError(raw)

	var cErr *ConstraintError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected *ConstraintError, got %T (%v)", err, err)
	}
	if cErr.Kind != KindEmailExists {
		t.Fatalf("expected KindEmailExists, got %v", cErr.Kind)
	}
	if !errors.Is(err, raw) {
		t.Fatalf("expected wrapped cause to survive errors.Is")
	}
}

func TestTranslateError_NotNullCarriesColumn(t *testing.T) {
	raw := &pgconn.PgError{Code: "23502", ColumnName: "title"}

	err := translateError(raw)

	var cErr *ConstraintError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected *ConstraintError, got %T", err)
	}
	if cErr.Kind != KindMissingRequiredField {
		t.Fatalf("expected KindMissingRequiredField, got %v", cErr.Kind)
	}
	if cErr.Field != "title" {
		t.Fatalf("expected field title, got %q", cErr.Field)
	}
}

func TestTranslateError_UnknownBecomesStoreError(t *testing.T) {
	raw := errors.New("connection refused")

	err := translateError(raw)

	var sErr *StoreError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected *StoreError, got %T", err)
	}
	if !errors.Is(err, raw) {
		t.Fatalf("expected wrapped cause to survive errors.Is")
	}
}

func TestTranslateError_NilPassesThrough(t *testing.T) {
	if err := translateError(nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
