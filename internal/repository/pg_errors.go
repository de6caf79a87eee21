package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ConstraintKind is the closed set of constraint failures surfaced to
// callers. Classification is keyed strictly by SQLSTATE plus the exact
// constraint name reported by the server, never by parsing error text.
type ConstraintKind int

const (
	KindStore ConstraintKind = iota
	KindUsernameExists
	KindEmailExists
	KindMissingRequiredField
	KindInvalidPhoneFormat
	KindInvalidEmailFormat
	KindDateOutOfRange
	KindUserNotFound
	KindCVNotFound
)

func (k ConstraintKind) String() string {
	switch k {
	case KindUsernameExists:
		return "username already exists"
	case KindEmailExists:
		return "email already exists"
	case KindMissingRequiredField:
		return "required field is missing"
	case KindInvalidPhoneFormat:
		return "phone must start with + and contain 1-15 digits"
	case KindInvalidEmailFormat:
		return "invalid email format"
	case KindDateOutOfRange:
		return "dates must be between 1900-01-01 and today"
	case KindUserNotFound:
		return "user does not exist"
	case KindCVNotFound:
		return "cv does not exist"
	}
	return "store error"
}

// SQLSTATE classes for integrity constraint violations.
const (
	codeUniqueViolation     = "23505"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
	codeForeignKeyViolation = "23503"
)

// Classify maps a SQLSTATE and constraint name to a ConstraintKind. Unlisted
// pairs classify as KindStore.
func Classify(sqlState, constraint string) ConstraintKind {
	switch sqlState {
	case codeUniqueViolation:
		switch constraint {
		case "users_username_key":
			return KindUsernameExists
		case "users_email_key":
			return KindEmailExists
		}
	case codeNotNullViolation:
		return KindMissingRequiredField
	case codeCheckViolation:
		switch constraint {
		case "valid_phone":
			return KindInvalidPhoneFormat
		case "valid_email":
			return KindInvalidEmailFormat
		case "education_valid_dates", "experience_valid_dates":
			return KindDateOutOfRange
		}
	case codeForeignKeyViolation:
		switch constraint {
		case "cvs_user_id_fkey":
			return KindUserNotFound
		case "education_cv_id_fkey", "experience_cv_id_fkey", "skills_cv_id_fkey", "languages_cv_id_fkey":
			return KindCVNotFound
		}
	}
	return KindStore
}

// ConstraintError is a low-level store failure classified into a domain
// kind. Field carries the offending column for missing-required-field.
type ConstraintError struct {
	Kind       ConstraintKind
	Field      string
	Constraint string
	cause      error
}

func (e *ConstraintError) Error() string {
	if e == nil {
		return ""
	}
	if e.Kind == KindMissingRequiredField && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Field)
	}
	return e.Kind.String()
}

func (e *ConstraintError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// StoreError is an untranslated low-level failure.
type StoreError struct {
	cause error
}

func (e *StoreError) Error() string {
	if e == nil || e.cause == nil {
		return "store error"
	}
	return "store error: " + e.cause.Error()
}

func (e *StoreError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// translateError wraps a raw pgx error into a ConstraintError or StoreError.
// Nil passes through.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		kind := Classify(pgErr.Code, pgErr.ConstraintName)
		if kind != KindStore {
			return &ConstraintError{
				Kind:       kind,
				Field:      pgErr.ColumnName,
				Constraint: pgErr.ConstraintName,
				cause:      err,
			}
		}
	}
	return &StoreError{cause: err}
}
