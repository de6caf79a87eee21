package handler

import (
	"errors"

	"cv-forge/internal/delivery/http/middleware"
	"cv-forge/internal/domain/validation"
	"cv-forge/internal/pkg/response"
	"cv-forge/internal/repository"
	"cv-forge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// mapDomainError turns validation, constraint, and usecase errors into
// client-facing statuses. Anything unrecognized stays a 500.
func mapDomainError(err error) error {
	if err == nil {
		return nil
	}

	var vErr *validation.Error
	if errors.As(err, &vErr) {
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, vErr.Error(), map[string]string{"field": vErr.Field}, err)
	}

	var cErr *repository.ConstraintError
	if errors.As(err, &cErr) {
		return middleware.NewAppError(statusForConstraint(cErr.Kind), cErr.Error(), nil, err)
	}

	switch {
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "CV not found", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid username or password", nil, err)
	}

	return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
}

func statusForConstraint(kind repository.ConstraintKind) int {
	switch kind {
	case repository.KindUsernameExists, repository.KindEmailExists:
		return fiber.StatusConflict
	case repository.KindMissingRequiredField, repository.KindInvalidPhoneFormat, repository.KindInvalidEmailFormat, repository.KindDateOutOfRange:
		return fiber.StatusBadRequest
	case repository.KindUserNotFound, repository.KindCVNotFound:
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}
