package rostererrors

import (
	"net/http"

	"go-vacation/internal/shared/apperror"
)

var (
	ErrDepartmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"department not found",
		http.StatusNotFound,
	)
	ErrPositionNotFound = apperror.New(
		apperror.CodeNotFound,
		"position not found",
		http.StatusNotFound,
	)
	ErrAssignmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"position is not assigned to this department",
		http.StatusNotFound,
	)
	ErrPositionAlreadyAssigned = apperror.New(
		apperror.CodeConflict,
		"position is already assigned to this department",
		http.StatusConflict,
	)
	ErrHeadcountRequired = apperror.New(
		apperror.CodeValidationError,
		"headcount is required",
		http.StatusBadRequest,
	)
	ErrInvalidHeadcount = apperror.New(
		apperror.CodeValidationError,
		"headcount must be at least 1",
		http.StatusBadRequest,
	)
	ErrInvalidDepartmentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid department id",
		http.StatusBadRequest,
	)
	ErrInvalidPositionID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid position id",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
)
