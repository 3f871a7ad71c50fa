package positionerrors

import (
	"net/http"

	"go-vacation/internal/shared/apperror"
)

var (
	ErrPositionNotFound = apperror.New(
		apperror.CodeNotFound,
		"position not found",
		http.StatusNotFound,
	)
	ErrPositionNameExists = apperror.New(
		apperror.CodeConflict,
		"position with the same name already exists",
		http.StatusConflict,
	)
	ErrPositionInUse = apperror.New(
		apperror.CodeConflict,
		"position is still assigned to a department",
		http.StatusConflict,
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
