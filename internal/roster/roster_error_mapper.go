package roster

import (
	"errors"
	"strings"

	rostererrors "go-vacation/internal/roster/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	uniqueAssignment   = "uq_position_in_department"
	foreignKeyPosition = "fk_position_in_departments_position"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rostererrors.ErrAssignmentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			if pgErr.ConstraintName == uniqueAssignment {
				return rostererrors.ErrPositionAlreadyAssigned.WithErr(err)
			}
		case "23503":
			if pgErr.ConstraintName == foreignKeyPosition {
				return rostererrors.ErrPositionNotFound.WithErr(err)
			}
			return rostererrors.ErrDepartmentNotFound.WithErr(err)
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, uniqueAssignment) {
		return rostererrors.ErrPositionAlreadyAssigned.WithErr(err)
	}

	return err
}
