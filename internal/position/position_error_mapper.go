package position

import (
	"errors"
	"strings"

	positionerrors "go-vacation/internal/position/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueCompanyName = "uq_position_company_name"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return positionerrors.ErrPositionNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505" && pgErr.ConstraintName == uniqueCompanyName:
			return positionerrors.ErrPositionNameExists.WithErr(err)
		case pgErr.Code == "23503":
			// fk from position_in_departments
			return positionerrors.ErrPositionInUse.WithErr(err)
		}
	}

	if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") &&
		strings.Contains(err.Error(), uniqueCompanyName) {
		return positionerrors.ErrPositionNameExists.WithErr(err)
	}

	return err
}
