package department

import (
	"errors"
	"strings"

	departmenterrors "go-vacation/internal/department/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueCompanyName = "uq_department_company_name"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return departmenterrors.ErrDepartmentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == uniqueCompanyName {
			return departmenterrors.ErrDepartmentNameExists.WithErr(err)
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, uniqueCompanyName) {
		return departmenterrors.ErrDepartmentNameExists.WithErr(err)
	}

	return err
}
