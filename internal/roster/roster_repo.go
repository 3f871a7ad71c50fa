package roster

import (
	"context"
	"database/sql"

	"go-vacation/internal/tenant"

	"gorm.io/gorm"
)

const rowColumns = "pid.id, pid.department_id, d.name AS department_name, pid.position_id, p.name AS position_name, pid.headcount"

//go:generate mockgen -source=roster_repo.go -destination=mock/roster_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	DepartmentExists(ctx context.Context, companyID string, deptID int64) (bool, error)
	PositionExists(ctx context.Context, companyID string, posID int64) (bool, error)
	Create(ctx context.Context, a *Assignment) error
	FindOne(ctx context.Context, companyID string, deptID, posID int64) (*Assignment, error)
	Update(ctx context.Context, a *Assignment) error
	Delete(ctx context.Context, companyID string, deptID, posID int64) error
	ListByDepartment(ctx context.Context, companyID string, deptID int64) ([]AssignmentRow, error)
	ListByCompany(ctx context.Context, companyID string) ([]AssignmentRow, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) DepartmentExists(ctx context.Context, companyID string, deptID int64) (bool, error) {
	return r.exists(ctx, "departments", companyID, deptID)
}

func (r *repository) PositionExists(ctx context.Context, companyID string, posID int64) (bool, error) {
	return r.exists(ctx, "positions", companyID, posID)
}

func (r *repository) exists(ctx context.Context, table, companyID string, id int64) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table(table).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Create(ctx context.Context, a *Assignment) error {
	return r.conn(ctx).Create(a).Error
}

func (r *repository) FindOne(ctx context.Context, companyID string, deptID, posID int64) (*Assignment, error) {
	var a Assignment
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("department_id = ?", deptID).
		Where("position_id = ?", posID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) Update(ctx context.Context, a *Assignment) error {
	return r.conn(ctx).Save(a).Error
}

func (r *repository) Delete(ctx context.Context, companyID string, deptID, posID int64) error {
	res := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("department_id = ?", deptID).
		Where("position_id = ?", posID).
		Delete(&Assignment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListByDepartment(ctx context.Context, companyID string, deptID int64) ([]AssignmentRow, error) {
	var rows []AssignmentRow
	err := r.joined(ctx, companyID).
		Where("pid.department_id = ?", deptID).
		Order("p.name ASC").
		Order("pid.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) ListByCompany(ctx context.Context, companyID string) ([]AssignmentRow, error) {
	var rows []AssignmentRow
	err := r.joined(ctx, companyID).
		Order("d.name ASC").
		Order("p.name ASC").
		Order("pid.id ASC").
		Scan(&rows).Error
	return rows, err
}

// joined skips assignments whose department or position was soft deleted.
func (r *repository) joined(ctx context.Context, companyID string) *gorm.DB {
	return r.conn(ctx).
		Table("position_in_departments AS pid").
		Select(rowColumns).
		Joins("JOIN departments d ON d.id = pid.department_id AND d.deleted_at IS NULL").
		Joins("JOIN positions p ON p.id = pid.position_id AND p.deleted_at IS NULL").
		Scopes(tenant.TableScope("pid", companyID))
}
