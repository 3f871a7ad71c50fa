package position

import (
	"context"
	"database/sql"

	"go-vacation/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=position_repo.go -destination=mock/position_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, pos *Position) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Position, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id int64) (*Position, error)
	Update(ctx context.Context, pos *Position) error
	Delete(ctx context.Context, companyID string, id int64) error
	CountAssignments(ctx context.Context, companyID string, id int64) (int64, error)
	FindDepartmentIDs(ctx context.Context, companyID string, id int64) ([]int64, error)
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

func (r *repository) Create(ctx context.Context, pos *Position) error {
	return r.conn(ctx).Create(pos).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Position, error) {
	var positions []Position
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("name ASC").
		Order("id ASC").
		Find(&positions).Error
	return positions, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id int64) (*Position, error) {
	var pos Position
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&pos, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &pos, nil
}

func (r *repository) Update(ctx context.Context, pos *Position) error {
	return r.conn(ctx).Save(pos).Error
}

func (r *repository) Delete(ctx context.Context, companyID string, id int64) error {
	res := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Position{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CountAssignments(ctx context.Context, companyID string, id int64) (int64, error) {
	var count int64
	err := r.conn(ctx).
		Table("position_in_departments").
		Where("company_id = ?", companyID).
		Where("position_id = ?", id).
		Count(&count).Error
	return count, err
}

// FindDepartmentIDs lists the departments the position is assigned to.
func (r *repository) FindDepartmentIDs(ctx context.Context, companyID string, id int64) ([]int64, error) {
	var ids []int64
	err := r.conn(ctx).
		Table("position_in_departments").
		Where("company_id = ?", companyID).
		Where("position_id = ?", id).
		Order("department_id ASC").
		Pluck("department_id", &ids).Error
	return ids, err
}
