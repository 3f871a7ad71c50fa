package roster

import (
	"time"

	"github.com/google/uuid"
)

// Assignment attaches a catalog position to a department.
type Assignment struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_position_in_department"`
	DepartmentID int64     `gorm:"not null;uniqueIndex:uq_position_in_department"`
	PositionID   int64     `gorm:"not null;uniqueIndex:uq_position_in_department;index"`
	Headcount    int       `gorm:"not null;default:1"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Assignment) TableName() string {
	return "position_in_departments"
}

// AssignmentRow is an assignment joined with its department and position names.
type AssignmentRow struct {
	ID             int64
	DepartmentID   int64
	DepartmentName string
	PositionID     int64
	PositionName   string
	Headcount      int
}
