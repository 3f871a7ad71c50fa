package position

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Position struct {
	ID          int64          `gorm:"primaryKey;autoIncrement"`
	CompanyID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uq_position_company_name"`
	Name        string         `gorm:"size:255;not null;uniqueIndex:uq_position_company_name"`
	Description string         `gorm:"type:text"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}
