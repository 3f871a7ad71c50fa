package position

import "github.com/aarondl/null/v8"

type CreatePositionRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

// UpdatePositionRequest is a partial update: absent or null fields keep
// their current value.
type UpdatePositionRequest struct {
	Name        *string     `json:"name" binding:"omitempty,min=1,max=255"`
	Description null.String `json:"description"`
}

type PositionResponse struct {
	ID          int64  `json:"id"`
	CompanyID   string `json:"company_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}
