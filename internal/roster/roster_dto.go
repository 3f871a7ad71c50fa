package roster

import (
	"encoding/json"

	"github.com/aarondl/null/v8"
)

// PositionInDepartment is one position as it appears inside a department.
type PositionInDepartment struct {
	ID             int64  `json:"id,omitempty"`
	DeptID         int64  `json:"deptId"`
	PosID          int64  `json:"posId"`
	PositionName   string `json:"positionName,omitempty"`
	DepartmentName string `json:"departmentName,omitempty"`
	Headcount      int    `json:"headcount,omitempty"`
}

// PositionRoster wraps a list of positions so it is sent as an object
// keyed by "positions" instead of a bare array.
type PositionRoster struct {
	Positions []PositionInDepartment `json:"positions"`
}

// NewPositionRoster keeps positions in the given order. A nil slice is
// accepted and still encodes as [].
func NewPositionRoster(positions []PositionInDepartment) PositionRoster {
	return PositionRoster{Positions: positions}
}

func (r PositionRoster) MarshalJSON() ([]byte, error) {
	positions := r.Positions
	if positions == nil {
		positions = []PositionInDepartment{}
	}
	return json.Marshal(struct {
		Positions []PositionInDepartment `json:"positions"`
	}{Positions: positions})
}

type AssignPositionRequest struct {
	PositionID int64 `json:"position_id" binding:"required,gt=0"`
	Headcount  int   `json:"headcount" binding:"omitempty,min=1"`
}

type UpdateHeadcountRequest struct {
	Headcount null.Int `json:"headcount"`
}
