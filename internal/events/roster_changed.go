package events

import "time"

const RosterChangedTopic = "hr.org.roster.v1"

const (
	RosterPositionAssigned   = "roster.position_assigned"
	RosterHeadcountChanged   = "roster.headcount_changed"
	RosterPositionUnassigned = "roster.position_unassigned"
)

// RosterChangedEvent is published whenever a position is attached to,
// resized in, or detached from a department.
type RosterChangedEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id,omitempty"`
	CompanyID    string    `json:"company_id"`
	DepartmentID int64     `json:"department_id"`
	PositionID   int64     `json:"position_id"`
	Headcount    int       `json:"headcount,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
