// Package cachekey centralizes redis keys shared across feature packages so a
// write in one package can invalidate reads cached by another.
package cachekey

import "fmt"

const (
	DepartmentAllPrefix    = "departments:all:"
	PositionAllPrefix      = "positions:all:"
	DepartmentRosterPrefix = "roster:department:"
	CompanyRosterPrefix    = "roster:company:"
)

func DepartmentAll(companyID string) string {
	return DepartmentAllPrefix + companyID
}

func PositionAll(companyID string) string {
	return PositionAllPrefix + companyID
}

func DepartmentRoster(companyID string, departmentID int64) string {
	return fmt.Sprintf("%s%s:%d", DepartmentRosterPrefix, companyID, departmentID)
}

func CompanyRoster(companyID string) string {
	return CompanyRosterPrefix + companyID
}
