package request

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParamInt64 parses a positive numeric path parameter.
func ParamInt64(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// CompanyID returns the tenant set by middleware.Tenant.
func CompanyID(c *gin.Context) string {
	return c.GetString("company_id")
}
