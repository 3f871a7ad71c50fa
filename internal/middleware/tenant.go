package middleware

import (
	"go-vacation/internal/shared/apperror"
	"go-vacation/internal/shared/contextutil"
	"go-vacation/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const CompanyIDHeader = "X-Company-ID"

// Tenant requires a company uuid in X-Company-ID and exposes it as
// "company_id" on the gin context and through contextutil.
func Tenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(CompanyIDHeader)
		if raw == "" {
			abortWith(c, apperror.ErrMissingCompany)
			return
		}
		companyID, err := uuid.Parse(raw)
		if err != nil {
			abortWith(c, apperror.ErrInvalidCompanyID)
			return
		}

		cid := companyID.String()
		c.Set("company_id", cid)
		c.Request = c.Request.WithContext(contextutil.WithCompanyID(c.Request.Context(), cid))

		c.Next()
	}
}

func abortWith(c *gin.Context, err *apperror.AppError) {
	response.Error(c, err.HTTPStatus, err.Code, err.Message, nil)
	c.Abort()
}
