package roster

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	positions := r.Group("/departments/:id/positions")
	{
		positions.GET("", h.GetDepartmentRoster)
		positions.POST("", h.Assign)
		positions.GET("/export", h.Export)
		positions.PATCH("/:positionId", h.UpdateHeadcount)
		positions.DELETE("/:positionId", h.Unassign)
	}

	r.GET("/roster", h.GetCompanyRoster)
}
