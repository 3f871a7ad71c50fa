package roster

import (
	"fmt"
	"net/http"

	rostererrors "go-vacation/internal/roster/errors"
	"go-vacation/internal/shared/apperror"
	"go-vacation/internal/shared/request"
	"go-vacation/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("roster.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("roster.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("roster request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindError(c *gin.Context, err error) {
	appErr := apperror.MapValidationError(err)
	response.Error(c, appErr.HTTPStatus, appErr.Code, appErr.Message, err.Error())
}

// ids reads :id and, when withPosition is set, :positionId.
func (h *Handler) ids(c *gin.Context, withPosition bool) (int64, int64, bool) {
	deptID, ok := request.ParamInt64(c, "id")
	if !ok {
		h.writeServiceError(c, rostererrors.ErrInvalidDepartmentID)
		return 0, 0, false
	}
	if !withPosition {
		return deptID, 0, true
	}
	posID, ok := request.ParamInt64(c, "positionId")
	if !ok {
		h.writeServiceError(c, rostererrors.ErrInvalidPositionID)
		return 0, 0, false
	}
	return deptID, posID, true
}

func (h *Handler) GetDepartmentRoster(c *gin.Context) {
	deptID, _, ok := h.ids(c, false)
	if !ok {
		return
	}

	roster, err := h.service.GetDepartmentRoster(c.Request.Context(), request.CompanyID(c), deptID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, roster, nil)
}

func (h *Handler) GetCompanyRoster(c *gin.Context) {
	roster, err := h.service.GetCompanyRoster(c.Request.Context(), request.CompanyID(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, roster, nil)
}

func (h *Handler) Assign(c *gin.Context) {
	deptID, _, ok := h.ids(c, false)
	if !ok {
		return
	}

	var req AssignPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http assign position validation failed", zap.Error(err))
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Assign(c.Request.Context(), request.CompanyID(c), deptID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) UpdateHeadcount(c *gin.Context) {
	deptID, posID, ok := h.ids(c, true)
	if !ok {
		return
	}

	var req UpdateHeadcountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.UpdateHeadcount(c.Request.Context(), request.CompanyID(c), deptID, posID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Unassign(c *gin.Context) {
	deptID, posID, ok := h.ids(c, true)
	if !ok {
		return
	}

	if err := h.service.Unassign(c.Request.Context(), request.CompanyID(c), deptID, posID); err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Export(c *gin.Context) {
	deptID, _, ok := h.ids(c, false)
	if !ok {
		return
	}

	data, err := h.service.ExportDepartmentRoster(c.Request.Context(), request.CompanyID(c), deptID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=department_%d_positions.xlsx", deptID))
	c.Data(http.StatusOK, ExportContentType, data)
}
