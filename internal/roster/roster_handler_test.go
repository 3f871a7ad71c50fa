package roster_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-vacation/internal/roster"
	rostererrors "go-vacation/internal/roster/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRosterService struct {
	assignFn     func(ctx context.Context, companyID string, deptID int64, req roster.AssignPositionRequest) (roster.PositionInDepartment, error)
	headcountFn  func(ctx context.Context, companyID string, deptID, posID int64, req roster.UpdateHeadcountRequest) (roster.PositionInDepartment, error)
	unassignFn   func(ctx context.Context, companyID string, deptID, posID int64) error
	departmentFn func(ctx context.Context, companyID string, deptID int64) (roster.PositionRoster, error)
	companyFn    func(ctx context.Context, companyID string) (roster.PositionRoster, error)
	exportFn     func(ctx context.Context, companyID string, deptID int64) ([]byte, error)
}

func (f *fakeRosterService) Assign(ctx context.Context, companyID string, deptID int64, req roster.AssignPositionRequest) (roster.PositionInDepartment, error) {
	return f.assignFn(ctx, companyID, deptID, req)
}
func (f *fakeRosterService) UpdateHeadcount(ctx context.Context, companyID string, deptID, posID int64, req roster.UpdateHeadcountRequest) (roster.PositionInDepartment, error) {
	return f.headcountFn(ctx, companyID, deptID, posID, req)
}
func (f *fakeRosterService) Unassign(ctx context.Context, companyID string, deptID, posID int64) error {
	return f.unassignFn(ctx, companyID, deptID, posID)
}
func (f *fakeRosterService) GetDepartmentRoster(ctx context.Context, companyID string, deptID int64) (roster.PositionRoster, error) {
	return f.departmentFn(ctx, companyID, deptID)
}
func (f *fakeRosterService) GetCompanyRoster(ctx context.Context, companyID string) (roster.PositionRoster, error) {
	return f.companyFn(ctx, companyID)
}
func (f *fakeRosterService) ExportDepartmentRoster(ctx context.Context, companyID string, deptID int64) ([]byte, error) {
	return f.exportFn(ctx, companyID, deptID)
}
func (f *fakeRosterService) WarmDepartmentRoster(ctx context.Context, companyID string, deptID int64) error {
	return nil
}

func newRosterRouter(svc roster.Service, companyID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("company_id", companyID)
		c.Next()
	})
	roster.RegisterRoutes(r.Group("/api/v1"), roster.NewHandler(svc))
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRosterHandler_GetDepartmentRoster(t *testing.T) {
	companyID := uuid.New().String()

	t.Run("wraps positions in an object", func(t *testing.T) {
		svc := &fakeRosterService{
			departmentFn: func(ctx context.Context, cid string, deptID int64) (roster.PositionRoster, error) {
				assert.Equal(t, companyID, cid)
				assert.Equal(t, int64(1), deptID)
				return roster.NewPositionRoster([]roster.PositionInDepartment{
					{DeptID: 1, PosID: 10},
					{DeptID: 1, PosID: 11},
				}), nil
			},
		}

		w := doRequest(newRosterRouter(svc, companyID), http.MethodGet, "/api/v1/departments/1/positions", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true,"data":{"positions":[{"deptId":1,"posId":10},{"deptId":1,"posId":11}]}}`, w.Body.String())
	})

	t.Run("empty department", func(t *testing.T) {
		svc := &fakeRosterService{
			departmentFn: func(ctx context.Context, cid string, deptID int64) (roster.PositionRoster, error) {
				return roster.NewPositionRoster(nil), nil
			},
		}

		w := doRequest(newRosterRouter(svc, companyID), http.MethodGet, "/api/v1/departments/2/positions", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `{"ok":true,"data":{"positions":[]}}`, w.Body.String())
	})

	t.Run("unknown department", func(t *testing.T) {
		svc := &fakeRosterService{
			departmentFn: func(ctx context.Context, cid string, deptID int64) (roster.PositionRoster, error) {
				return roster.PositionRoster{}, rostererrors.ErrDepartmentNotFound
			},
		}

		w := doRequest(newRosterRouter(svc, companyID), http.MethodGet, "/api/v1/departments/3/positions", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), `"department not found"`)
	})

	t.Run("bad department id", func(t *testing.T) {
		w := doRequest(newRosterRouter(&fakeRosterService{}, companyID), http.MethodGet, "/api/v1/departments/x/positions", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRosterHandler_GetCompanyRoster(t *testing.T) {
	svc := &fakeRosterService{
		companyFn: func(ctx context.Context, cid string) (roster.PositionRoster, error) {
			return roster.NewPositionRoster([]roster.PositionInDepartment{{DeptID: 1, PosID: 10}}), nil
		},
	}

	w := doRequest(newRosterRouter(svc, uuid.New().String()), http.MethodGet, "/api/v1/roster", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"ok":true,"data":{"positions":[{"deptId":1,"posId":10}]}}`, w.Body.String())
}

func TestRosterHandler_Assign(t *testing.T) {
	companyID := uuid.New().String()

	t.Run("created", func(t *testing.T) {
		svc := &fakeRosterService{
			assignFn: func(ctx context.Context, cid string, deptID int64, req roster.AssignPositionRequest) (roster.PositionInDepartment, error) {
				assert.Equal(t, int64(1), deptID)
				assert.Equal(t, int64(10), req.PositionID)
				assert.Equal(t, 4, req.Headcount)
				return roster.PositionInDepartment{ID: 9, DeptID: deptID, PosID: req.PositionID, Headcount: req.Headcount}, nil
			},
		}

		w := doRequest(newRosterRouter(svc, companyID), http.MethodPost, "/api/v1/departments/1/positions", `{"position_id":10,"headcount":4}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"ok":true,"data":{"id":9,"deptId":1,"posId":10,"headcount":4}}`, w.Body.String())
	})

	t.Run("missing position id", func(t *testing.T) {
		w := doRequest(newRosterRouter(&fakeRosterService{}, companyID), http.MethodPost, "/api/v1/departments/1/positions", `{"headcount":4}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("conflict", func(t *testing.T) {
		svc := &fakeRosterService{
			assignFn: func(ctx context.Context, cid string, deptID int64, req roster.AssignPositionRequest) (roster.PositionInDepartment, error) {
				return roster.PositionInDepartment{}, rostererrors.ErrPositionAlreadyAssigned
			},
		}

		w := doRequest(newRosterRouter(svc, companyID), http.MethodPost, "/api/v1/departments/1/positions", `{"position_id":10}`)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestRosterHandler_UpdateHeadcount(t *testing.T) {
	companyID := uuid.New().String()

	svc := &fakeRosterService{
		headcountFn: func(ctx context.Context, cid string, deptID, posID int64, req roster.UpdateHeadcountRequest) (roster.PositionInDepartment, error) {
			assert.Equal(t, int64(1), deptID)
			assert.Equal(t, int64(10), posID)
			assert.True(t, req.Headcount.Valid)
			return roster.PositionInDepartment{DeptID: deptID, PosID: posID, Headcount: req.Headcount.Int}, nil
		},
	}

	w := doRequest(newRosterRouter(svc, companyID), http.MethodPatch, "/api/v1/departments/1/positions/10", `{"headcount":7}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"data":{"deptId":1,"posId":10,"headcount":7}}`, w.Body.String())

	t.Run("bad position id", func(t *testing.T) {
		w := doRequest(newRosterRouter(svc, companyID), http.MethodPatch, "/api/v1/departments/1/positions/-3", `{"headcount":7}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid position id")
	})
}

func TestRosterHandler_Unassign(t *testing.T) {
	companyID := uuid.New().String()

	t.Run("no content", func(t *testing.T) {
		svc := &fakeRosterService{
			unassignFn: func(ctx context.Context, cid string, deptID, posID int64) error {
				assert.Equal(t, int64(11), posID)
				return nil
			},
		}

		w := doRequest(newRosterRouter(svc, companyID), http.MethodDelete, "/api/v1/departments/1/positions/11", "")

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("not assigned", func(t *testing.T) {
		svc := &fakeRosterService{
			unassignFn: func(ctx context.Context, cid string, deptID, posID int64) error {
				return rostererrors.ErrAssignmentNotFound
			},
		}

		w := doRequest(newRosterRouter(svc, companyID), http.MethodDelete, "/api/v1/departments/1/positions/11", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRosterHandler_Export(t *testing.T) {
	svc := &fakeRosterService{
		exportFn: func(ctx context.Context, cid string, deptID int64) ([]byte, error) {
			return []byte("xlsx"), nil
		},
	}

	w := doRequest(newRosterRouter(svc, uuid.New().String()), http.MethodGet, "/api/v1/departments/5/positions/export", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, roster.ExportContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=department_5_positions.xlsx", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "xlsx", w.Body.String())
}
