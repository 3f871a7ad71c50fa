package seed_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go-vacation/internal/department"
	"go-vacation/internal/position"
	"go-vacation/internal/roster"
	rostererrors "go-vacation/internal/roster/errors"
	"go-vacation/internal/seed"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const companyID = "6f1c2a52-3f0e-4c1b-9d38-5b8b6c7e9a10"

const sampleYAML = `
positions:
  - name: Engineer
    description: Writes software
departments:
  - name: Engineering
    description: Product engineering
    positions:
      - name: Engineer
        headcount: 3
      - name: Tech Lead
  - name: Sales
    positions:
      - name: Account Executive
        headcount: 2
`

type fakeDepartments struct {
	existing []department.DepartmentResponse
	created  []department.CreateDepartmentRequest
	nextID   int64
}

func (f *fakeDepartments) Create(ctx context.Context, companyID string, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	f.nextID++
	f.created = append(f.created, req)
	return department.DepartmentResponse{ID: f.nextID, Name: req.Name}, nil
}

func (f *fakeDepartments) GetAll(ctx context.Context, companyID string) ([]department.DepartmentResponse, error) {
	return f.existing, nil
}

type fakePositions struct {
	existing []position.PositionResponse
	created  []position.CreatePositionRequest
	nextID   int64
	err      error
}

func (f *fakePositions) Create(ctx context.Context, companyID string, req position.CreatePositionRequest) (position.PositionResponse, error) {
	f.nextID++
	f.created = append(f.created, req)
	return position.PositionResponse{ID: f.nextID, Name: req.Name}, nil
}

func (f *fakePositions) GetAll(ctx context.Context, companyID string) ([]position.PositionResponse, error) {
	return f.existing, f.err
}

type assignCall struct {
	deptID    int64
	posID     int64
	headcount int
}

type fakeRoster struct {
	assigned map[[2]int64]bool
	assigns  []assignCall
	updates  []assignCall
}

func (f *fakeRoster) Assign(ctx context.Context, companyID string, deptID int64, req roster.AssignPositionRequest) (roster.PositionInDepartment, error) {
	key := [2]int64{deptID, req.PositionID}
	if f.assigned[key] {
		return roster.PositionInDepartment{}, rostererrors.ErrPositionAlreadyAssigned
	}
	f.assigns = append(f.assigns, assignCall{deptID, req.PositionID, req.Headcount})
	return roster.PositionInDepartment{DeptID: deptID, PosID: req.PositionID}, nil
}

func (f *fakeRoster) UpdateHeadcount(ctx context.Context, companyID string, deptID, posID int64, req roster.UpdateHeadcountRequest) (roster.PositionInDepartment, error) {
	f.updates = append(f.updates, assignCall{deptID, posID, req.Headcount.Int})
	return roster.PositionInDepartment{DeptID: deptID, PosID: posID}, nil
}

func TestLoad(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		f, err := seed.Load(strings.NewReader(sampleYAML))

		assert.NoError(t, err)
		assert.Len(t, f.Positions, 1)
		assert.Len(t, f.Departments, 2)
		assert.Equal(t, seed.Assignment{Name: "Engineer", Headcount: 3}, f.Departments[0].Positions[0])
		assert.Equal(t, seed.Assignment{Name: "Tech Lead"}, f.Departments[0].Positions[1])
	})

	t.Run("empty file", func(t *testing.T) {
		f, err := seed.Load(strings.NewReader(""))

		assert.NoError(t, err)
		assert.Empty(t, f.Departments)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := seed.Load(strings.NewReader("teams: []\n"))

		assert.Error(t, err)
	})

	t.Run("duplicate department", func(t *testing.T) {
		_, err := seed.Load(strings.NewReader("departments:\n  - name: Sales\n  - name: Sales\n"))

		assert.ErrorContains(t, err, `duplicate department "Sales"`)
	})

	t.Run("negative headcount", func(t *testing.T) {
		_, err := seed.Load(strings.NewReader("departments:\n  - name: Sales\n    positions:\n      - name: Rep\n        headcount: -1\n"))

		assert.ErrorContains(t, err, "headcount must be positive")
	})

	t.Run("missing position name", func(t *testing.T) {
		_, err := seed.Load(strings.NewReader("positions:\n  - description: nameless\n"))

		assert.ErrorContains(t, err, "positions[0]: name is required")
	})
}

func TestApply(t *testing.T) {
	t.Run("fresh company", func(t *testing.T) {
		f, err := seed.Load(strings.NewReader(sampleYAML))
		assert.NoError(t, err)

		depts := &fakeDepartments{}
		positions := &fakePositions{}
		rs := &fakeRoster{assigned: map[[2]int64]bool{}}

		res, err := seed.Apply(context.Background(), f, companyID, seed.Deps{
			Departments: depts,
			Positions:   positions,
			Roster:      rs,
			Logger:      zap.NewNop(),
		})

		assert.NoError(t, err)
		assert.Equal(t, seed.Result{DepartmentsCreated: 2, PositionsCreated: 3, Assigned: 3}, res)
		assert.Equal(t, "Writes software", positions.created[0].Description)
		assert.Equal(t, []assignCall{
			{deptID: 1, posID: 1, headcount: 3},
			{deptID: 1, posID: 2, headcount: 0},
			{deptID: 2, posID: 3, headcount: 2},
		}, rs.assigns)
	})

	t.Run("existing rows are matched by name", func(t *testing.T) {
		f, err := seed.Load(strings.NewReader(sampleYAML))
		assert.NoError(t, err)

		depts := &fakeDepartments{
			existing: []department.DepartmentResponse{{ID: 10, Name: "Engineering"}},
			nextID:   10,
		}
		positions := &fakePositions{
			existing: []position.PositionResponse{{ID: 20, Name: "Engineer"}},
			nextID:   20,
		}
		rs := &fakeRoster{assigned: map[[2]int64]bool{{10, 20}: true}}

		res, err := seed.Apply(context.Background(), f, companyID, seed.Deps{
			Departments: depts,
			Positions:   positions,
			Roster:      rs,
		})

		assert.NoError(t, err)
		assert.Equal(t, seed.Result{DepartmentsCreated: 1, PositionsCreated: 2, Assigned: 2, HeadcountsUpdated: 1}, res)
		assert.Equal(t, []assignCall{{deptID: 10, posID: 20, headcount: 3}}, rs.updates)
		assert.Len(t, depts.created, 1)
		assert.Equal(t, "Sales", depts.created[0].Name)
	})

	t.Run("position listing fails", func(t *testing.T) {
		positions := &fakePositions{err: errors.New("db down")}

		_, err := seed.Apply(context.Background(), seed.File{}, companyID, seed.Deps{
			Departments: &fakeDepartments{},
			Positions:   positions,
			Roster:      &fakeRoster{},
		})

		assert.ErrorContains(t, err, "list positions: db down")
	})
}
