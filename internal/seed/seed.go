// Package seed loads departments, catalog positions and their assignments
// from a YAML file and applies them through the services.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go-vacation/internal/department"
	"go-vacation/internal/position"
	"go-vacation/internal/roster"
	rostererrors "go-vacation/internal/roster/errors"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type File struct {
	Positions   []Position   `yaml:"positions"`
	Departments []Department `yaml:"departments"`
}

type Position struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type Department struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Positions   []Assignment `yaml:"positions"`
}

type Assignment struct {
	Name      string `yaml:"name"`
	Headcount int    `yaml:"headcount"`
}

type DepartmentService interface {
	Create(ctx context.Context, companyID string, req department.CreateDepartmentRequest) (department.DepartmentResponse, error)
	GetAll(ctx context.Context, companyID string) ([]department.DepartmentResponse, error)
}

type PositionService interface {
	Create(ctx context.Context, companyID string, req position.CreatePositionRequest) (position.PositionResponse, error)
	GetAll(ctx context.Context, companyID string) ([]position.PositionResponse, error)
}

type RosterService interface {
	Assign(ctx context.Context, companyID string, deptID int64, req roster.AssignPositionRequest) (roster.PositionInDepartment, error)
	UpdateHeadcount(ctx context.Context, companyID string, deptID, posID int64, req roster.UpdateHeadcountRequest) (roster.PositionInDepartment, error)
}

type Deps struct {
	Departments DepartmentService
	Positions   PositionService
	Roster      RosterService
	Logger      *zap.Logger
}

// Result counts what Apply changed.
type Result struct {
	DepartmentsCreated int
	PositionsCreated   int
	Assigned           int
	HeadcountsUpdated  int
}

// Load decodes and validates a seed file.
func Load(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("decode seed file: %w", err)
	}
	if err := f.validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

func (f File) validate() error {
	seen := map[string]bool{}
	for i, p := range f.Positions {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return fmt.Errorf("positions[%d]: name is required", i)
		}
		if seen[name] {
			return fmt.Errorf("positions[%d]: duplicate position %q", i, name)
		}
		seen[name] = true
	}

	depts := map[string]bool{}
	for i, d := range f.Departments {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return fmt.Errorf("departments[%d]: name is required", i)
		}
		if depts[name] {
			return fmt.Errorf("departments[%d]: duplicate department %q", i, name)
		}
		depts[name] = true

		assigned := map[string]bool{}
		for j, a := range d.Positions {
			pos := strings.TrimSpace(a.Name)
			if pos == "" {
				return fmt.Errorf("departments[%d].positions[%d]: name is required", i, j)
			}
			if assigned[pos] {
				return fmt.Errorf("departments[%d].positions[%d]: %q listed twice", i, j, pos)
			}
			if a.Headcount < 0 {
				return fmt.Errorf("departments[%d].positions[%d]: headcount must be positive", i, j)
			}
			assigned[pos] = true
		}
	}
	return nil
}

// Apply creates whatever departments and positions are missing for the
// company, matching existing ones by name, then assigns positions. Existing
// assignments get their headcount set to the file's value.
func Apply(ctx context.Context, f File, companyID string, deps Deps) (Result, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.Named("seed")

	var res Result

	positionIDs, err := ensurePositions(ctx, f, companyID, deps.Positions, &res)
	if err != nil {
		return res, err
	}

	existing, err := deps.Departments.GetAll(ctx, companyID)
	if err != nil {
		return res, fmt.Errorf("list departments: %w", err)
	}
	deptIDs := make(map[string]int64, len(existing))
	for _, d := range existing {
		deptIDs[d.Name] = d.ID
	}

	for _, d := range f.Departments {
		name := strings.TrimSpace(d.Name)
		deptID, ok := deptIDs[name]
		if !ok {
			created, err := deps.Departments.Create(ctx, companyID, department.CreateDepartmentRequest{
				Name:        name,
				Description: d.Description,
			})
			if err != nil {
				return res, fmt.Errorf("create department %q: %w", name, err)
			}
			deptID = created.ID
			deptIDs[name] = deptID
			res.DepartmentsCreated++
		}

		for _, a := range d.Positions {
			posID := positionIDs[strings.TrimSpace(a.Name)]
			_, err := deps.Roster.Assign(ctx, companyID, deptID, roster.AssignPositionRequest{
				PositionID: posID,
				Headcount:  a.Headcount,
			})
			switch {
			case err == nil:
				res.Assigned++
			case errors.Is(err, rostererrors.ErrPositionAlreadyAssigned):
				headcount := a.Headcount
				if headcount == 0 {
					headcount = 1
				}
				if _, err := deps.Roster.UpdateHeadcount(ctx, companyID, deptID, posID, roster.UpdateHeadcountRequest{
					Headcount: null.IntFrom(headcount),
				}); err != nil {
					return res, fmt.Errorf("update %q in %q: %w", a.Name, name, err)
				}
				res.HeadcountsUpdated++
			default:
				return res, fmt.Errorf("assign %q to %q: %w", a.Name, name, err)
			}
		}
	}

	logger.Info("seed applied",
		zap.String("company_id", companyID),
		zap.Int("departments_created", res.DepartmentsCreated),
		zap.Int("positions_created", res.PositionsCreated),
		zap.Int("assigned", res.Assigned),
		zap.Int("headcounts_updated", res.HeadcountsUpdated),
	)
	return res, nil
}

// ensurePositions returns catalog ids by name for every position the file
// mentions, creating the missing ones. Positions only referenced from a
// department are created without a description.
func ensurePositions(ctx context.Context, f File, companyID string, svc PositionService, res *Result) (map[string]int64, error) {
	existing, err := svc.GetAll(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	ids := make(map[string]int64, len(existing))
	for _, p := range existing {
		ids[p.Name] = p.ID
	}

	wanted := make([]Position, 0, len(f.Positions))
	wanted = append(wanted, f.Positions...)
	for _, d := range f.Departments {
		for _, a := range d.Positions {
			wanted = append(wanted, Position{Name: a.Name})
		}
	}

	for _, p := range wanted {
		name := strings.TrimSpace(p.Name)
		if _, ok := ids[name]; ok {
			continue
		}
		created, err := svc.Create(ctx, companyID, position.CreatePositionRequest{
			Name:        name,
			Description: p.Description,
		})
		if err != nil {
			return nil, fmt.Errorf("create position %q: %w", name, err)
		}
		ids[name] = created.ID
		res.PositionsCreated++
	}
	return ids, nil
}
