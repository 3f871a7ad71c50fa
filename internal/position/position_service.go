package position

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	positionerrors "go-vacation/internal/position/errors"
	"go-vacation/internal/shared/cachekey"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const listCacheTTL = 30 * time.Minute

//go:generate mockgen -source=position_service.go -destination=mock/position_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreatePositionRequest) (PositionResponse, error)
	GetAll(ctx context.Context, companyID string) ([]PositionResponse, error)
	GetByID(ctx context.Context, companyID string, id int64) (PositionResponse, error)
	Update(ctx context.Context, companyID string, id int64, req UpdatePositionRequest) (PositionResponse, error)
	Delete(ctx context.Context, companyID string, id int64) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("position.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("position.service")
	}
	return &service{db: db, repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) Create(
	ctx context.Context,
	companyID string,
	req CreatePositionRequest,
) (PositionResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return PositionResponse{}, positionerrors.ErrInvalidCompanyID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PositionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	pos := &Position{
		CompanyID:   companyUUID,
		Name:        req.Name,
		Description: req.Description,
	}

	if err := qtx.Create(ctx, pos); err != nil {
		s.logger.Error("create position persist failed", zap.String("company_id", companyID), zap.Error(err))
		return PositionResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return PositionResponse{}, err
	}

	s.invalidate(ctx, cachekey.PositionAll(companyID))

	return mapToResponse(*pos), nil
}

func (s *service) GetAll(
	ctx context.Context,
	companyID string,
) ([]PositionResponse, error) {
	cacheKey := cachekey.PositionAll(companyID)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var resp []PositionResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		positions, err := s.repo.FindAllByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}

		resp := make([]PositionResponse, len(positions))
		for i, p := range positions {
			resp[i] = mapToResponse(p)
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, jsonData, listCacheTTL).Err(); err != nil {
					s.logger.Warn("cache position list failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]PositionResponse), nil
}

func (s *service) GetByID(
	ctx context.Context,
	companyID string,
	id int64,
) (PositionResponse, error) {
	pos, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PositionResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*pos), nil
}

func (s *service) Update(
	ctx context.Context,
	companyID string,
	id int64,
	req UpdatePositionRequest,
) (PositionResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PositionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	pos, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PositionResponse{}, mapRepositoryError(err)
	}

	renamed := false
	if req.Name != nil && *req.Name != pos.Name {
		pos.Name = *req.Name
		renamed = true
	}
	if req.Description.Valid {
		pos.Description = req.Description.String
	}

	if err := qtx.Update(ctx, pos); err != nil {
		return PositionResponse{}, mapRepositoryError(err)
	}

	keys := []string{cachekey.PositionAll(companyID)}
	if renamed {
		deptIDs, err := qtx.FindDepartmentIDs(ctx, companyID, id)
		if err != nil {
			return PositionResponse{}, err
		}
		for _, deptID := range deptIDs {
			keys = append(keys, cachekey.DepartmentRoster(companyID, deptID))
		}
		keys = append(keys, cachekey.CompanyRoster(companyID))
	}

	if err := tx.Commit(); err != nil {
		return PositionResponse{}, err
	}

	s.invalidate(ctx, keys...)

	return mapToResponse(*pos), nil
}

func (s *service) Delete(
	ctx context.Context,
	companyID string,
	id int64,
) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	assigned, err := qtx.CountAssignments(ctx, companyID, id)
	if err != nil {
		return err
	}
	if assigned > 0 {
		return positionerrors.ErrPositionInUse
	}

	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidate(ctx, cachekey.PositionAll(companyID))
	s.logger.Info("delete position success", zap.Int64("position_id", id), zap.String("company_id", companyID))

	return nil
}

func (s *service) invalidate(ctx context.Context, keys ...string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.logger.Error("invalidate cache failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func mapToResponse(pos Position) PositionResponse {
	resp := PositionResponse{
		ID:          pos.ID,
		CompanyID:   pos.CompanyID.String(),
		Name:        pos.Name,
		Description: pos.Description,
	}
	if !pos.CreatedAt.IsZero() {
		resp.CreatedAt = pos.CreatedAt.Format(time.RFC3339)
	}
	if !pos.UpdatedAt.IsZero() {
		resp.UpdatedAt = pos.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}
