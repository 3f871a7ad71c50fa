package roster

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	"go-vacation/internal/events"
	"go-vacation/internal/messaging/kafka"
	rostererrors "go-vacation/internal/roster/errors"
	"go-vacation/internal/shared/cachekey"
	"go-vacation/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultCacheTTL = 30 * time.Minute

//go:generate mockgen -source=roster_service.go -destination=mock/roster_service_mock.go -package=mock
type Service interface {
	Assign(ctx context.Context, companyID string, deptID int64, req AssignPositionRequest) (PositionInDepartment, error)
	UpdateHeadcount(ctx context.Context, companyID string, deptID, posID int64, req UpdateHeadcountRequest) (PositionInDepartment, error)
	Unassign(ctx context.Context, companyID string, deptID, posID int64) error
	GetDepartmentRoster(ctx context.Context, companyID string, deptID int64) (PositionRoster, error)
	GetCompanyRoster(ctx context.Context, companyID string) (PositionRoster, error)
	ExportDepartmentRoster(ctx context.Context, companyID string, deptID int64) ([]byte, error)
	WarmDepartmentRoster(ctx context.Context, companyID string, deptID int64) error
}

type service struct {
	db       *sql.DB
	repo     Repository
	outbox   kafka.OutboxRepository
	rdb      *redis.Client
	cacheTTL time.Duration
	sf       *singleflight.Group
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, rdb, DefaultCacheTTL, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	cacheTTL time.Duration,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("roster.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("roster.service")
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &service{
		db:       db,
		repo:     repo,
		outbox:   outboxRepo,
		rdb:      rdb,
		cacheTTL: cacheTTL,
		sf:       &singleflight.Group{},
		logger:   l,
	}
}

func (s *service) Assign(
	ctx context.Context,
	companyID string,
	deptID int64,
	req AssignPositionRequest,
) (PositionInDepartment, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return PositionInDepartment{}, rostererrors.ErrInvalidCompanyID
	}

	headcount := req.Headcount
	if headcount == 0 {
		headcount = 1
	}
	if headcount < 0 {
		return PositionInDepartment{}, rostererrors.ErrInvalidHeadcount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PositionInDepartment{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := s.ensureExists(ctx, qtx, companyID, deptID, req.PositionID); err != nil {
		return PositionInDepartment{}, err
	}

	a := &Assignment{
		CompanyID:    companyUUID,
		DepartmentID: deptID,
		PositionID:   req.PositionID,
		Headcount:    headcount,
	}
	if err := qtx.Create(ctx, a); err != nil {
		s.logger.Error("assign position persist failed",
			zap.Int64("department_id", deptID),
			zap.Int64("position_id", req.PositionID),
			zap.Error(err),
		)
		return PositionInDepartment{}, mapRepositoryError(err)
	}

	if err := s.queueEvent(ctx, tx, events.RosterPositionAssigned, companyID, a); err != nil {
		return PositionInDepartment{}, err
	}

	if err := tx.Commit(); err != nil {
		return PositionInDepartment{}, err
	}

	s.invalidate(ctx, companyID, deptID)
	s.logger.Info("assign position success",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.Int64("department_id", deptID),
		zap.Int64("position_id", req.PositionID),
	)

	return mapAssignment(*a), nil
}

func (s *service) UpdateHeadcount(
	ctx context.Context,
	companyID string,
	deptID, posID int64,
	req UpdateHeadcountRequest,
) (PositionInDepartment, error) {
	if !req.Headcount.Valid {
		return PositionInDepartment{}, rostererrors.ErrHeadcountRequired
	}
	if req.Headcount.Int < 1 {
		return PositionInDepartment{}, rostererrors.ErrInvalidHeadcount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PositionInDepartment{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a, err := qtx.FindOne(ctx, companyID, deptID, posID)
	if err != nil {
		return PositionInDepartment{}, mapRepositoryError(err)
	}

	a.Headcount = req.Headcount.Int
	if err := qtx.Update(ctx, a); err != nil {
		return PositionInDepartment{}, mapRepositoryError(err)
	}

	if err := s.queueEvent(ctx, tx, events.RosterHeadcountChanged, companyID, a); err != nil {
		return PositionInDepartment{}, err
	}

	if err := tx.Commit(); err != nil {
		return PositionInDepartment{}, err
	}

	s.invalidate(ctx, companyID, deptID)

	return mapAssignment(*a), nil
}

func (s *service) Unassign(
	ctx context.Context,
	companyID string,
	deptID, posID int64,
) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Delete(ctx, companyID, deptID, posID); err != nil {
		return mapRepositoryError(err)
	}

	a := &Assignment{DepartmentID: deptID, PositionID: posID}
	if err := s.queueEvent(ctx, tx, events.RosterPositionUnassigned, companyID, a); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidate(ctx, companyID, deptID)
	s.logger.Info("unassign position success",
		zap.Int64("department_id", deptID),
		zap.Int64("position_id", posID),
	)

	return nil
}

func (s *service) GetDepartmentRoster(
	ctx context.Context,
	companyID string,
	deptID int64,
) (PositionRoster, error) {
	cacheKey := cachekey.DepartmentRoster(companyID, deptID)

	if r, ok := s.cached(ctx, cacheKey); ok {
		return r, nil
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		r, err := s.loadDepartmentRoster(ctx, companyID, deptID)
		if err != nil {
			return nil, err
		}
		s.store(ctx, cacheKey, r)
		return r, nil
	})
	if err != nil {
		return PositionRoster{}, err
	}

	return v.(PositionRoster), nil
}

func (s *service) GetCompanyRoster(
	ctx context.Context,
	companyID string,
) (PositionRoster, error) {
	cacheKey := cachekey.CompanyRoster(companyID)

	if r, ok := s.cached(ctx, cacheKey); ok {
		return r, nil
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		rows, err := s.repo.ListByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}
		r := NewPositionRoster(mapRows(rows))
		s.store(ctx, cacheKey, r)
		return r, nil
	})
	if err != nil {
		return PositionRoster{}, err
	}

	return v.(PositionRoster), nil
}

// WarmDepartmentRoster rebuilds the cached roster without reading the old entry.
// It also drops the company roster, which a read racing the original write may
// have stored with stale data.
func (s *service) WarmDepartmentRoster(
	ctx context.Context,
	companyID string,
	deptID int64,
) error {
	s.dropKeys(ctx, cachekey.CompanyRoster(companyID))

	r, err := s.loadDepartmentRoster(ctx, companyID, deptID)
	if err != nil {
		return err
	}
	s.store(ctx, cachekey.DepartmentRoster(companyID, deptID), r)
	return nil
}

func (s *service) ExportDepartmentRoster(
	ctx context.Context,
	companyID string,
	deptID int64,
) ([]byte, error) {
	r, err := s.GetDepartmentRoster(ctx, companyID, deptID)
	if err != nil {
		return nil, err
	}
	return buildWorkbook(r)
}

func (s *service) loadDepartmentRoster(ctx context.Context, companyID string, deptID int64) (PositionRoster, error) {
	ok, err := s.repo.DepartmentExists(ctx, companyID, deptID)
	if err != nil {
		return PositionRoster{}, err
	}
	if !ok {
		return PositionRoster{}, rostererrors.ErrDepartmentNotFound
	}

	rows, err := s.repo.ListByDepartment(ctx, companyID, deptID)
	if err != nil {
		return PositionRoster{}, err
	}

	return NewPositionRoster(mapRows(rows)), nil
}

func (s *service) ensureExists(ctx context.Context, repo Repository, companyID string, deptID, posID int64) error {
	ok, err := repo.DepartmentExists(ctx, companyID, deptID)
	if err != nil {
		return err
	}
	if !ok {
		return rostererrors.ErrDepartmentNotFound
	}

	ok, err = repo.PositionExists(ctx, companyID, posID)
	if err != nil {
		return err
	}
	if !ok {
		return rostererrors.ErrPositionNotFound
	}
	return nil
}

func (s *service) queueEvent(ctx context.Context, tx *sql.Tx, eventType, companyID string, a *Assignment) error {
	if s.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	event := events.RosterChangedEvent{
		EventType:    eventType,
		RequestID:    rid,
		CompanyID:    companyID,
		DepartmentID: a.DepartmentID,
		PositionID:   a.PositionID,
		Headcount:    a.Headcount,
		OccurredAt:   time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "department",
		AggregateID:   strconv.FormatInt(a.DepartmentID, 10),
		EventType:     eventType,
		Topic:         events.RosterChangedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("queue roster event failed",
			zap.String("event_type", eventType),
			zap.Int64("department_id", a.DepartmentID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) cached(ctx context.Context, key string) (PositionRoster, bool) {
	if s.rdb == nil {
		return PositionRoster{}, false
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return PositionRoster{}, false
	}
	var r PositionRoster
	if err := json.Unmarshal(raw, &r); err != nil {
		s.logger.Warn("drop undecodable roster cache entry", zap.String("key", key), zap.Error(err))
		return PositionRoster{}, false
	}
	return r, true
}

func (s *service) store(ctx context.Context, key string, r PositionRoster) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(r)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("cache roster failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *service) invalidate(ctx context.Context, companyID string, deptID int64) {
	s.dropKeys(ctx, cachekey.DepartmentRoster(companyID, deptID), cachekey.CompanyRoster(companyID))
}

func (s *service) dropKeys(ctx context.Context, keys ...string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.logger.Error("invalidate roster cache failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func mapAssignment(a Assignment) PositionInDepartment {
	return PositionInDepartment{
		ID:        a.ID,
		DeptID:    a.DepartmentID,
		PosID:     a.PositionID,
		Headcount: a.Headcount,
	}
}

func mapRows(rows []AssignmentRow) []PositionInDepartment {
	out := make([]PositionInDepartment, len(rows))
	for i, row := range rows {
		out[i] = PositionInDepartment{
			ID:             row.ID,
			DeptID:         row.DepartmentID,
			PosID:          row.PositionID,
			PositionName:   row.PositionName,
			DepartmentName: row.DepartmentName,
			Headcount:      row.Headcount,
		}
	}
	return out
}
