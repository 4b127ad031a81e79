package service

import (
	"context"
	"errors"

	"github.com/shinyyama/points-api/internal/metrics"
	"github.com/shinyyama/points-api/internal/model"
	"github.com/shinyyama/points-api/internal/reqctx"
	"github.com/shinyyama/points-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidPoints = errors.New("invalid points value")
)

type UserService interface {
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id int64) (*model.User, error)
	AddPoints(ctx context.Context, id int64, delta int64) (*model.User, error)
	SetPoints(ctx context.Context, id int64, points int64) (*model.User, error)
	ResetAll(ctx context.Context) error
}

type userService struct {
	repo repository.UserRepository
	log  *zap.Logger
}

func NewUserService(repo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{repo: repo, log: log}
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.storeError(ctx, "list", err)
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeError(ctx, "get", err)
	}
	return u, nil
}

func (s *userService) AddPoints(ctx context.Context, id int64, delta int64) (*model.User, error) {
	if delta < 0 {
		return nil, ErrInvalidPoints
	}
	u, err := s.repo.AddPoints(ctx, id, delta)
	if err != nil {
		return nil, s.storeError(ctx, "add_points", err)
	}
	metrics.BalanceMutations.WithLabelValues("increment").Inc()
	return u, nil
}

func (s *userService) SetPoints(ctx context.Context, id int64, points int64) (*model.User, error) {
	if points < 0 {
		return nil, ErrInvalidPoints
	}
	u, err := s.repo.SetPoints(ctx, id, points)
	if err != nil {
		return nil, s.storeError(ctx, "set_points", err)
	}
	metrics.BalanceMutations.WithLabelValues("set").Inc()
	return u, nil
}

func (s *userService) ResetAll(ctx context.Context) error {
	n, err := s.repo.ResetAll(ctx)
	if err != nil {
		return s.storeError(ctx, "reset", err)
	}
	metrics.BalanceMutations.WithLabelValues("reset").Inc()
	s.log.Info("points reset", zap.Int64("rows", n), zap.String("rid", reqctx.RequestID(ctx)))
	return nil
}

// storeError turns a missing row into ErrNotFound, an overflowing balance
// into ErrInvalidPoints, and records everything else.
func (s *userService) storeError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrPointsOverflow):
		return ErrInvalidPoints
	}
	metrics.StoreErrors.WithLabelValues(op).Inc()
	s.log.Error("store call failed",
		zap.String("op", op),
		zap.String("rid", reqctx.RequestID(ctx)),
		zap.Error(err),
	)
	return err
}
