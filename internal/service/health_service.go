package service

import (
	"context"
	"time"

	"github.com/shinyyama/points-api/internal/repository"
)

const healthProbeTimeout = 2 * time.Second

type HealthService interface {
	Check(ctx context.Context) error
}

type healthService struct {
	repo repository.UserRepository
}

func NewHealthService(repo repository.UserRepository) HealthService {
	return &healthService{repo: repo}
}

func (s *healthService) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()
	return s.repo.Ping(ctx)
}
