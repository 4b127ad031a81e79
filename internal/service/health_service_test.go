package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shinyyama/points-api/internal/repository/repotest"
	"github.com/stretchr/testify/assert"
)

func TestHealthServiceCheck(t *testing.T) {
	repo := repotest.NewFakeUserRepository()
	svc := NewHealthService(repo)
	assert.NoError(t, svc.Check(context.Background()))

	repo.FailWith(errors.New("dial tcp: connection refused"))
	assert.EqualError(t, svc.Check(context.Background()), "dial tcp: connection refused")
}
