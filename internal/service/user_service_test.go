package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/shinyyama/points-api/internal/model"
	"github.com/shinyyama/points-api/internal/repository/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserServiceGet(t *testing.T) {
	svc := NewUserService(repotest.NewFakeUserRepository(model.User{ID: 1, GroupName: "group1", Points: 10}), zap.NewNop())

	u, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), u.Points)

	_, err = svc.Get(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserServiceAddPoints(t *testing.T) {
	repo := repotest.NewFakeUserRepository(model.User{ID: 1, GroupName: "group1", Points: 10})
	svc := NewUserService(repo, zap.NewNop())

	u, err := svc.AddPoints(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(15), u.Points)

	_, err = svc.AddPoints(context.Background(), 1, -1)
	assert.ErrorIs(t, err, ErrInvalidPoints)
	assert.Equal(t, int64(15), repo.Points(1))

	_, err = svc.AddPoints(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserServiceAddPointsOverflow(t *testing.T) {
	repo := repotest.NewFakeUserRepository(model.User{ID: 1, GroupName: "group1", Points: 10})
	svc := NewUserService(repo, zap.NewNop())

	_, err := svc.AddPoints(context.Background(), 1, math.MaxInt64)
	assert.ErrorIs(t, err, ErrInvalidPoints)
	assert.Equal(t, int64(10), repo.Points(1))
}

func TestUserServiceSetPoints(t *testing.T) {
	repo := repotest.NewFakeUserRepository(model.User{ID: 1, GroupName: "group1", Points: 10})
	svc := NewUserService(repo, zap.NewNop())

	for _, v := range []int64{0, 42, 3} {
		u, err := svc.SetPoints(context.Background(), 1, v)
		require.NoError(t, err)
		assert.Equal(t, v, u.Points)
	}

	_, err := svc.SetPoints(context.Background(), 1, -5)
	assert.ErrorIs(t, err, ErrInvalidPoints)
	assert.Equal(t, int64(3), repo.Points(1))
}

func TestUserServiceResetAll(t *testing.T) {
	repo := repotest.NewFakeUserRepository(
		model.User{ID: 1, GroupName: "group1", Points: 10},
		model.User{ID: 2, GroupName: "group2", Points: 5},
	)
	svc := NewUserService(repo, zap.NewNop())

	require.NoError(t, svc.ResetAll(context.Background()))
	users, err := svc.List(context.Background())
	require.NoError(t, err)
	for _, u := range users {
		assert.Zero(t, u.Points)
	}
}

func TestUserServicePassesStoreErrorsThrough(t *testing.T) {
	storeErr := errors.New("connection refused")
	repo := repotest.NewFakeUserRepository()
	repo.FailWith(storeErr)
	svc := NewUserService(repo, zap.NewNop())

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, storeErr)
	_, err = svc.Get(context.Background(), 1)
	assert.ErrorIs(t, err, storeErr)
	_, err = svc.AddPoints(context.Background(), 1, 1)
	assert.ErrorIs(t, err, storeErr)
	assert.ErrorIs(t, svc.ResetAll(context.Background()), storeErr)
}
