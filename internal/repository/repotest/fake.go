// Package repotest provides an in-memory repository.UserRepository for tests.
package repotest

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/shinyyama/points-api/internal/model"
	"github.com/shinyyama/points-api/internal/repository"
	"gorm.io/gorm"
)

type FakeUserRepository struct {
	mu     sync.Mutex
	users  map[int64]model.User
	err    error
	resets int
}

func NewFakeUserRepository(users ...model.User) *FakeUserRepository {
	r := &FakeUserRepository{users: make(map[int64]model.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

// FailWith makes every following call return err; nil restores normal behaviour.
func (r *FakeUserRepository) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Points returns the stored balance of id, or -1 when absent.
func (r *FakeUserRepository) Points(id int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return -1
	}
	return u.Points
}

func (r *FakeUserRepository) Resets() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resets
}

func (r *FakeUserRepository) List(ctx context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *FakeUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *FakeUserRepository) AddPoints(ctx context.Context, id int64, delta int64) (*model.User, error) {
	return r.update(id, func(u *model.User) error {
		if u.Points > math.MaxInt64-delta {
			return repository.ErrPointsOverflow
		}
		u.Points += delta
		return nil
	})
}

func (r *FakeUserRepository) SetPoints(ctx context.Context, id int64, points int64) (*model.User, error) {
	return r.update(id, func(u *model.User) error {
		u.Points = points
		return nil
	})
}

func (r *FakeUserRepository) update(id int64, fn func(*model.User) error) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if err := fn(&u); err != nil {
		return nil, err
	}
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = u
	return &u, nil
}

func (r *FakeUserRepository) ResetAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	r.resets++
	now := time.Now().UTC()
	for id, u := range r.users {
		u.Points = 0
		u.UpdatedAt = now
		r.users[id] = u
	}
	return int64(len(r.users)), nil
}

func (r *FakeUserRepository) Ping(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *FakeUserRepository) SetDB(db *gorm.DB) {}
