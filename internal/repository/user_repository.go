package repository

import (
	"context"
	"errors"
	"math"
	"sync/atomic"

	"github.com/shinyyama/points-api/internal/model"
	"gorm.io/gorm"
)

var (
	ErrDBNotReady     = errors.New("database not initialized")
	ErrPointsOverflow = errors.New("points balance would overflow")
)

// UserRepository is the store capability behind every handler.
// Lookups and updates by id report a missing row as gorm.ErrRecordNotFound.
type UserRepository interface {
	List(ctx context.Context) ([]model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	AddPoints(ctx context.Context, id int64, delta int64) (*model.User, error)
	SetPoints(ctx context.Context, id int64, points int64) (*model.User, error)
	ResetAll(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
	SetDB(db *gorm.DB)
}

type userRepository struct {
	db atomic.Pointer[gorm.DB]
}

func NewUserRepository(db *gorm.DB) UserRepository {
	r := &userRepository{}
	r.SetDB(db)
	return r
}

func (r *userRepository) conn(ctx context.Context) (*gorm.DB, error) {
	db := r.db.Load()
	if db == nil {
		return nil, ErrDBNotReady
	}
	return db.WithContext(ctx), nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]model.User, 0)
	if err := db.Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var u model.User
	if err := db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// AddPoints increments the balance with a single UPDATE so concurrent
// increments never overwrite each other. A balance that would pass
// math.MaxInt64 is left alone and reported as ErrPointsOverflow.
func (r *userRepository) AddPoints(ctx context.Context, id int64, delta int64) (*model.User, error) {
	return r.updateAndFetch(ctx, id, gorm.Expr("points + ?", delta), math.MaxInt64-delta)
}

func (r *userRepository) SetPoints(ctx context.Context, id int64, points int64) (*model.User, error) {
	return r.updateAndFetch(ctx, id, points, math.MaxInt64)
}

// updateAndFetch only touches the row while its balance is at most ceiling.
func (r *userRepository) updateAndFetch(ctx context.Context, id int64, points interface{}, ceiling int64) (*model.User, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var u model.User
	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).
			Where("id = ? AND points <= ?", id, ceiling).
			Updates(map[string]interface{}{
				"points":     points,
				"updated_at": tx.NowFunc(),
			})
		if res.Error != nil {
			return res.Error
		}
		if err := tx.First(&u, id).Error; err != nil {
			return err
		}
		if res.RowsAffected == 0 && u.Points > ceiling {
			return ErrPointsOverflow
		}
		// MySQL reports matched-but-unchanged rows as 0 affected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) ResetAll(ctx context.Context) (int64, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}
	res := db.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Model(&model.User{}).
		Updates(map[string]interface{}{
			"points":     0,
			"updated_at": db.NowFunc(),
		})
	return res.RowsAffected, res.Error
}

// Ping reads at most one id; an empty table is still healthy.
func (r *userRepository) Ping(ctx context.Context) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}
	var ids []int64
	return db.Model(&model.User{}).Limit(1).Pluck("id", &ids).Error
}

func (r *userRepository) SetDB(db *gorm.DB) {
	r.db.Store(db)
}
