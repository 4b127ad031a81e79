package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shinyyama/points-api/internal/config"
	"github.com/shinyyama/points-api/internal/db"
	"github.com/shinyyama/points-api/internal/model"
	"gorm.io/gorm"
)

const usersPerGroup = 5

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	gdb = gdb.WithContext(ctx)

	if err := gdb.AutoMigrate(&model.User{}); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}

	canSeed, err := shouldSeed(gdb, os.Getenv("FORCE_SEED"))
	if err != nil {
		return err
	}
	if !canSeed {
		log.Printf("users already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	users := buildSeedUsers()
	err = gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.User{}).Error; err != nil {
			return fmt.Errorf("clear users: %w", err)
		}
		if err := tx.Create(&users).Error; err != nil {
			return fmt.Errorf("insert users: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("seeded %d users", len(users))
	return nil
}

func buildSeedUsers() []model.User {
	groups := []string{"group1", "group2", "group3"}
	users := make([]model.User, 0, len(groups)*usersPerGroup)
	for _, g := range groups {
		for i := 0; i < usersPerGroup; i++ {
			users = append(users, model.User{GroupName: g})
		}
	}
	return users
}

func shouldSeed(gdb *gorm.DB, force string) (bool, error) {
	var cnt int64
	if err := gdb.Model(&model.User{}).Count(&cnt).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if cnt == 0 {
		return true, nil
	}
	return strings.EqualFold(force, "true"), nil
}
