package main

import (
	"testing"

	"github.com/shinyyama/points-api/internal/config"
	"github.com/shinyyama/points-api/internal/db"
	"github.com/shinyyama/points-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSeedUsers(t *testing.T) {
	users := buildSeedUsers()
	require.Len(t, users, 3*usersPerGroup)

	perGroup := map[string]int{}
	for _, u := range users {
		perGroup[u.GroupName]++
		assert.Zero(t, u.Points)
	}
	assert.Equal(t, map[string]int{"group1": usersPerGroup, "group2": usersPerGroup, "group3": usersPerGroup}, perGroup)
}

func TestShouldSeed(t *testing.T) {
	gdb, err := db.Connect(&config.Config{DBDriver: db.DriverSQLite, StoreURL: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&model.User{}))

	ok, err := shouldSeed(gdb, "")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, gdb.Create(&model.User{GroupName: "group1"}).Error)

	ok, err = shouldSeed(gdb, "")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = shouldSeed(gdb, "TRUE")
	require.NoError(t, err)
	assert.True(t, ok)
}
