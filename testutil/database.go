// Package testutil wires an in-memory sqlite database into config for
// package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupDB installs a fresh migrated database as config.GetDB() and returns
// a context bound to a new business. Redis is disabled.
func SetupDB(t *testing.T) (context.Context, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), config.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is its own database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.InstallPlugins(db))

	config.SetDB(db)
	config.SetRedisClient(nil)
	require.NoError(t, models.MigrateTable())

	t.Cleanup(func() {
		config.SetDB(nil)
		_ = sqlDB.Close()
	})
	return NewBusinessContext(), db
}

// NewBusinessContext returns a context for a random business.
func NewBusinessContext() context.Context {
	ctx := utils.SetBusinessIdInContext(context.Background(), uuid.NewString())
	ctx = utils.SetUserIdInContext(ctx, 1)
	return utils.SetUserNameInContext(ctx, "Test")
}
