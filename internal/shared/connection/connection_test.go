package connection_test

import (
	"context"
	"testing"

	"go-payroll/internal/shared/config"
	"go-payroll/internal/shared/connection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sessionRow struct {
	ID   int `gorm:"primaryKey"`
	Name string
}

func TestDialector(t *testing.T) {
	d, err := connection.Dialector(config.DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	d, err = connection.Dialector(config.DatabaseConfig{Driver: "sqlite", Path: "file::memory:"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	_, err = connection.Dialector(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestSession_RoutesThroughTx(t *testing.T) {
	db, err := connection.ConnectGORMWithRetry(config.DatabaseConfig{
		Driver:     "sqlite",
		Path:       "file:session_test?mode=memory&cache=shared",
		MaxRetries: 1,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&sessionRow{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)

	ctx := context.Background()
	tx, err := sqlDB.BeginTx(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, connection.Session(ctx, db, tx).Create(&sessionRow{ID: 1, Name: "rolled back"}).Error)
	require.NoError(t, tx.Rollback())

	var count int64
	require.NoError(t, connection.Session(ctx, db, nil).Model(&sessionRow{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGormConfig_KeepsDriverErrors(t *testing.T) {
	cfg := connection.GormConfig()
	assert.False(t, cfg.TranslateError)
	assert.IsType(t, &gorm.Config{}, cfg)
}
