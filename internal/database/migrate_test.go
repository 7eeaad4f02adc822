package database_test

import (
	"context"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/psds-microservice/helpdesk/internal/config"
	"github.com/psds-microservice/helpdesk/internal/database"
	"github.com/psds-microservice/helpdesk/internal/database/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_AppliesAndIsIdempotent(t *testing.T) {
	db := dbtest.Open(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable("tickets"))

	// второй прогон — без изменений
	require.NoError(t, database.Migrate(context.Background(), sqlDB, config.DriverSQLite))

	p, err := database.NewMigrator(sqlDB, config.DriverSQLite)
	require.NoError(t, err)
	statuses, err := p.Status(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, statuses)
	for _, s := range statuses {
		assert.Equal(t, goose.StateApplied, s.State, s.Source.Path)
	}
}

func TestNewMigrator_UnknownDriver(t *testing.T) {
	_, err := database.NewMigrator(nil, "mysql")
	assert.ErrorContains(t, err, "unsupported")
}
