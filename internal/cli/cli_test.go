package cli_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"tokoshop/internal/cli"
	"tokoshop/internal/config"
	"tokoshop/internal/database"
	"tokoshop/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	root := cli.NewRootCmdForTest()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "tokoshop dev")
}

func TestMigrateCmd_WithSeed(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "toko.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", dsn)

	var out bytes.Buffer
	root := cli.NewRootCmdForTest()
	root.SetOut(&out)
	root.SetArgs([]string{"migrate", "--seed"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Migration complete")
	assert.Contains(t, out.String(), "Seed complete")

	// Seeding again leaves the catalogue as it is.
	root = cli.NewRootCmdForTest()
	root.SetOut(&out)
	root.SetArgs([]string{"seed"})
	require.NoError(t, root.Execute())

	db, err := database.Open(&config.Config{DBDriver: "sqlite", DatabaseDSN: dsn})
	require.NoError(t, err)
	var products int64
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	assert.EqualValues(t, 3, products)
}

func TestMigrateCmd_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"migrate"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
}
