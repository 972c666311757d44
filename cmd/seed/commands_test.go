package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArowuTest/growdice-backend/internal/app"
	"github.com/ArowuTest/growdice-backend/internal/config"
	"github.com/ArowuTest/growdice-backend/internal/logger"
	"github.com/ArowuTest/growdice-backend/internal/models"
	"github.com/ArowuTest/growdice-backend/internal/repositories/memory"
)

const catalog = `
boxes:
  - id: starter
    name: Starter Box
    price: "1.00"
    rewards:
      - symbol: "🍀"
        value: "0.50"
      - symbol: "🌟"
        value: "2.00"
  - id: mystery
    name: Mystery Box
    price: "0.00"
`

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "boxes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalog), 0o600))
	return path
}

func testConfig() *config.Config {
	return &config.Config{
		JWT:     config.JWTConfig{Secret: "seed-secret", ExpiresIn: 60},
		Auth:    config.AuthConfig{StartingBalance: "0.00"},
		Storage: config.StorageConfig{Driver: config.DriverMemory},
		Game:    config.GameConfig{MaxBet: "10.00", MaxTopup: "10.00"},
	}
}

func TestRunBoxesAndAdmin(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	file := writeCatalog(t)

	err := withStore(testConfig(), store, logger.Discard(), func(a *app.App) error {
		var out bytes.Buffer
		require.NoError(t, runBoxes(ctx, a.Catalog, file, false, &out))
		assert.Equal(t, "imported 2 of 2 boxes from "+file+"\n", out.String())

		out.Reset()
		require.NoError(t, runBoxes(ctx, a.Catalog, file, false, &out))
		assert.Contains(t, out.String(), "imported 0 of 2")

		out.Reset()
		require.NoError(t, runAdmin(ctx, a.Auth, "ops@growdice.test", "s3cret!", &out))
		assert.Equal(t, "created admin ops@growdice.test\n", out.String())

		out.Reset()
		require.NoError(t, runAdmin(ctx, a.Auth, "ops@growdice.test", "n3w-s3cret", &out))
		assert.Equal(t, "promoted ops@growdice.test to admin\n", out.String())
		return nil
	})
	require.NoError(t, err)

	n, err := store.Boxes.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	admin, err := store.Users.FindByEmail(ctx, "ops@growdice.test")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
}

func TestRunBoxes_Errors(t *testing.T) {
	a, err := app.New(testConfig(), memory.NewStore(), nil, logger.Discard())
	require.NoError(t, err)
	var out bytes.Buffer

	assert.Error(t, runBoxes(context.Background(), a.Catalog, "", false, &out))
	assert.Error(t, runBoxes(context.Background(), a.Catalog, filepath.Join(t.TempDir(), "missing.yaml"), false, &out))
	assert.Error(t, runAdmin(context.Background(), a.Auth, "ops@growdice.test", "short", &out))
}

func TestRootCommand_BoxesWithMemoryDriver(t *testing.T) {
	t.Setenv("GROWDICE_JWT_SECRET", "cli-secret")
	t.Setenv("GROWDICE_STORAGE_DRIVER", "memory")
	t.Setenv("GROWDICE_ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	file := writeCatalog(t)

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", t.TempDir(), "--log-level", "error", "boxes", "--file", file})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "imported 2 of 2 boxes")
}

func TestRootCommand_AdminRequiresFlags(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"admin", "--email", "ops@growdice.test"})
	assert.Error(t, cmd.Execute())
}
