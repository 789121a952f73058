package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	require.NoError(t, ValidateEmbedded())
}

func TestStorageEntriesMigrationContainsSchema(t *testing.T) {
	data, err := embedded.ReadFile("migrations/20250101120000_create_storage_entries.sql")
	require.NoError(t, err)
	content := string(data)

	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS storage_entries",
		"PRIMARY KEY (scope, entry_key)",
		"CREATE INDEX IF NOT EXISTS idx_storage_entries_updated_at",
		"DROP TABLE IF EXISTS storage_entries",
	} {
		assert.True(t, strings.Contains(content, sub), "missing expected statement %q", sub)
	}
}

func TestValidateFSRejectsBadFiles(t *testing.T) {
	bad := fstest.MapFS{
		"m/001_bad.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
	}
	assert.Error(t, ValidateFS(bad, "m"))

	missingDown := fstest.MapFS{
		"m/20250101120000_only_up.sql": {Data: []byte("-- +goose Up\nSELECT 1;\n")},
	}
	assert.Error(t, ValidateFS(missingDown, "m"))

	duplicate := fstest.MapFS{
		"m/20250101120000_a.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		"m/20250101120000_b.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
	}
	assert.Error(t, ValidateFS(duplicate, "m"))

	assert.Error(t, ValidateFS(fstest.MapFS{"m/readme.txt": {Data: []byte("x")}}, "m"))
}

func TestRunAppliesEmbeddedMigrationsOnSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:migrate_run_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)

	require.NoError(t, Run(context.Background(), sqlDB, "sqlite3", "", "up"))
	assert.True(t, conn.Migrator().HasTable("storage_entries"))

	require.NoError(t, Run(context.Background(), sqlDB, "sqlite3", "", "down"))
	assert.False(t, conn.Migrator().HasTable("storage_entries"))
}

func TestCreateSQLMigrationWritesTemplate(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Profile Index!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_profile_index.sql"), "unexpected path %s", path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "-- +goose Up")
	assert.Contains(t, string(data), "-- +goose Down")

	require.NoError(t, ValidateDir(filepath.Dir(path)))

	_, err = CreateSQLMigration(dir, "!!!")
	assert.Error(t, err)
}
