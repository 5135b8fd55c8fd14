//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestGreenmetricsWithMySQL tests run tracking with a MySQL history backend.
func TestGreenmetricsWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "greenmetrics",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/greenmetrics?parseTime=true", host, port.Port())
	runHistoryScenario(t, "mysql", connStr)
}

// TestGreenmetricsWithPostgres tests run tracking with a PostgreSQL history backend.
func TestGreenmetricsWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	pgC, err := postgres.Run(ctx, "postgres:18-alpine",
		postgres.WithDatabase("greenmetrics"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("secret123"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres password=secret123 dbname=greenmetrics sslmode=disable", host, port.Port())
	runHistoryScenario(t, "postgresql", connStr)
}

// runHistoryScenario clears the history, tracks a pipeline run and exports it.
func runHistoryScenario(t *testing.T, backend, connStr string) {
	t.Helper()
	env := []string{
		"GREENMETRICS_HISTORY_BACKEND=" + backend,
		"GREENMETRICS_HISTORY_DB_CONNECT=" + connStr,
	}
	root := writeFixture(t)

	_, err := runGreenmetrics(t, env, "history", "clear")
	require.NoError(t, err)

	_, err = runGreenmetrics(t, env, "history", "migrate")
	require.NoError(t, err)

	_, err = runGreenmetrics(t, env, "run", root)
	require.NoError(t, err)

	_, err = runGreenmetrics(t, env, "scores", root)
	require.NoError(t, err)

	out, err := runGreenmetrics(t, env, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, out, backend)

	exportBase := filepath.Join(t.TempDir(), "history")
	_, err = runGreenmetrics(t, env, "history", "export", "--output-file", exportBase)
	require.NoError(t, err)
	for _, suffix := range []string{".runs.parquet", ".system_scores.parquet"} {
		info, err := os.Stat(exportBase + suffix)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	_, err = runGreenmetrics(t, env, "history", "clear")
	require.NoError(t, err)
}
