package persistence

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrationFilesOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/010_orders.sql": {Data: []byte("-- 10")},
		"migrations/001_init.sql":   {Data: []byte("-- 1")},
		"migrations/README.md":      {Data: []byte("docs")},
		"migrations/002_index.sql":  {Data: []byte("-- 2")},
	}
	names, err := migrationFiles(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.sql", "002_index.sql", "010_orders.sql"}, names)
}

func TestEmbeddedSchemaIsolatesTenants(t *testing.T) {
	names, err := migrationFiles(embeddedMigrations)
	require.NoError(t, err)
	require.NotEmpty(t, names)

	schema, err := embeddedMigrations.ReadFile("migrations/" + names[0])
	require.NoError(t, err)
	for _, table := range []string{"users", "products", "orders", "order_items"} {
		assert.Contains(t, string(schema), "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, string(schema), "tenant_id TEXT NOT NULL REFERENCES tenants(id)")
}

func TestEmbeddedSchemaRecordsBillingEvents(t *testing.T) {
	names, err := migrationFiles(embeddedMigrations)
	require.NoError(t, err)
	require.Contains(t, names, "002_processed_billing_events.sql")

	schema, err := embeddedMigrations.ReadFile("migrations/002_processed_billing_events.sql")
	require.NoError(t, err)
	assert.Contains(t, string(schema), "event_key TEXT PRIMARY KEY")
}

func TestRunMigrationsWithoutPool(t *testing.T) {
	assert.NoError(t, RunMigrations(context.Background(), nil, zap.NewNop()))
}
