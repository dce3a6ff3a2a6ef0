package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"arquivo/internal/logging"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id          BIGSERIAL   PRIMARY KEY,
  title       TEXT        NOT NULL,
  description TEXT        NOT NULL DEFAULT '',
  content     TEXT        NOT NULL DEFAULT '',
  tags        JSONB       NOT NULL DEFAULT '[]'::jsonb,
  category    TEXT        NOT NULL DEFAULT 'Other',
  author      TEXT        NOT NULL DEFAULT '',
  owner_ref   TEXT        NOT NULL DEFAULT '',
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_document_relations",
		SQL: `CREATE TABLE IF NOT EXISTS document_relations (
  id            BIGSERIAL   PRIMARY KEY,
  parent_id     BIGINT      NOT NULL,
  child_id      BIGINT      NOT NULL,
  relation_type TEXT        NOT NULL,
  description   TEXT        NOT NULL DEFAULT '',
  created_by    TEXT        NOT NULL DEFAULT '',
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_document_shares",
		SQL: `CREATE TABLE IF NOT EXISTS document_shares (
  id          BIGSERIAL   PRIMARY KEY,
  document_id BIGINT      NOT NULL,
  shared_with TEXT        NOT NULL,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_document_access_log",
		SQL: `CREATE TABLE IF NOT EXISTS document_access_log (
  id          BIGSERIAL   PRIMARY KEY,
  document_id BIGINT      NOT NULL,
  accessed_by TEXT        NOT NULL DEFAULT '',
  action      TEXT        NOT NULL DEFAULT '',
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documents_category",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_category ON documents (category);`,
	},
	{
		Name: "create_index_documents_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents (created_at);`,
	},
	{
		Name: "create_index_relations_parent_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_document_relations_parent_id ON document_relations (parent_id);`,
	},
	{
		Name: "create_index_relations_child_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_document_relations_child_id ON document_relations (child_id);`,
	},
}

// EnsureMigrated checks if the 'documents' table exists and runs the ordered
// migration steps if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, dbHost string) error {
	log := logging.New("database")
	start := time.Now()

	log.Info("db_migration_check", map[string]any{"db_host": dbHost})

	var exists bool
	query := "SELECT to_regclass('public.documents') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed", err, map[string]any{
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip", map[string]any{
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed", err, map[string]any{
				"migration_step": step.Name,
				"db_host":        dbHost,
				"duration_ms":    time.Since(start).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info("db_migration_step", map[string]any{
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	log.Info("db_migration_success", map[string]any{
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}
