package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL statements to run.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS predictions (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		property_type TEXT    NOT NULL,
		township      TEXT    NOT NULL,
		bedrooms      REAL,
		property_size REAL,
		outcome       TEXT    NOT NULL CHECK (outcome IN ('succeeded', 'failed')),
		price         REAL,
		currency      TEXT,
		message       TEXT    NOT NULL DEFAULT '',
		created_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
		source        TEXT    NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at)`,
}

// migrate runs all migrations in order.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}

	return nil
}
