// internal/db/db.go
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/config"
)

func Init(cfg *config.Config) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
	)

	database, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	if err = database.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	return database, nil
}

// EnsureSchema creates the customer_interactions table and its indexes if
// they are missing, so a fresh database works without a separate migration
// step. The UNIQUE constraint on customer_id is the dedup authority.
func EnsureSchema(database *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS customer_interactions (
			id SERIAL PRIMARY KEY,
			customer_id VARCHAR(255),
			interaction_type VARCHAR(255) NOT NULL,
			interaction_data JSONB,
			requester_email VARCHAR(255),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			retently_sent BOOLEAN DEFAULT FALSE,
			retently_scheduled_at TIMESTAMP WITH TIME ZONE,
			UNIQUE (customer_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_interaction_type ON customer_interactions (interaction_type)`,
		`CREATE INDEX IF NOT EXISTS idx_requester_email ON customer_interactions (requester_email)`,
	}

	for _, stmt := range statements {
		if _, err := database.Exec(stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
