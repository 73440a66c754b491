package bootstrap

import (
	"database/sql"
	"fmt"

	"github.com/GregMSThompson/dashboard-backend/internal/database"
)

// InitLocalDB migrates the sqlite file at path and opens it.
func InitLocalDB(path string) (*sql.DB, error) {
	if err := database.Migrate(path); err != nil {
		return nil, fmt.Errorf("migrate local db: %w", err)
	}
	return database.Open(path)
}
