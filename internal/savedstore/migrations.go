package savedstore

import (
	"database/sql"

	"github.com/netgazer/wifiwatch/internal/store"
)

func migrations() []store.Migration {
	return []store.Migration{
		{
			Version:     1,
			Description: "create saved network config table",
			Up: func(tx *sql.Tx) error {
				stmts := []string{
					`CREATE TABLE IF NOT EXISTS saved_configs (
						id TEXT PRIMARY KEY,
						ssid TEXT NOT NULL,
						security TEXT NOT NULL,
						created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
						updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
						UNIQUE (ssid, security)
					)`,
					`CREATE INDEX IF NOT EXISTS idx_saved_configs_ssid ON saved_configs(ssid)`,
				}
				for _, stmt := range stmts {
					if _, err := tx.Exec(stmt); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}
