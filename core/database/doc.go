// Package database handles the run history database connection and schema inspection.
//
// It wraps GORM and picks the dialector from the configured driver: MySQL for shared
// deployments, SQLite for a single host or tests.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read the live table definition so the history
// repository can report drift after migrating.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("history disabled", zap.Error(err))
//	}
//
//	missing, err := database.MissingColumns(db, "sync_runs", []string{"id", "target"})
package database
