// Package config provides configuration management for listing-sync.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults come from the `default` struct tags of each section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: run history database (mysql or sqlite)
//   - Storage: S3/MinIO credentials and the archive bucket
//   - Log: Logging level and format
//   - Encar: marketplace endpoints, page size and request pacing
//   - Notion: record store token, database id and API version
//   - Sync: reconciliation target, expiration window and insurance conditions
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sync.Maker)
package config
