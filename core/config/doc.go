// Package config loads the dbkit configuration.
//
// Values come from struct-tag defaults, an optional config.yaml in the working
// directory, a .env file and the environment, in increasing precedence.
// Environment variables use the upper-cased dotted key with underscores, so
// server.redirect_no_page_found is SERVER_REDIRECT_NO_PAGE_FOUND.
//
// # Sections
//
//   - server: port, API key, default locale and the catch-all redirect target
//   - database: driver and connection details, bulk insert batch size
//   - storage: S3/MinIO settings for report exports
//   - log: level and format
//   - reconcile: default primary key, report cache TTL and export prefix
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	target := cfg.GetValue("server.redirect_no_page_found")
//
// config.Publish writes the defaults to a YAML file to start from.
package config
