package reconcile

import "time"

// Config holds the reconcile settings shared by the CLI and the HTTP feature.
type Config struct {
	// PrimaryKey is the default primary-key column of base tables.
	PrimaryKey string `mapstructure:"primary_key" default:"id"`
	// CacheTTLSeconds is how long a report is served from cache. Zero disables caching.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"60"`
	// ReportPrefix is the object prefix of exported reports.
	ReportPrefix string `mapstructure:"report_prefix" default:"reports"`
}

// CacheTTL returns CacheTTLSeconds as a duration.
func (c Config) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
