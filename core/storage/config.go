package storage

// Config holds the object-storage settings used for report exports.
type Config struct {
	// Enabled turns report exports on.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Endpoint is the host[:port] of the S3-compatible service.
	Endpoint  string `mapstructure:"endpoint" default:"localhost:9000"`
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	UseSSL    bool   `mapstructure:"use_ssl" default:"false"`
	// Bucket receives the exported reports.
	Bucket string `mapstructure:"bucket" default:"dbkit"`
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds bounds connection setup and the wait for response headers.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
