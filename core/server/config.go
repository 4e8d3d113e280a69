package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// Locale is the default Content-Language of responses.
	Locale string `mapstructure:"locale" default:"en"`
	// RedirectNoPageFound is where unknown paths are redirected. Empty disables the redirect.
	RedirectNoPageFound string `mapstructure:"redirect_no_page_found" default:""`
}

// RedirectsUnknownPaths reports whether the catch-all redirect is enabled.
func (c Config) RedirectsUnknownPaths() bool {
	return c.RedirectNoPageFound != ""
}
