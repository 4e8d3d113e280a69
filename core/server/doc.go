// Package server holds the HTTP server configuration.
//
// The Config struct defines the listening port, the API key, the default
// response locale and the target of the catch-all redirect for unknown paths.
package server
