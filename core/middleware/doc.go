// Package middleware groups the HTTP middleware of the Fiber application.
//
//   - rayid: assigns each request a RayID (X-Ray-ID) used to correlate logs.
//   - auth: API key validation for every non-public route.
//   - locale: picks the response language and sets Content-Language.
//
// Register rayid first so every later log line carries the id.
package middleware
