// Package difftables exposes table reconciliation over HTTP.
//
// # Endpoints
//
//   - GET /difftables/report: per-column diff between a base and a merge table
//   - GET /difftables/new-items: merge rows without a base counterpart
//   - POST /difftables/merge: update matched rows and insert new ones (dry_run plans only)
//   - POST, GET /difftables/exports and GET, DELETE /difftables/exports/*: reports kept in object storage
//
// Tables and mappings are given as query parameters (base, merge, repeated
// pivot and column pairs written base:merge, primary_key) or, for merges, as a
// JSON body. Reports are cached per table pair and mapping until the cache TTL
// expires or a merge touches the base table.
package difftables
