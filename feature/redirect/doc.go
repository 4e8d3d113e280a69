// Package redirect answers unmatched paths with a redirect to the configured
// server.redirect_no_page_found location.
package redirect
