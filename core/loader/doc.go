// Package loader provides the feature loading system.
//
// Each feature implements the Feature interface:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager registers features with Register and loads the enabled ones with
// LoadAll, in registration order. Order matters for catch-all routes such as
// the redirect feature, which must come last.
package loader
