// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis session cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for session cache entries when no session TTL is configured.
const AuthCacheTTL = 24 * time.Hour

// Landing routes handed back to clients after sign-in and gate redirects.
const (
	RouteHome       = "/"
	RouteLogin      = "/login"
	RouteVendorHub  = "/agents"
	RouteTravelHub  = "/traveler"
	RouteAdminPanel = "/admin"
)
