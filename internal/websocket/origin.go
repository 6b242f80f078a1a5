package websocket

import (
	"net"
	"net/url"
	"slices"
)

// OriginValidator decides whether a browser origin may open a connection
type OriginValidator interface {
	IsAllowedOrigin(origin string) bool
}

// AllowedOrigins accepts loopback origins plus an explicit list. Entries
// are full origins such as "http://preview.local:6006", or "*".
type AllowedOrigins []string

// IsAllowedOrigin implements OriginValidator
func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	if slices.Contains(a, "*") || slices.Contains(a, origin) {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	switch u.Hostname() {
	case "localhost":
		return true
	default:
		ip := net.ParseIP(u.Hostname())
		return ip != nil && ip.IsLoopback()
	}
}

// sameOrigin reports whether origin names the host the request was sent to.
func sameOrigin(origin, requestHost string) bool {
	u, err := url.Parse(origin)
	return err == nil && u.Host != "" && u.Host == requestHost
}
