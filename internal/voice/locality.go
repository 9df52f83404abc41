// Package voice implements the orb widget's audio plumbing: capture,
// transport selection, and the two transcription paths (persistent realtime
// room vs discrete HTTP chunk upload).
package voice

import (
	"net"
	"net/url"
	"strings"
)

// LocalBackend reports whether the backend host looks like it is on the local
// network. Local access prefers the persistent realtime room; remote access
// falls back to discrete HTTP chunk upload, which tolerates higher latency
// and NAT in the middle.
//
// The heuristic is a hostname pattern match, the same one the old dashboard
// used: loopback, RFC1918 private ranges, and mDNS ".local" names.
func LocalBackend(backendURL string) bool {
	u, err := url.Parse(strings.TrimSpace(backendURL))
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "" {
		return false
	}
	if host == "localhost" || strings.HasSuffix(host, ".local") {
		return true
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsPrivate()
}
