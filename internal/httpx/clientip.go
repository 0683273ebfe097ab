package httpx

import (
	"net/http"
	"net/netip"
	"strings"
	"unicode/utf8"
)

const MaxUserAgentLength = 512

// NormalizeIP accepts a bare IP or host:port (including "[v6]:port") and
// returns the canonical address without zone.
func NormalizeIP(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if ap, err := netip.ParseAddrPort(raw); err == nil {
		return ap.Addr().WithZone("").String(), true
	}
	host := strings.TrimSuffix(strings.TrimPrefix(raw, "["), "]")
	if addr, err := netip.ParseAddr(host); err == nil {
		return addr.WithZone("").String(), true
	}
	return raw, false
}

// ClientIP resolves the caller address. Forwarding headers are honoured only
// when trustProxy is set; the first X-Forwarded-For entry wins.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip, ok := NormalizeIP(first); ok {
				return ip
			}
		}
		if ip, ok := NormalizeIP(r.Header.Get("X-Real-IP")); ok {
			return ip
		}
	}
	if ip, ok := NormalizeIP(r.RemoteAddr); ok {
		return ip
	}
	return r.RemoteAddr
}

// TruncateUserAgent caps ua at MaxUserAgentLength runes.
func TruncateUserAgent(ua string) string {
	if utf8.RuneCountInString(ua) <= MaxUserAgentLength {
		return ua
	}
	n := 0
	for i := range ua {
		if n == MaxUserAgentLength {
			return ua[:i]
		}
		n++
	}
	return ua
}
