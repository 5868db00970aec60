package hostutil

import "strings"

// IsLocal reports whether host looks like a local development endpoint.
// The check is a substring match, so "localhost:3000", "app.localhost" and
// anything embedding "127.0.0.1" all count. Case and surrounding whitespace
// are ignored.
func IsLocal(host string) bool {
	h := strings.ToLower(strings.TrimSpace(host))
	return strings.Contains(h, "localhost") || strings.Contains(h, "127.0.0.1")
}

// Normalize turns a raw host into a canonical origin (scheme://host, no trailing slash).
// Rules:
//   - blank or whitespace-only host → use fallback as-is
//   - "http://..." or "https://..." → keep the given scheme
//   - bare local host → prepend http://
//   - bare remote host → prepend https://
//
// A single trailing slash is stripped from the result.
func Normalize(host, fallback string) string {
	raw := strings.TrimSpace(host)
	if raw == "" {
		raw = fallback
	}

	withProtocol := raw
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		if IsLocal(raw) {
			withProtocol = "http://" + raw
		} else {
			withProtocol = "https://" + raw
		}
	}

	return strings.TrimSuffix(withProtocol, "/")
}

// WebSocketURL derives the WebSocket endpoint for a canonical origin:
// https becomes wss, http becomes ws, and path is appended verbatim.
func WebSocketURL(origin, path string) string {
	switch {
	case strings.HasPrefix(origin, "https://"):
		origin = "wss://" + strings.TrimPrefix(origin, "https://")
	case strings.HasPrefix(origin, "http://"):
		origin = "ws://" + strings.TrimPrefix(origin, "http://")
	}
	return origin + path
}
