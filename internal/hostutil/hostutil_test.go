package hostutil

import "testing"

func TestIsLocal(t *testing.T) {
	tests := []struct {
		host     string
		expected bool
	}{
		{"localhost", true},
		{"localhost:3000", true},
		{"LOCALHOST", true},
		{"  localhost  ", true},
		{"127.0.0.1", true},
		{"127.0.0.1:8080", true},
		{"app.localhost", true},
		// Substring match, not hostname equality.
		{"notlocalhost.example.org", true},
		{"myapp.localhost.example", true},
		{"example.com", false},
		{"192.168.1.10", false},
		{"", false},
		{"   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			if got := IsLocal(tt.host); got != tt.expected {
				t.Errorf("IsLocal(%q) = %v, want %v", tt.host, got, tt.expected)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		fallback string
		expected string
	}{
		// Absent host → fallback
		{"empty host", "", "example.com", "https://example.com"},
		{"whitespace host", "  ", "example.com", "https://example.com"},
		// Local hosts → http
		{"localhost with port", "localhost:3000", "example.com", "http://localhost:3000"},
		{"loopback with trailing slash", "127.0.0.1:8080/", "fallback", "http://127.0.0.1:8080"},
		// Remote hosts → https
		{"bare domain", "example.com", "fallback", "https://example.com"},
		{"domain with port", "api.example.com:8443", "fallback", "https://api.example.com:8443"},
		// Explicit scheme preserved, even for local hosts
		{"explicit https", "https://example.com/", "fallback", "https://example.com"},
		{"explicit http", "http://example.com", "fallback", "http://example.com"},
		{"explicit https on localhost", "https://localhost:3000", "fallback", "https://localhost:3000"},
		// Fallback used verbatim, then normalized
		{"fallback with scheme", "", "http://internal:9000/", "http://internal:9000"},
		{"local fallback", "", "localhost:7177", "http://localhost:7177"},
		// Only a single trailing slash removed
		{"double trailing slash", "example.com//", "fallback", "https://example.com/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.host, tt.fallback); got != tt.expected {
				t.Errorf("Normalize(%q, %q) = %q, want %q", tt.host, tt.fallback, got, tt.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	hosts := []string{
		"", "  ", "localhost:3000", "127.0.0.1:8080/", "example.com",
		"https://example.com/", "http://localhost", "app.localhost:4000",
	}
	for _, h := range hosts {
		once := Normalize(h, "example.com")
		twice := Normalize(once, "example.com")
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", h, once, twice)
		}
	}
}

func TestWebSocketURL(t *testing.T) {
	tests := []struct {
		origin   string
		path     string
		expected string
	}{
		{"http://localhost:7177", "/api/ws", "ws://localhost:7177/api/ws"},
		{"https://dash.example.com", "/api/ws", "wss://dash.example.com/api/ws"},
		{"https://dash.example.com", "", "wss://dash.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			if got := WebSocketURL(tt.origin, tt.path); got != tt.expected {
				t.Errorf("WebSocketURL(%q, %q) = %q, want %q", tt.origin, tt.path, got, tt.expected)
			}
		})
	}
}
