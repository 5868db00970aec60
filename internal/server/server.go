package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hostlink/hostlink/config"
	"github.com/hostlink/hostlink/internal/auth"
	"github.com/hostlink/hostlink/internal/device"
)

//go:embed web/index.html
var indexHTML []byte

// pairingTTL is how long a pairing code stays valid.
const pairingTTL = 5 * time.Minute

// Server is the dashboard HTTP/WebSocket server.
type Server struct {
	cfg      *config.Config
	store    *device.Store
	pairing  *device.PairingManager
	authMW   *auth.Middleware
	hub      *Hub
	upgrader websocket.Upgrader
	httpSrv  *http.Server
	bindAddr string
	port     int
}

// New creates a server whose device store and admin token live in stateDir.
func New(cfg *config.Config, stateDir string) (*Server, error) {
	store := device.NewStore(filepath.Join(stateDir, "devices.json"))

	adminToken, err := auth.LoadOrCreateAdminToken(filepath.Join(stateDir, "admin-token"))
	if err != nil {
		return nil, fmt.Errorf("admin token: %w", err)
	}

	hub := NewHub(cfg.Server.RefreshMs, func() int {
		devices, _ := store.List()
		return len(devices)
	})

	return &Server{
		cfg:     cfg,
		store:   store,
		pairing: device.NewPairingManager(pairingTTL),
		authMW:  auth.NewMiddleware(adminToken, store),
		hub:     hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}, nil
}

// Start starts the event hub and HTTP server. It blocks until the server stops.
func (s *Server) Start(bind string, port int) error {
	s.bindAddr = bind
	s.port = port
	s.hub.Start()

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	addr := fmt.Sprintf("%s:%d", bind, port)
	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      withLogging(withCORS(s.authMW.Wrap(mux))),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Printf("hostlink serve listening on %s", addr)
	return s.httpSrv.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	s.hub.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Web UI
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write(indexHTML)
	})

	// System
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/config", s.handleConfig)

	// Origin normalization
	mux.HandleFunc("POST /api/origin", s.handleOrigin)

	// Pairing
	mux.HandleFunc("POST /api/pair/initiate", s.handlePairInitiate)
	mux.HandleFunc("GET /api/pair/status", s.handlePairStatus)
	mux.HandleFunc("POST /api/pair/complete", s.handlePairComplete)

	// Devices
	mux.HandleFunc("GET /api/devices", s.handleListDevices)
	mux.HandleFunc("DELETE /api/devices/{id}", s.handleRevokeDevice)

	// WebSocket
	mux.HandleFunc("GET /api/ws", s.handleWebSocket)
}

// DetectTailscaleIP finds the Tailscale interface IP (100.64.0.0/10 CGNAT range).
func DetectTailscaleIP() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return ""
	}
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.To4() == nil {
				continue
			}
			// Tailscale CGNAT range: 100.64.0.0/10
			if ip.To4()[0] == 100 && ip.To4()[1] >= 64 && ip.To4()[1] <= 127 {
				return ip.String()
			}
		}
	}
	return ""
}

// ResolveBindAddress determines the bind address.
// Priority: explicit bind flag > Tailscale IP > localhost
func ResolveBindAddress(bind string) string {
	if bind != "" {
		return bind
	}
	if tsIP := DetectTailscaleIP(); tsIP != "" {
		log.Printf("Tailscale detected, binding to %s", tsIP)
		return tsIP
	}
	log.Println("WARNING: Tailscale not detected, binding to 127.0.0.1")
	return "127.0.0.1"
}

// Middleware: CORS
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Middleware: request logging
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
