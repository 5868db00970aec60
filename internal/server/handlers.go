package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hostlink/hostlink/internal/device"
	"github.com/hostlink/hostlink/internal/hostutil"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.hub.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"uptime":  snap.Uptime,
		"devices": snap.Devices,
		"time":    time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg)
}

// handleOrigin exposes host normalization over the API so web and mobile
// clients resolve hosts exactly the way the CLI does.
func (s *Server) handleOrigin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Host     string `json:"host"`
		Fallback string `json:"fallback"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Fallback == "" {
		req.Fallback = s.cfg.Server.Fallback
	}
	origin := hostutil.Normalize(req.Host, req.Fallback)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"origin": origin,
		"local":  hostutil.IsLocal(origin),
	})
}

func (s *Server) handlePairInitiate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	json.NewDecoder(r.Body).Decode(&req)
	if req.Name == "" {
		req.Name = "unnamed device"
	}
	code, err := s.pairing.Initiate(req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// Return an externally reachable origin for the QR code.
	// Prefer Tailscale IP over the bind address (which may be 127.0.0.1).
	externalAddr := s.bindAddr
	if tsIP := DetectTailscaleIP(); tsIP != "" {
		externalAddr = tsIP
	}
	origin := hostutil.Normalize(fmt.Sprintf("http://%s:%d", externalAddr, s.port), s.cfg.Server.Fallback)
	writeJSON(w, http.StatusOK, map[string]string{
		"code":   code,
		"origin": origin,
	})
}

func (s *Server) handlePairStatus(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "code query param required")
		return
	}
	claimed, name := s.pairing.Status(code)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"claimed":     claimed,
		"device_name": name,
	})
}

func (s *Server) handlePairComplete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	deviceName, err := s.pairing.Complete(req.Code)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	name := req.Name
	if name == "" {
		name = deviceName
	}
	d := device.Device{
		ID:       device.GenerateDeviceID(),
		Name:     name,
		Token:    device.GenerateToken(),
		Origin:   hostutil.Normalize(fmt.Sprintf("%s:%d", s.bindAddr, s.port), s.cfg.Server.Fallback),
		PairedAt: time.Now().UTC(),
	}
	if err := s.store.Add(d); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save device")
		return
	}
	s.hub.Publish(Event{Type: "paired", Message: name})
	writeJSON(w, http.StatusOK, map[string]string{
		"token":     d.Token,
		"device_id": d.ID,
	})
}

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.store.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// Tokens never leave the server.
	type publicDevice struct {
		ID       string    `json:"id"`
		Name     string    `json:"name"`
		PairedAt time.Time `json:"paired_at"`
		LastSeen time.Time `json:"last_seen,omitempty"`
	}
	out := make([]publicDevice, 0, len(devices))
	for _, d := range devices {
		out = append(out, publicDevice{ID: d.ID, Name: d.Name, PairedAt: d.PairedAt, LastSeen: d.LastSeen})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"devices": out})
}

func (s *Server) handleRevokeDevice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "device id required")
		return
	}
	if err := s.store.Remove(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.hub.Publish(Event{Type: "revoked", Message: id})
	writeJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ch := s.hub.Subscribe()
	defer s.hub.Unsubscribe(ch)

	// Send initial snapshot
	if data, err := json.Marshal(s.hub.Snapshot()); err == nil {
		conn.WriteMessage(websocket.TextMessage, data)
	}

	// Read pump (for ping/pong and close detection)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
