package device

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Device is a client that has paired with the dashboard server.
type Device struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Token    string    `json:"token"`
	Origin   string    `json:"origin,omitempty"` // canonical origin the device was paired against
	PairedAt time.Time `json:"paired_at"`
	LastSeen time.Time `json:"last_seen,omitempty"`
}

// storeFile is the on-disk JSON format.
type storeFile struct {
	Devices []Device `json:"devices"`
}

// Store manages paired devices backed by a JSON file.
// It re-reads the file on lookups so that changes made by another process
// (e.g. hostlink device revoke while the server runs) take effect immediately.
type Store struct {
	path    string
	mu      sync.Mutex
	devices []Device
}

// NewStore creates a store backed by the given JSON file path.
// The file does not need to exist yet; it is created on the first write.
func NewStore(path string) *Store {
	s := &Store{path: path}
	s.mu.Lock()
	s.loadLocked()
	s.mu.Unlock()
	return s
}

// List returns all paired devices. A missing or empty backing file yields
// an empty slice and no error.
func (s *Store) List() ([]Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadLocked()
	out := make([]Device, len(s.devices))
	copy(out, s.devices)
	return out, nil
}

// Add appends a device and persists to disk.
func (s *Store) Add(d Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.devices = append(s.devices, d)
	return s.write()
}

// Remove deletes a device by ID and persists to disk.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := make([]Device, 0, len(s.devices))
	for _, d := range s.devices {
		if d.ID != id {
			filtered = append(filtered, d)
		}
	}
	s.devices = filtered
	return s.write()
}

// FindByToken looks up a device by its auth token. Returns nil if no device
// matches. Re-reads from disk so revoked devices are rejected immediately.
func (s *Store) FindByToken(token string) *Device {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadLocked()
	for i := range s.devices {
		if s.devices[i].Token == token {
			d := s.devices[i]
			return &d
		}
	}
	return nil
}

// UpdateLastSeen sets the last_seen timestamp for the device matching the
// given token and persists to disk. Unknown tokens are a no-op.
func (s *Store) UpdateLastSeen(token string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.devices {
		if s.devices[i].Token == token {
			s.devices[i].LastSeen = t
			_ = s.write()
			return
		}
	}
}

// loadLocked reads the JSON file into memory. Caller must hold s.mu.
// A missing file leaves the list empty; a corrupted file keeps the last
// good in-memory state rather than wiping paired devices.
func (s *Store) loadLocked() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.devices = nil
		return
	}
	var sf storeFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return
	}
	s.devices = sf.Devices
}

// write persists the current device list. Caller must hold s.mu.
func (s *Store) write() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Join(errors.New("device store: create directory"), err)
	}

	data, err := json.MarshalIndent(storeFile{Devices: s.devices}, "", "  ")
	if err != nil {
		return errors.Join(errors.New("device store: marshal"), err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return errors.Join(errors.New("device store: write file"), err)
	}
	return nil
}
