package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hostlink/hostlink/config"
	"github.com/hostlink/hostlink/internal/client"
)

// formatEvent renders one event stream entry for the watch view.
func formatEvent(e client.Event) string {
	ts := e.Time.Format("15:04:05")
	switch e.Type {
	case "paired":
		return fmt.Sprintf("%s  device paired: %s", ts, e.Message)
	case "revoked":
		return fmt.Sprintf("%s  device revoked: %s", ts, e.Message)
	default:
		if e.Message != "" {
			return fmt.Sprintf("%s  %s: %s", ts, e.Type, e.Message)
		}
		return fmt.Sprintf("%s  %s", ts, e.Type)
	}
}

// appendEvent appends e, dropping the oldest entries beyond max.
func appendEvent(events []client.Event, e client.Event, max int) []client.Event {
	events = append(events, e)
	if len(events) > max {
		events = events[len(events)-max:]
	}
	return events
}

// readAdminToken reads the local admin token, returning "" when the server
// has never run on this machine.
func readAdminToken() string {
	data, err := os.ReadFile(filepath.Join(config.HostlinkDir(), "admin-token"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
