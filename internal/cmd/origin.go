package cmd

import (
	"fmt"
	"os"

	"github.com/hostlink/hostlink/config"
	"github.com/hostlink/hostlink/internal/hostutil"
	"github.com/spf13/cobra"
)

var originCmd = &cobra.Command{
	Use:   "origin [host]",
	Short: "Print the canonical origin for a host",
	Long: `Resolve a raw host into a canonical origin (scheme://host, no trailing slash).

Local hosts (anything containing "localhost" or "127.0.0.1") get http://,
everything else gets https://. Hosts that already carry a scheme keep it.
A blank host falls back to the configured server, then to the configured
fallback.

Examples:
  hostlink origin localhost:3000
  hostlink origin dash.example.com
  hostlink origin                # resolve the configured server host
  hostlink origin --ws my-box.tail1234.ts.net`,
	Args: cobra.MaximumNArgs(1),
	Run:  runOrigin,
}

func init() {
	originCmd.Flags().String("fallback", "", "Fallback host when the input is blank (default: from config)")
	originCmd.Flags().Bool("ws", false, "Print the derived WebSocket endpoint instead")
}

func runOrigin(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	host := cfg.Server.Host
	if len(args) > 0 {
		host = args[0]
	}

	fallback, _ := cmd.Flags().GetString("fallback")
	if fallback == "" {
		fallback = cfg.Server.Fallback
	}

	origin := hostutil.Normalize(host, fallback)

	if ws, _ := cmd.Flags().GetBool("ws"); ws {
		fmt.Println(hostutil.WebSocketURL(origin, "/api/ws"))
		return
	}
	fmt.Println(origin)
}
