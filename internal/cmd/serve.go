package cmd

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hostlink/hostlink/config"
	"github.com/hostlink/hostlink/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard server",
	Long: `Start the HTTP/WebSocket dashboard server.

The server binds to your Tailscale IP by default (100.x.x.x range).
If Tailscale is not detected, falls back to localhost.

Examples:
  hostlink serve              # Start on default port (7177)
  hostlink serve --port 8080  # Custom port
  hostlink serve --bind 0.0.0.0  # Override bind address`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetInt("port")
		bind, _ := cmd.Flags().GetString("bind")

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		if port == 0 {
			port = cfg.Server.Port
		}

		bindAddr := server.ResolveBindAddress(bind)

		srv, err := server.New(cfg, config.HostlinkDir())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initialising server: %v\n", err)
			os.Exit(1)
		}

		// Graceful shutdown
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigCh
			log.Println("Shutting down...")
			srv.Stop()
		}()

		if err := srv.Start(bindAddr, port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (default: from config or 7177)")
	serveCmd.Flags().String("bind", "", "Address to bind to (default: Tailscale IP or 127.0.0.1)")
}
