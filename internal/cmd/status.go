package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hostlink/hostlink/config"
	"github.com/hostlink/hostlink/internal/client"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the dashboard server is reachable",
	Long:  `Resolve the configured host to its canonical origin and probe the health endpoint.`,
	Run:   runStatus,
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	c := client.FromConfig(cfg, "")

	fmt.Println("hostlink status:")
	fmt.Printf("  Origin:     %s\n", c.Origin())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	health, err := c.Health(ctx)
	if err != nil {
		fmt.Println("  Reachable:  no")
		fmt.Printf("  Error:      %v\n", err)
		os.Exit(1)
	}

	fmt.Println("  Reachable:  yes")
	fmt.Printf("  Uptime:     %s\n", health.Uptime)
	fmt.Printf("  Devices:    %d\n", health.Devices)
}
