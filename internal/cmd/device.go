package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/hostlink/hostlink/config"
	"github.com/hostlink/hostlink/internal/client"
	"github.com/hostlink/hostlink/internal/device"
	"github.com/hostlink/hostlink/internal/hostutil"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
)

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Manage paired devices",
	Long:  `Manage paired devices: pair new devices, list existing ones, or revoke access.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var devicePairCmd = &cobra.Command{
	Use:   "pair",
	Short: "Pair a new device via QR code",
	Long: `Initiate device pairing by displaying a QR code in the terminal.
The QR payload carries the server's canonical origin and a one-shot code;
scan it from the mobile app, or enter the code manually. The command polls
the server until the device is paired or 5 minutes elapse.

Examples:
  hostlink device pair
  hostlink device pair --name "My iPhone"
  hostlink device pair --host my-box.tail1234.ts.net`,
	Run: runDevicePair,
}

var deviceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List paired devices",
	Long:  `Display a table of all paired devices with their ID, name, pairing date, and last seen time.`,
	Run:   runDeviceList,
}

var deviceRevokeCmd = &cobra.Command{
	Use:   "revoke <id|name>",
	Short: "Revoke a paired device",
	Long: `Revoke access for a paired device by its ID or name.
The device will no longer be able to authenticate with the server.

Examples:
  hostlink device revoke dev_abc123
  hostlink device revoke "My iPhone"`,
	Args: cobra.ExactArgs(1),
	Run:  runDeviceRevoke,
}

func init() {
	devicePairCmd.Flags().String("name", "", "Name for the device being paired")
	devicePairCmd.Flags().String("host", "", "Override the origin embedded in the QR code (e.g. my-box.tail1234.ts.net)")
	deviceCmd.AddCommand(devicePairCmd)
	deviceCmd.AddCommand(deviceListCmd)
	deviceCmd.AddCommand(deviceRevokeCmd)
}

func runDevicePair(cmd *cobra.Command, args []string) {
	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = "unnamed device"
	}

	adminToken := readAdminToken()
	if adminToken == "" {
		fmt.Fprintln(os.Stderr, "Admin token not found. Start the server first (hostlink serve).")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	api := client.FromConfig(cfg, adminToken)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	code, origin, err := api.InitiatePair(ctx, name)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initiating pairing: %v\n", err)
		fmt.Fprintln(os.Stderr, "Is the server running? Start it with: hostlink serve")
		os.Exit(1)
	}

	// --host flag overrides the server-reported origin.
	if hostFlag, _ := cmd.Flags().GetString("host"); hostFlag != "" {
		origin = hostutil.Normalize(hostFlag, cfg.Server.Fallback)
	} else if origin == "" {
		origin = api.Origin()
	}

	qr, err := qrcode.New(qrPayload(origin, code), qrcode.Medium)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating QR code: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Scan this QR code with the hostlink mobile app:")
	fmt.Println()
	fmt.Print(qr.ToSmallString(false))
	fmt.Println()
	fmt.Printf("Origin:  %s\n", origin)
	fmt.Printf("Code:    %s\n", code)
	fmt.Println()
	fmt.Println("Waiting for device to pair...")

	timeout := time.After(5 * time.Minute)
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			fmt.Fprintln(os.Stderr, "\nPairing timed out after 5 minutes.")
			os.Exit(1)
		case <-ticker.C:
			fmt.Print(".")

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			claimed, deviceName, err := api.PairStatus(ctx, code)
			cancel()
			if err != nil {
				continue
			}
			if claimed {
				fmt.Printf("\nDevice '%s' paired successfully!\n", deviceName)
				return
			}
		}
	}
}

// qrPayload builds the JSON embedded in the pairing QR code.
func qrPayload(origin, code string) string {
	return fmt.Sprintf(`{"origin":%q,"code":%q}`, origin, code)
}

func runDeviceList(cmd *cobra.Command, args []string) {
	store := device.NewStore(filepath.Join(config.HostlinkDir(), "devices.json"))

	devices, err := store.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading devices: %v\n", err)
		os.Exit(1)
	}

	if len(devices) == 0 {
		fmt.Println("No paired devices")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPAIRED\tLAST SEEN")
	for _, d := range devices {
		lastSeen := "never"
		if !d.LastSeen.IsZero() {
			lastSeen = d.LastSeen.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.ID, d.Name, d.PairedAt.Local().Format("2006-01-02"), lastSeen)
	}
	w.Flush()
}

func runDeviceRevoke(cmd *cobra.Command, args []string) {
	target := args[0]

	store := device.NewStore(filepath.Join(config.HostlinkDir(), "devices.json"))

	devices, err := store.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading devices: %v\n", err)
		os.Exit(1)
	}

	// Match by ID first, then case-insensitive name match.
	var matchedID, matchedName string
	for _, d := range devices {
		if d.ID == target {
			matchedID = d.ID
			matchedName = d.Name
			break
		}
	}
	if matchedID == "" {
		for _, d := range devices {
			if strings.EqualFold(d.Name, target) {
				matchedID = d.ID
				matchedName = d.Name
				break
			}
		}
	}

	if matchedID == "" {
		fmt.Fprintf(os.Stderr, "No device found matching '%s'\n", target)
		os.Exit(1)
	}

	if err := store.Remove(matchedID); err != nil {
		fmt.Fprintf(os.Stderr, "Error revoking device: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Revoked device '%s' (%s)\n", matchedName, matchedID)
}
