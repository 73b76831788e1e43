//go:build unix

package cmd

import (
	"fmt"
	"time"

	"github.com/gurisko/assetreg/internal/ctxlog"
	"github.com/gurisko/assetreg/internal/daemon"
	"github.com/spf13/cobra"
)

var daemonManifest string

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the assetreg daemon",
	Long: `Control the assetreg background daemon that holds the registry and serves it
over a Unix socket.`,
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the assetreg daemon",
	Long: `Start the assetreg daemon in foreground mode. The registry is built from the
configured manifest; pass --manifest "" to start with no containers.

For background operation, use:
  nohup assetreg daemon start > /tmp/assetreg-daemon.log 2>&1 &`,
	RunE: startDaemon,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the assetreg daemon",
	Long:  "Stop the running assetreg daemon gracefully.",
	RunE:  stopDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check daemon status",
	Long:  "Check if the assetreg daemon is running and display its status.",
	RunE:  statusDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	daemonCmd.AddCommand(daemonStatusCmd)

	daemonStartCmd.Flags().StringVar(&daemonManifest, "manifest", "", "asset manifest to load (default from config)")
}

func newDaemon(cmd *cobra.Command) (*daemon.Daemon, error) {
	dc := &daemon.Config{
		SocketPath: cfg.Socket,
		PIDFile:    cfg.PIDFile,
		Manifest:   cfg.Manifest,
	}
	if f := cmd.Flags().Lookup("manifest"); f != nil && f.Changed {
		dc.Manifest = daemonManifest
	}

	d, err := daemon.New(dc, ctxlog.FromContext(cmd.Context()))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize daemon: %w", err)
	}
	return d, nil
}

func startDaemon(cmd *cobra.Command, args []string) error {
	d, err := newDaemon(cmd)
	if err != nil {
		return err
	}
	return d.Start()
}

func stopDaemon(cmd *cobra.Command, args []string) error {
	d, err := newDaemon(cmd)
	if err != nil {
		return err
	}
	return d.Stop()
}

func statusDaemon(cmd *cobra.Command, args []string) error {
	d, err := newDaemon(cmd)
	if err != nil {
		return err
	}

	status, err := d.GetStatus()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case status.Running:
		fmt.Fprintf(out, "assetreg daemon running (PID: %d)\n", status.PID)
		fmt.Fprintf(out, "  Socket: %s\n", status.SocketPath)
		fmt.Fprintf(out, "  Instance: %s\n", status.Instance)
		fmt.Fprintf(out, "  Containers: %d\n", status.Containers)
		fmt.Fprintf(out, "  Uptime: %s\n", status.Uptime.Round(time.Second))
	case status.PID > 0 && status.ErrorMessage != "":
		fmt.Fprintf(out, "assetreg daemon process exists (PID: %d) but not responding\n", status.PID)
		fmt.Fprintf(out, "  Socket: %s\n", status.SocketPath)
		fmt.Fprintf(out, "  Error: %v\n", status.ErrorMessage)
	case status.PID > 0:
		fmt.Fprintf(out, "assetreg daemon is not running (stale pidfile)\n")
		fmt.Fprintf(out, "  Socket: %s\n", status.SocketPath)
	default:
		fmt.Fprintf(out, "assetreg daemon is not running\n")
		fmt.Fprintf(out, "  Socket: %s\n", status.SocketPath)
	}
	return nil
}
