// Package main is the entry point for the craftboard CLI.
//
// craftboard can be run either as a library (SDK) or as a standalone binary
// with YAML configuration. This CLI provides the standalone binary approach.
//
// Usage:
//
//	craftboard serve -c config.yaml      # Start the status page
//	craftboard serve --address mc.example.net
//	craftboard validate -c config.yaml   # Validate configuration
//	craftboard version                   # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "craftboard",
	Short: "A live status page for a Minecraft server",
	Long: `craftboard serves a single web page showing the live status of one
Minecraft server: online or offline, who is playing, the server version and
its message of the day.

Status comes from the public mcsrvstat.us API, polled every 60 seconds.

Quick start:
  craftboard serve --address play.example.net
  Open http://localhost:8080 in your browser

Example config:
  server_address: play.example.net
  title: Blockville
  poll_interval: 60s

Every setting can also be given as a flag or a CRAFTBOARD_* environment
variable (for example CRAFTBOARD_SERVER_ADDRESS).`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this craftboard binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("craftboard %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
