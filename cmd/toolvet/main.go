package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagAllowlist   string
	flagMaxFileSize int64
	flagParseSource bool
)

var rootCmd = &cobra.Command{
	Use:   "toolvet",
	Short: "Static validation for dynamically loaded tools",
	Long: `toolvet inspects tool files before a host process loads them:
file permissions and size, forbidden source patterns, capability
surface, metadata shape, and declared dependencies. It also gates
commands against a JSON allowlist.

toolvet never executes tool code; it returns a scored recommendation.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAllowlist, "allowlist", "", "path to command allowlist JSON (default: search config/command-allowlist.json, .toolvet/command-allowlist.json)")
	rootCmd.PersistentFlags().Int64Var(&flagMaxFileSize, "max-file-size", 1<<20, "maximum tool file size in bytes")
	rootCmd.PersistentFlags().BoolVar(&flagParseSource, "parse-source", false, "also parse the tool source as JavaScript")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
