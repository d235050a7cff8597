package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toolvet/toolvet/internal/allowlist"
	"go.uber.org/zap"
)

var checkCommandCmd = &cobra.Command{
	Use:   "check-command -- <command...>",
	Short: "Check a command against the allowlist",
	Long: `Match a command against the configured allowlist. Entries are
exact strings or * wildcards. Exits 1 when the command is denied.

Examples:
  toolvet check-command -- npm run build:prod
  toolvet check-command --allowlist ops/allowlist.json -- git push`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheckCommand,
}

func init() {
	rootCmd.AddCommand(checkCommandCmd)
}

func runCheckCommand(_ *cobra.Command, args []string) error {
	command := strings.Join(args, " ")

	store := allowlist.NewStore(flagAllowlist, zap.NewNop())
	if _, err := store.Load(); err != nil {
		return err
	}

	if store.ValidateCommand(command) {
		fmt.Printf("allowed: %s\n", command)
		return nil
	}

	fmt.Printf("denied: %s\n", command)
	os.Exit(1)
	return nil
}
