package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/toolvet/toolvet/internal/descriptor"
	"github.com/toolvet/toolvet/internal/engine"
	"go.uber.org/zap"
)

var (
	validateManifest string
	validateExports  []string
)

var validateCmd = &cobra.Command{
	Use:   "validate <tool-file>",
	Short: "Validate a tool file and print the scored verdict",
	Long: `Run the full check suite against a tool file and print the
ValidationResult as JSON. Exits 1 when the tool is invalid.

Metadata comes from a manifest JSON file (--manifest, default: a
tool.json next to the tool file when present). Exported operations are
declared with --exports.

Examples:
  toolvet validate plugins/resize.js
  toolvet validate plugins/resize.js --manifest resize.manifest.json
  toolvet validate plugins/resize.js --exports execute`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&validateManifest, "manifest", "", "path to the tool manifest JSON")
	validateCmd.Flags().StringSliceVar(&validateExports, "exports", []string{"execute", "getMetadata"}, "operation names the tool exports")
}

func runValidate(cmd *cobra.Command, args []string) error {
	toolPath := args[0]

	meta, err := loadManifest(toolPath)
	if err != nil {
		return err
	}

	toolID := toolPath
	if id, ok := meta.StringField("id"); ok {
		toolID = id
	}

	tool := &descriptor.Tool{
		ID:       toolID,
		Path:     toolPath,
		Module:   descriptor.NewDeclaredSurface(validateExports, meta),
		Metadata: meta,
		LoadedAt: time.Now(),
	}

	validator := engine.NewValidator(engine.Config{
		AllowlistPath: flagAllowlist,
		StrictMode:    true,
		MaxFileSize:   flagMaxFileSize,
		ParseSource:   flagParseSource,
	}, zap.NewNop())

	result := validator.Validate(cmd.Context(), tool)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(out))

	if !result.Valid {
		os.Exit(1)
	}
	return nil
}

// loadManifest reads the tool metadata from --manifest, or from a
// tool.json sibling of the tool file when one exists. No manifest
// means empty metadata; the metadata check reports what is missing.
func loadManifest(toolPath string) (descriptor.Metadata, error) {
	path := validateManifest
	if path == "" {
		sibling := siblingManifest(toolPath)
		if _, err := os.Stat(sibling); err != nil {
			return descriptor.Metadata{}, nil
		}
		path = sibling
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var meta descriptor.Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return meta, nil
}

func siblingManifest(toolPath string) string {
	dir := "."
	if i := strings.LastIndexByte(toolPath, '/'); i >= 0 {
		dir = toolPath[:i]
	}
	return dir + "/tool.json"
}
