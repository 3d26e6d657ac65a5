// Package cli implements the solarctl operator commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/i9-energia/solar-estimator/internal/catalog"
	"github.com/i9-energia/solar-estimator/internal/ingest"
)

// NewRootCmd creates the root command for solarctl.
func NewRootCmd(ver string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "solarctl",
		Short:         "Solar estimate and lookup-table tool",
		Long:          "solarctl runs solar estimates offline and manages the workbook that feeds the lookup tables.",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(cmd)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.AddCommand(newEstimateCmd(), newTemplateCmd(), newExportCmd(), newValidateCmd())

	return cmd
}

const rootCmdExample = `  # Estimate a system for a customer in Campinas
  solarctl estimate --city Campinas --consumption 500 --bill "R$ 420,00"

  # Same estimate against an edited workbook, as JSON
  solarctl estimate --city Campinas --consumption 500 --bill 420 --tables dados.xlsx --json

  # Download a template with sample rows
  solarctl template --out template_dados_solares.xlsx

  # Check a workbook before uploading it
  solarctl validate dados.xlsx`

// setupLogging sends slog text records to stderr so stdout stays machine-readable.
func setupLogging(cmd *cobra.Command) {
	level := slog.LevelWarn
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
}

// loadTables reads a workbook (.xlsx) or a tables file in YAML. An empty path
// selects the built-in tables.
func loadTables(path string) (*catalog.TableSet, error) {
	if path == "" {
		return catalog.Builtin(), nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open tables: %w", err)
		}
		defer f.Close()

		ts, warnings, err := ingest.ReadWorkbook(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		for _, w := range warnings {
			slog.Warn("workbook warning", "file", path, "warning", w)
		}
		return ts, nil

	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("open tables: %w", err)
		}
		ts, err := catalog.ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return ts, nil
	}

	return nil, fmt.Errorf("unsupported tables file %s: want .xlsx or .yaml", path)
}
