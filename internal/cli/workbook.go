package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/i9-energia/solar-estimator/internal/catalog"
	"github.com/i9-energia/solar-estimator/internal/ingest"
)

func newTemplateCmd() *cobra.Command {
	var (
		out   string
		empty bool
	)

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the import workbook template",
		Long:  "Writes a workbook with the Cidades, Inversores and Tarifas sheets filled with sample rows and an instructions sheet. With --empty only the header rows are written.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := ingest.WriteTemplate(f, !empty); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Template written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "template_dados_solares.xlsx", "output file")
	cmd.Flags().BoolVar(&empty, "empty", false, "header rows only, no sample rows or instructions")

	return cmd
}

func newExportCmd() *cobra.Command {
	var out, tables string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export lookup tables as a workbook or YAML",
		Long:  "Writes the given tables (built-in when --tables is empty) as an importable workbook, or as YAML when --out ends in .yaml.",
		Example: `  solarctl export --out dados_solares.xlsx
  solarctl export --tables dados.xlsx --out tables.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ts, err := loadTables(tables)
			if err != nil {
				return err
			}
			if err := writeTables(ts, out); err != nil {
				return err
			}

			stats := ts.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d cities, %d kits and %d tariffs to %s\n",
				stats.TotalCities, stats.TotalKits, stats.TotalTariffs, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "dados_solares.xlsx", "output file (.xlsx or .yaml)")
	cmd.Flags().StringVar(&tables, "tables", "", "tables to export (.xlsx or .yaml); built-in tables when empty")

	return cmd
}

func writeTables(ts *catalog.TableSet, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := catalog.EncodeYAML(ts)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o644)
	case ".xlsx":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := ingest.WriteWorkbook(ts, f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	return fmt.Errorf("unsupported output %s: want .xlsx or .yaml", path)
}

func newValidateCmd() *cobra.Command {
	var structureOnly bool

	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a workbook without importing it",
		Long:  "Reads every sheet and row of a workbook and lists all problems, the same checks the import endpoint runs.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0], structureOnly)
		},
	}

	cmd.Flags().BoolVar(&structureOnly, "structure-only", false, "check sheets and headers only")

	return cmd
}

func runValidate(cmd *cobra.Command, path string, structureOnly bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var (
		ts       *catalog.TableSet
		warnings []string
	)
	if structureOnly {
		warnings, err = ingest.ValidateWorkbook(f)
	} else {
		ts, warnings, err = ingest.ReadWorkbook(f)
	}

	for _, w := range warnings {
		fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", w)
	}

	var verr *ingest.ValidationError
	if errors.As(err, &verr) {
		for _, p := range verr.Problems {
			fmt.Fprintf(cmd.OutOrStdout(), "error: %s\n", p)
		}
		return fmt.Errorf("%s: %d problem(s) found", path, len(verr.Problems))
	}
	if err != nil {
		return err
	}

	if ts != nil {
		stats := ts.Stats()
		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d cities, %d kits, %d tariffs\n",
			path, stats.TotalCities, stats.TotalKits, stats.TotalTariffs)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s structure is valid\n", path)
	}
	return nil
}
