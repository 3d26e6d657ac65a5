package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/i9-energia/solar-estimator/internal/cli"
	"github.com/i9-energia/solar-estimator/internal/estimate"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmd("test")
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEstimate_TextOutput(t *testing.T) {
	out, err := execute(t, "estimate", "--city", "campinas", "--consumption", "500", "--bill", "R$ 420,00")
	require.NoError(t, err)

	assert.Contains(t, out, "Cidade:               Campinas")
	assert.Contains(t, out, "módulos")
	assert.Contains(t, out, "catalog_scan")
	assert.Contains(t, out, "R$ ")
}

func TestEstimate_UnknownCityUsesDefault(t *testing.T) {
	out, err := execute(t, "estimate", "--city", "Atlantis", "--consumption", "300", "--bill", "200")
	require.NoError(t, err)
	assert.Contains(t, out, "Atlantis (irradiação padrão)")
}

func TestEstimate_JSONOutput(t *testing.T) {
	out, err := execute(t, "estimate", "--city", "Campinas", "--consumption", "500", "--bill", "420", "--kit", "Canadian", "--json")
	require.NoError(t, err)

	var res estimate.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, estimate.PricingSingleKit, res.PricingStrategy)
	assert.Greater(t, res.ModuleCount, 0)
	require.NotNil(t, res.ResolvedKit)
	assert.Equal(t, "Canadian", res.ResolvedKit.ID)
}

func TestEstimate_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing bill", []string{"estimate", "--city", "Campinas", "--consumption", "500"}},
		{"unparseable bill", []string{"estimate", "--city", "Campinas", "--consumption", "500", "--bill", "abc"}},
		{"negative consumption", []string{"estimate", "--city", "Campinas", "--consumption", "-1", "--bill", "100"}},
		{"implausible consumption", []string{"estimate", "--city", "Campinas", "--consumption", "1e22", "--bill", "100"}},
		{"unknown strategy", []string{"estimate", "--city", "Campinas", "--consumption", "500", "--bill", "100", "--pricing", "cheapest"}},
		{"unsupported tables", []string{"estimate", "--city", "Campinas", "--consumption", "500", "--bill", "100", "--tables", "tables.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestTemplateThenValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.xlsx")

	out, err := execute(t, "template", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	out, err = execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid: 8 cities, 5 kits, 8 tariffs")
}

func TestValidate_StructureOnlyOnEmptyTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vazio.xlsx")
	_, err := execute(t, "template", "--empty", "--out", path)
	require.NoError(t, err)

	out, err := execute(t, "validate", "--structure-only", path)
	require.NoError(t, err)
	assert.Contains(t, out, "structure is valid")
}

func TestTemplate_EmptyHasHeaderRowsOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vazio.xlsx")
	_, err := execute(t, "template", "--empty", "--out", path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Cidades", "Inversores", "Tarifas"}, f.GetSheetList())
	rows, err := f.GetRows("Cidades")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestValidate_ReportsProblems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0o644))

	_, err := execute(t, "validate", path)
	assert.Error(t, err)

	_, err = execute(t, "validate")
	assert.Error(t, err, "file argument is required")
}

func TestExportYAMLFeedsEstimate(t *testing.T) {
	dir := t.TempDir()
	workbook := filepath.Join(dir, "dados.xlsx")
	tables := filepath.Join(dir, "tables.yaml")

	_, err := execute(t, "template", "--out", workbook)
	require.NoError(t, err)

	out, err := execute(t, "export", "--tables", workbook, "--out", tables)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 8 cities, 5 kits and 8 tariffs")

	_, err = execute(t, "estimate", "--city", "Campinas", "--consumption", "400", "--bill", "300", "--tables", tables)
	require.NoError(t, err)
}

func TestExport_BuiltinWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dados_solares.xlsx")

	_, err := execute(t, "export", "--out", path)
	require.NoError(t, err)

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
}
