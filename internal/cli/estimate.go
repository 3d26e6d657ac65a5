package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/i9-energia/solar-estimator/internal/config"
	"github.com/i9-energia/solar-estimator/internal/estimate"
	"github.com/i9-energia/solar-estimator/internal/locale"
)

type estimateOptions struct {
	city         string
	consumption  string
	bill         string
	kit          string
	installation string
	pricing      string
	savings      string
	tables       string
	asJSON       bool
}

func newEstimateCmd() *cobra.Command {
	var opts estimateOptions

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate a solar system for one customer",
		Long: `Runs the estimate the lead form shows: system size, module count, price range,
savings, payback and environmental impact. Numbers accept pt-BR notation ("1.234,56").`,
		Example: `  solarctl estimate --city "São Paulo" --consumption 450 --bill 380
  solarctl estimate --city Campinas --consumption 500 --bill 420 --kit Canadian --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEstimate(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.city, "city", "", "customer city (required)")
	cmd.Flags().StringVar(&opts.consumption, "consumption", "", "monthly consumption in kWh (required)")
	cmd.Flags().StringVar(&opts.bill, "bill", "", "monthly energy bill in R$ (required)")
	cmd.Flags().StringVar(&opts.kit, "kit", "", "kit id; prices that kit only")
	cmd.Flags().StringVar(&opts.installation, "installation", "", "residential, commercial, industrial or other")
	cmd.Flags().StringVar(&opts.pricing, "pricing", "", "pricing strategy: single_kit or catalog_scan")
	cmd.Flags().StringVar(&opts.savings, "savings", "", "savings strategy: tariff or bill_ratio")
	cmd.Flags().StringVar(&opts.tables, "tables", "", "lookup tables (.xlsx or .yaml); built-in tables when empty")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the full result as JSON")
	_ = cmd.MarkFlagRequired("city")
	_ = cmd.MarkFlagRequired("consumption")
	_ = cmd.MarkFlagRequired("bill")

	return cmd
}

func (o estimateOptions) input() (estimate.Input, error) {
	consumption, err := locale.ParseNumber(o.consumption)
	if err != nil {
		return estimate.Input{}, fmt.Errorf("--consumption: %w", err)
	}
	bill, err := locale.ParseNumber(o.bill)
	if err != nil {
		return estimate.Input{}, fmt.Errorf("--bill: %w", err)
	}
	if consumption < 0 || bill < 0 {
		return estimate.Input{}, errors.New("--consumption and --bill must not be negative")
	}
	if consumption > estimate.MaxMonthlyConsumptionKwh {
		return estimate.Input{}, fmt.Errorf("--consumption must not exceed %g kWh", float64(estimate.MaxMonthlyConsumptionKwh))
	}
	if bill > estimate.MaxMonthlyBillAmount {
		return estimate.Input{}, fmt.Errorf("--bill must not exceed %g", float64(estimate.MaxMonthlyBillAmount))
	}

	in := estimate.Input{
		CityName:              strings.TrimSpace(o.city),
		MonthlyConsumptionKwh: consumption,
		MonthlyBillAmount:     bill,
		SelectedKitID:         strings.TrimSpace(o.kit),
		InstallationType:      estimate.InstallationType(strings.ToLower(o.installation)),
		PricingStrategy:       estimate.PricingStrategy(o.pricing),
		SavingsStrategy:       estimate.SavingsStrategy(o.savings),
	}
	if !in.InstallationType.Valid() {
		return estimate.Input{}, fmt.Errorf("--installation: unknown type %q", o.installation)
	}
	if !in.PricingStrategy.Valid() {
		return estimate.Input{}, fmt.Errorf("--pricing: unknown strategy %q", o.pricing)
	}
	if !in.SavingsStrategy.Valid() {
		return estimate.Input{}, fmt.Errorf("--savings: unknown strategy %q", o.savings)
	}
	return in, nil
}

func runEstimate(cmd *cobra.Command, opts estimateOptions) error {
	in, err := opts.input()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	tables, err := loadTables(opts.tables)
	if err != nil {
		return err
	}

	res := estimate.NewEngine(cfg.Engine).Calculate(tables, in)

	if opts.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	renderEstimate(cmd.OutOrStdout(), in, res)
	return nil
}

func renderEstimate(w io.Writer, in estimate.Input, res estimate.Result) {
	city := in.CityName
	if res.ResolvedCity != nil {
		city = res.ResolvedCity.Name
	} else {
		city += " (irradiação padrão)"
	}

	fmt.Fprintf(w, "Cidade:               %s\n", city)
	fmt.Fprintf(w, "Potência necessária:  %s kWp\n", locale.FormatDecimal(res.RequiredCapacityKw, 2))
	fmt.Fprintf(w, "Sistema:              %s kWp (%d módulos)\n", locale.FormatDecimal(res.InstalledCapacityKw, 2), res.ModuleCount)
	fmt.Fprintf(w, "Geração mensal:       %s kWh\n", locale.FormatInteger(res.MonthlyGenerationKwh))
	fmt.Fprintf(w, "Faixa de preço:       %s - %s (%s)\n",
		locale.FormatCurrency(res.PriceMin), locale.FormatCurrency(res.PriceMax), res.PricingStrategy)
	fmt.Fprintf(w, "Economia mensal:      %s (%s)\n", locale.FormatCurrency(res.MonthlySavings), res.SavingsStrategy)
	fmt.Fprintf(w, "Economia anual:       %s\n", locale.FormatCurrency(res.AnnualSavings))
	if years, ok := res.PaybackYears.Years(); ok {
		fmt.Fprintf(w, "Retorno:              %s anos\n", locale.FormatDecimal(years, 1))
	} else {
		fmt.Fprintln(w, "Retorno:              indisponível")
	}
	fmt.Fprintf(w, "CO₂ evitado:          %s kg/ano (%s árvores)\n",
		locale.FormatInteger(res.AnnualCo2AvoidedKg), locale.FormatInteger(res.EquivalentTreesPerYear))

	for _, q := range res.KitQuotes {
		fmt.Fprintf(w, "  %-12s %s kWp  %s\n", q.KitID, locale.FormatDecimal(q.InstalledCapacityKw, 2), locale.FormatCurrency(q.Price))
	}
}
