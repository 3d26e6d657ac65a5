package lead

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/i9-energia/solar-estimator/internal/estimate"
	"github.com/i9-energia/solar-estimator/internal/locale"
)

// Summary builds the pt-BR message sent to the consultant.
func Summary(form Form, res estimate.Result) string {
	var b strings.Builder

	b.WriteString("Olá! Gostaria de falar com um consultor sobre energia solar.\n\n")
	fmt.Fprintf(&b, "🏠 Nome: %s\n", strings.TrimSpace(form.Name))
	fmt.Fprintf(&b, "📍 Cidade: %s\n", strings.TrimSpace(form.City))
	fmt.Fprintf(&b, "⚡ Consumo: %s kWh/mês\n", formatTyped(form.MonthlyConsumption, locale.FormatInteger))
	fmt.Fprintf(&b, "💰 Conta de luz: %s\n\n", formatTyped(form.EnergyBill, locale.FormatCurrency))

	fmt.Fprintf(&b, "🌞 Potencial de geração: %s kWh/mês\n", locale.FormatInteger(res.MonthlyGenerationKwh))
	fmt.Fprintf(&b, "🔆 Sistema: %s kWp (%d módulos)\n", locale.FormatDecimal(res.InstalledCapacityKw, 2), res.ModuleCount)
	fmt.Fprintf(&b, "💵 Faixa de preço: R$ %s - R$ %s\n", locale.FormatThousands(res.PriceMin), locale.FormatThousands(res.PriceMax))
	fmt.Fprintf(&b, "📉 Economia mensal: %s\n", locale.FormatCurrency(res.MonthlySavings))
	if years, ok := res.PaybackYears.Years(); ok {
		fmt.Fprintf(&b, "⏳ Retorno do investimento: %s anos\n", locale.FormatDecimal(years, 1))
	} else {
		b.WriteString("⏳ Retorno do investimento: indisponível\n")
	}
	fmt.Fprintf(&b, "🌳 CO₂ evitado: %s kg/ano (%s árvores)",
		locale.FormatInteger(res.AnnualCo2AvoidedKg), locale.FormatInteger(res.EquivalentTreesPerYear))

	return b.String()
}

// formatTyped reformats a user-typed number, or echoes it when it does not parse.
func formatTyped(raw string, format func(float64) string) string {
	v, err := locale.ParseNumber(raw)
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return format(v)
}

// WhatsAppLink builds a click-to-chat link: <baseURL>/<number>?text=<message>.
// Non-digits are stripped from the number; spaces are encoded as %20.
func WhatsAppLink(baseURL, number, message string) string {
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return fmt.Sprintf("%s/%s?text=%s", strings.TrimRight(baseURL, "/"), Digits(number), text)
}
