// Package lead turns the prospect form into an estimation input and builds the
// message handed to a human consultant.
package lead

import (
	"fmt"
	"strings"

	"github.com/i9-energia/solar-estimator/internal/estimate"
	"github.com/i9-energia/solar-estimator/internal/locale"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

const (
	// ErrRequiredField reports a blank required form field.
	ErrRequiredField = constError("required field missing")

	// ErrInvalidField reports a field that is present but unusable.
	ErrInvalidField = constError("invalid field")
)

// FieldProblem is one rejected form field.
type FieldProblem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	err     error
}

// ValidationError lists every rejected field of a form submission.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = fmt.Sprintf("%s: %s", p.Field, p.Message)
	}
	return "form rejected: " + strings.Join(parts, "; ")
}

// Is matches ErrRequiredField or ErrInvalidField when any problem is of that kind.
func (e *ValidationError) Is(target error) bool {
	for _, p := range e.Problems {
		if p.err == target {
			return true
		}
	}
	return false
}

func (e *ValidationError) required(field string) {
	e.Problems = append(e.Problems, FieldProblem{Field: field, Message: "campo obrigatório", err: ErrRequiredField})
}

func (e *ValidationError) invalid(field, message string) {
	e.Problems = append(e.Problems, FieldProblem{Field: field, Message: message, err: ErrInvalidField})
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

// Form is the prospect form exactly as typed: numbers are free text in pt-BR
// or en-US notation.
type Form struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	WhatsApp           string `json:"whatsapp"`
	City               string `json:"city"`
	EnergyBill         string `json:"energy_bill"`
	MonthlyConsumption string `json:"monthly_consumption"`
	KitID              string `json:"kit_id,omitempty"`
	InstallationType   string `json:"installation_type,omitempty"`
}

// Input validates the consumption step (city, bill and consumption are
// required, numbers must be non-negative) and builds the estimation input.
func (f Form) Input() (estimate.Input, error) {
	verr := &ValidationError{}

	city := strings.TrimSpace(f.City)
	if city == "" {
		verr.required("city")
	}
	bill := parseAmount(verr, "energy_bill", f.EnergyBill, estimate.MaxMonthlyBillAmount)
	consumption := parseAmount(verr, "monthly_consumption", f.MonthlyConsumption, estimate.MaxMonthlyConsumptionKwh)

	installation := estimate.InstallationType(strings.ToLower(strings.TrimSpace(f.InstallationType)))
	if !installation.Valid() {
		verr.invalid("installation_type", fmt.Sprintf("tipo de instalação desconhecido: %q", f.InstallationType))
	}

	if err := verr.orNil(); err != nil {
		return estimate.Input{}, err
	}

	return estimate.Input{
		CityName:              city,
		MonthlyConsumptionKwh: consumption,
		MonthlyBillAmount:     bill,
		SelectedKitID:         strings.TrimSpace(f.KitID),
		InstallationType:      installation,
	}, nil
}

// ValidateContact checks the contact step: name, e-mail and WhatsApp are required.
func (f Form) ValidateContact() error {
	verr := &ValidationError{}

	if strings.TrimSpace(f.Name) == "" {
		verr.required("name")
	}
	switch email := strings.TrimSpace(f.Email); {
	case email == "":
		verr.required("email")
	case !strings.Contains(email, "@"):
		verr.invalid("email", "e-mail inválido")
	}
	if strings.TrimSpace(f.WhatsApp) == "" {
		verr.required("whatsapp")
	} else if len(Digits(f.WhatsApp)) < 10 {
		verr.invalid("whatsapp", "número de WhatsApp inválido")
	}

	return verr.orNil()
}

func parseAmount(verr *ValidationError, field, raw string, max float64) float64 {
	if strings.TrimSpace(raw) == "" {
		verr.required(field)
		return 0
	}
	v, err := locale.ParseNumber(raw)
	if err != nil {
		verr.invalid(field, fmt.Sprintf("valor numérico inválido: %q", raw))
		return 0
	}
	if v < 0 {
		verr.invalid(field, "o valor não pode ser negativo")
		return 0
	}
	if v > max {
		verr.invalid(field, "valor acima do limite aceito: "+locale.FormatInteger(max))
		return 0
	}
	return v
}

// Digits keeps only the ASCII digits of s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
