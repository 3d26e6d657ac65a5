package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/i9-energia/solar-estimator/internal/api/response"
	"github.com/i9-energia/solar-estimator/internal/catalog"
	"github.com/i9-energia/solar-estimator/internal/config"
	"github.com/i9-energia/solar-estimator/internal/estimate"
	"github.com/i9-energia/solar-estimator/internal/lead"
	"github.com/i9-energia/solar-estimator/internal/locale"
)

// EstimateHandler runs the estimation engine for API clients and the lead form.
type EstimateHandler struct {
	store   *catalog.Store
	engine  *estimate.Engine
	leadCfg config.LeadConfig
}

// NewEstimateHandler creates a new estimate handler.
func NewEstimateHandler(store *catalog.Store, engine *estimate.Engine, leadCfg config.LeadConfig) *EstimateHandler {
	return &EstimateHandler{store: store, engine: engine, leadCfg: leadCfg}
}

// estimateRequest accepts numbers as JSON numbers or pt-BR strings.
type estimateRequest struct {
	City                  string         `json:"city"`
	MonthlyConsumptionKwh *locale.Number `json:"monthly_consumption_kwh"`
	MonthlyBillAmount     *locale.Number `json:"monthly_bill_amount"`
	KitID                 string         `json:"kit_id"`
	InstallationType      string         `json:"installation_type"`
	PricingStrategy       string         `json:"pricing_strategy"`
	SavingsStrategy       string         `json:"savings_strategy"`
}

func (r estimateRequest) input() (estimate.Input, []lead.FieldProblem) {
	var problems []lead.FieldProblem
	add := func(field, message string) {
		problems = append(problems, lead.FieldProblem{Field: field, Message: message})
	}

	city := strings.TrimSpace(r.City)
	if city == "" {
		add("city", "required")
	}
	amount := func(field string, n *locale.Number, max float64) float64 {
		switch {
		case n == nil:
			add(field, "required")
		case n.Float64() < 0:
			add(field, "must not be negative")
		case n.Float64() > max:
			add(field, fmt.Sprintf("must not exceed %g", max))
		default:
			return n.Float64()
		}
		return 0
	}
	consumption := amount("monthly_consumption_kwh", r.MonthlyConsumptionKwh, estimate.MaxMonthlyConsumptionKwh)
	bill := amount("monthly_bill_amount", r.MonthlyBillAmount, estimate.MaxMonthlyBillAmount)

	installation := estimate.InstallationType(strings.ToLower(strings.TrimSpace(r.InstallationType)))
	if !installation.Valid() {
		add("installation_type", "must be residential, commercial, industrial or other")
	}
	pricing := estimate.PricingStrategy(r.PricingStrategy)
	if !pricing.Valid() {
		add("pricing_strategy", "must be single_kit or catalog_scan")
	}
	savings := estimate.SavingsStrategy(r.SavingsStrategy)
	if !savings.Valid() {
		add("savings_strategy", "must be tariff or bill_ratio")
	}

	return estimate.Input{
		CityName:              city,
		MonthlyConsumptionKwh: consumption,
		MonthlyBillAmount:     bill,
		SelectedKitID:         strings.TrimSpace(r.KitID),
		InstallationType:      installation,
		PricingStrategy:       pricing,
		SavingsStrategy:       savings,
	}, problems
}

// HandleEstimate handles POST /api/v1/estimates.
func (h *EstimateHandler) HandleEstimate(c *gin.Context) {
	var req estimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err.Error())
		return
	}

	in, problems := req.input()
	if len(problems) > 0 {
		response.BadRequest(c, "invalid estimate input", problems)
		return
	}

	// One snapshot per request; a concurrent import never mixes tables mid-calculation.
	result := h.engine.Calculate(h.store.Load(), in)
	response.Success(c, http.StatusOK, result)
}

type leadResponse struct {
	Result      estimate.Result `json:"result"`
	Summary     string          `json:"summary"`
	WhatsAppURL string          `json:"whatsapp_url"`
}

// HandleLead handles POST /api/v1/leads: validates the whole form, runs the
// estimate and returns the consultant message and link.
func (h *EstimateHandler) HandleLead(c *gin.Context) {
	var form lead.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, "invalid request body", err.Error())
		return
	}

	var problems []lead.FieldProblem
	in, err := form.Input()
	problems = appendProblems(problems, err)
	problems = appendProblems(problems, form.ValidateContact())
	if len(problems) > 0 {
		response.BadRequest(c, "invalid lead form", problems)
		return
	}

	result := h.engine.Calculate(h.store.Load(), in)
	summary := lead.Summary(form, result)

	correlationID, _ := c.Get("correlation_id")
	slog.Info("lead received",
		"city", in.CityName,
		"kit_id", in.SelectedKitID,
		"pricing_strategy", result.PricingStrategy,
		"savings_strategy", result.SavingsStrategy,
		"correlation_id", correlationID,
	)

	response.Success(c, http.StatusOK, leadResponse{
		Result:      result,
		Summary:     summary,
		WhatsAppURL: lead.WhatsAppLink(h.leadCfg.WhatsAppBaseURL, h.leadCfg.WhatsAppNumber, summary),
	})
}

func appendProblems(problems []lead.FieldProblem, err error) []lead.FieldProblem {
	var verr *lead.ValidationError
	if errors.As(err, &verr) {
		return append(problems, verr.Problems...)
	}
	return problems
}
