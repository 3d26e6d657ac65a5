package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/i9-energia/solar-estimator/internal/api/handlers"
	"github.com/i9-energia/solar-estimator/internal/api/middleware"
	"github.com/i9-energia/solar-estimator/internal/api/response"
	"github.com/i9-energia/solar-estimator/internal/catalog"
	"github.com/i9-energia/solar-estimator/internal/config"
	"github.com/i9-energia/solar-estimator/internal/estimate"
	"github.com/i9-energia/solar-estimator/pkg/auth"
)

// NewRouter creates and configures the Gin router with all routes and middleware.
// imports may be nil when the database is disabled.
func NewRouter(cfg *config.Config, store *catalog.Store, imports handlers.ImportStore) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.MaxMultipartMemory = cfg.Upload.MaxFileSize * 3

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.CorrelationMiddleware())
	r.Use(middleware.StructuredLogging())

	// Health check (no auth required)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": middleware.ServiceName,
		})
	})

	engine := estimate.NewEngine(cfg.Engine)

	catalogHandler := handlers.NewCatalogHandler(store)
	estimateHandler := handlers.NewEstimateHandler(store, engine, cfg.Lead)
	tablesHandler := handlers.NewTablesHandler(store, imports, cfg)

	// Public API: the lead form and estimate clients need no account.
	v1 := r.Group("/api/v1")
	{
		v1.GET("/cities", catalogHandler.HandleListCities)
		v1.GET("/kits", catalogHandler.HandleListKits)
		v1.GET("/tariffs", catalogHandler.HandleListTariffs)

		v1.POST("/estimates", estimateHandler.HandleEstimate)
		v1.POST("/leads", estimateHandler.HandleLead)
	}

	// Table administration requires admin or operator role
	admin := v1.Group("/admin/tables")
	admin.Use(middleware.AuthMiddleware(&cfg.JWT))
	admin.Use(middleware.RequireRole(auth.RoleAdmin, auth.RoleOperator))
	{
		admin.POST("", tablesHandler.HandleImport)
		admin.POST("/validate", tablesHandler.HandleValidate)
		admin.GET("/export", tablesHandler.HandleExport)
		admin.GET("/template", tablesHandler.HandleTemplate)
		admin.GET("/stats", tablesHandler.HandleStats)
		admin.POST("/reset", tablesHandler.HandleReset)
		admin.GET("/imports", tablesHandler.HandleListImports)
	}

	// Token generation endpoint (dev only, generates test JWTs)
	if cfg.JWT.DevTokensEnabled {
		r.POST("/dev/token", devTokenHandler(cfg))
	}

	return r
}

// devTokenHandler returns a handler that generates test JWTs for development.
func devTokenHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			UserID string `json:"user_id"`
			Email  string `json:"email"`
			Role   string `json:"role"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "invalid request", err.Error())
			return
		}

		userID := uuid.New()
		if req.UserID != "" {
			parsed, err := uuid.Parse(req.UserID)
			if err != nil {
				response.BadRequest(c, "invalid user_id", nil)
				return
			}
			userID = parsed
		}
		switch req.Role {
		case "":
			req.Role = auth.RoleAdmin
		case auth.RoleAdmin, auth.RoleOperator:
		default:
			response.BadRequest(c, "role must be admin or operator", nil)
			return
		}

		token, err := auth.GenerateToken(cfg.JWT.Secret, cfg.JWT.Issuer, userID, req.Email, req.Role, cfg.JWT.ExpiryHours)
		if err != nil {
			response.InternalError(c, "failed to generate token")
			return
		}

		response.Success(c, http.StatusOK, gin.H{"token": token, "user_id": userID, "role": req.Role})
	}
}
