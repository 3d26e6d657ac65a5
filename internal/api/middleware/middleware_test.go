package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i9-energia/solar-estimator/internal/config"
	"github.com/i9-energia/solar-estimator/pkg/auth"
)

const testSecret = "test-secret-key-for-middleware-tests"
const testIssuer = "test-issuer"

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Secret:      testSecret,
		Issuer:      testIssuer,
		ExpiryHours: 24,
	}
}

func setupRouter(jwtCfg *config.JWTConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware())
	r.Use(CorrelationMiddleware())
	return r
}

func generateTestToken(userID uuid.UUID, role string) string {
	token, _ := auth.GenerateToken(testSecret, testIssuer, userID, "ops@example.com", role, 24)
	return token
}

// ---------------------------------------------------------------------------
// Auth middleware
// ---------------------------------------------------------------------------

func TestAuthMiddleware_ValidToken(t *testing.T) {
	cfg := testJWTConfig()
	r := setupRouter(cfg)

	userID := uuid.New()

	var capturedUserID uuid.UUID
	var capturedRole, capturedEmail string

	r.GET("/test", AuthMiddleware(cfg), func(c *gin.Context) {
		capturedUserID = c.MustGet("user_id").(uuid.UUID)
		capturedRole = c.MustGet("role").(string)
		capturedEmail = c.MustGet("email").(string)
		c.JSON(200, gin.H{"ok": true})
	})

	token := generateTestToken(userID, auth.RoleAdmin)
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, userID, capturedUserID, "user_id should be extracted from JWT")
	assert.Equal(t, auth.RoleAdmin, capturedRole)
	assert.Equal(t, "ops@example.com", capturedEmail)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	cfg := testJWTConfig()
	r := setupRouter(cfg)
	r.GET("/test", AuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	cfg := testJWTConfig()
	r := setupRouter(cfg)
	r.GET("/test", AuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer totally-bogus-token")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	r := setupRouter(cfg)
	r.GET("/test", AuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	// Generate token with a different secret
	token, err := auth.GenerateToken("wrong-secret", testIssuer, uuid.New(), "", auth.RoleAdmin, 24)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
}

func TestAuthMiddleware_MalformedAuthorizationHeader(t *testing.T) {
	cfg := testJWTConfig()
	r := setupRouter(cfg)
	r.GET("/test", AuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	// No "Bearer " prefix
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Basic abc123")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
}

// ---------------------------------------------------------------------------
// RBAC middleware
// ---------------------------------------------------------------------------

func TestRequireRole_AllowedRole(t *testing.T) {
	cfg := testJWTConfig()
	r := setupRouter(cfg)

	r.GET("/admin-only",
		AuthMiddleware(cfg),
		RequireRole(auth.RoleAdmin),
		func(c *gin.Context) {
			c.JSON(200, gin.H{"ok": true})
		},
	)

	token := generateTestToken(uuid.New(), auth.RoleAdmin)
	req := httptest.NewRequest("GET", "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
}

func TestRequireRole_DeniedRole(t *testing.T) {
	cfg := testJWTConfig()
	r := setupRouter(cfg)

	r.GET("/admin-only",
		AuthMiddleware(cfg),
		RequireRole(auth.RoleAdmin),
		func(c *gin.Context) {
			c.JSON(200, gin.H{"ok": true})
		},
	)

	token := generateTestToken(uuid.New(), auth.RoleOperator)
	req := httptest.NewRequest("GET", "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, 403, w.Code)
}

func TestRequireRole_MultipleAllowedRoles(t *testing.T) {
	cfg := testJWTConfig()
	r := setupRouter(cfg)

	r.GET("/data",
		AuthMiddleware(cfg),
		RequireRole(auth.RoleAdmin, auth.RoleOperator),
		func(c *gin.Context) {
			c.JSON(200, gin.H{"ok": true})
		},
	)

	tests := []struct {
		role     string
		wantCode int
	}{
		{auth.RoleAdmin, 200},
		{auth.RoleOperator, 200},
		{"viewer", 403},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			token := generateTestToken(uuid.New(), tt.role)
			req := httptest.NewRequest("GET", "/data", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code, "role=%s", tt.role)
		})
	}
}

// ---------------------------------------------------------------------------
// CORS middleware
// ---------------------------------------------------------------------------

func TestCORSMiddleware_SetsHeaders(t *testing.T) {
	r := setupRouter(testJWTConfig())
	r.GET("/test", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Correlation-ID")
}

func TestCORSMiddleware_PreflightOptions(t *testing.T) {
	r := setupRouter(testJWTConfig())
	r.GET("/test", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest("OPTIONS", "/test", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, 204, w.Code, "OPTIONS preflight should return 204 No Content")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

// ---------------------------------------------------------------------------
// Correlation middleware
// ---------------------------------------------------------------------------

func TestCorrelationMiddleware_GeneratesID(t *testing.T) {
	r := setupRouter(testJWTConfig())
	r.GET("/test", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	corrID := w.Header().Get("X-Correlation-ID")
	assert.NotEmpty(t, corrID, "should generate a correlation ID")

	// Should be a valid UUID
	_, err := uuid.Parse(corrID)
	assert.NoError(t, err, "correlation ID should be a valid UUID")
}

func TestCorrelationMiddleware_PreservesExistingID(t *testing.T) {
	r := setupRouter(testJWTConfig())
	r.GET("/test", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	customID := "my-custom-correlation-id"
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Correlation-ID", customID)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, customID, w.Header().Get("X-Correlation-ID"),
		"should preserve the client-supplied correlation ID")
}

func TestCorrelationMiddleware_ReplacesUnusableID(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"too long", strings.Repeat("a", 129)},
		{"contains spaces", "lead 42"},
		{"non ascii", "importação-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(testJWTConfig())
			var seen string
			r.GET("/test", func(c *gin.Context) {
				seen = c.GetString(CorrelationKey)
				c.JSON(200, gin.H{"ok": true})
			})

			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set(CorrelationHeader, tt.id)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get(CorrelationHeader)
			assert.NotEqual(t, tt.id, got)
			assert.Equal(t, got, seen)
			_, err := uuid.Parse(got)
			assert.NoError(t, err)
		})
	}
}

func TestAuthMiddleware_ExpiredTokenBlocked(t *testing.T) {
	cfg := testJWTConfig()
	r := setupRouter(cfg)
	r.GET("/test", AuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	token, err := auth.GenerateToken(testSecret, testIssuer, uuid.New(), "", auth.RoleAdmin, -1)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestRequireRole_NoAuthContext(t *testing.T) {
	r := setupRouter(testJWTConfig())
	r.GET("/admin-only", RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest("GET", "/admin-only", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, 403, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}

// ---------------------------------------------------------------------------
// Logging middleware
// ---------------------------------------------------------------------------

func TestLoggingMiddleware_RecordsRequest(t *testing.T) {
	cfg := testJWTConfig()
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buf, nil))

	r := setupRouter(cfg)
	r.Use(LoggingMiddleware(logger, ServiceName))
	r.GET("/secure", AuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	r.GET("/missing", func(c *gin.Context) {
		c.JSON(404, gin.H{"ok": false})
	})

	userID := uuid.New()
	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+generateTestToken(userID, auth.RoleAdmin))
	req.Header.Set("X-Correlation-ID", "corr-log-1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "request processed", record["msg"])
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, ServiceName, record["service"])
	assert.Equal(t, "/secure", record["path"])
	assert.Equal(t, float64(200), record["status_code"])
	assert.Equal(t, "success", record["outcome"])
	assert.Equal(t, "corr-log-1", record["correlation_id"])
	assert.Equal(t, userID.String(), record["user_id"])

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "client_error", record["outcome"])
}
