package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"lostfound/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func testVerifier() *TokenVerifier {
	return NewTokenVerifier(&config.Config{
		JWTSecret:   testSecret,
		JWTIssuer:   "lostfound-api",
		JWTAudience: "lostfound-client",
	})
}

func signClaims(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func TestAuthRequired(t *testing.T) {
	v := testVerifier()
	app := fiber.New()
	app.Get("/test", AuthRequired(v), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userID": c.Locals("userID")})
	})

	valid, err := v.Issue(123, time.Hour)
	require.NoError(t, err)

	baseClaims := func() jwt.MapClaims {
		return jwt.MapClaims{
			"sub": strconv.Itoa(123),
			"iss": "lostfound-api",
			"aud": "lostfound-client",
			"exp": time.Now().Add(time.Hour).Unix(),
		}
	}

	expired := baseClaims()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()
	wrongIssuer := baseClaims()
	wrongIssuer["iss"] = "someone-else"
	wrongAudience := baseClaims()
	wrongAudience["aud"] = "other-client"
	badSubject := baseClaims()
	badSubject["sub"] = "not-a-number"
	noExpiry := baseClaims()
	delete(noExpiry, "exp")

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedUserID uint
	}{
		{"happy path", "Bearer " + valid, http.StatusOK, 123},
		{"lowercase scheme", "bearer " + valid, http.StatusOK, 123},
		{"missing header", "", http.StatusUnauthorized, 0},
		{"invalid format", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, 0},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized, 0},
		{"expired", "Bearer " + signClaims(t, jwt.SigningMethodHS256, expired), http.StatusUnauthorized, 0},
		{"wrong issuer", "Bearer " + signClaims(t, jwt.SigningMethodHS256, wrongIssuer), http.StatusUnauthorized, 0},
		{"wrong audience", "Bearer " + signClaims(t, jwt.SigningMethodHS256, wrongAudience), http.StatusUnauthorized, 0},
		{"bad subject", "Bearer " + signClaims(t, jwt.SigningMethodHS256, badSubject), http.StatusUnauthorized, 0},
		{"missing expiry", "Bearer " + signClaims(t, jwt.SigningMethodHS256, noExpiry), http.StatusUnauthorized, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				var body map[string]any
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, float64(tt.expectedUserID), body["userID"])
			}
		})
	}
}

func TestTokenVerifier_RoundTrip(t *testing.T) {
	v := testVerifier()
	token, err := v.Issue(42, time.Minute)
	require.NoError(t, err)

	userID, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)

	other := NewTokenVerifier(&config.Config{JWTSecret: "a-completely-different-secret-value-123", JWTIssuer: "lostfound-api", JWTAudience: "lostfound-client"})
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
