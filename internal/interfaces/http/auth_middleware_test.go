package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/dentalia/insumos-api/internal/interfaces/http"
	pkgjwt "github.com/dentalia/insumos-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testClinicID  = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "insumos-dental-test"
	testExpMin    = 60
)

// fakeChecker implementación mínima del verificador de suscripción.
type fakeChecker struct {
	active map[string]bool
	err    error
}

func (f *fakeChecker) HasActiveSubscription(_ context.Context, clinicID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.active[clinicID], nil
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequireSubscription para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(checker *fakeChecker) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireSubscription(checker),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":        true,
				"clinic_id": apphttp.GetClinicID(c),
			})
		},
	)
	return app
}

// tokenFor genera un JWT para la clínica indicada.
func tokenFor(t *testing.T, clinicID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, clinicID, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireSubscription
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: suscripción activa → debe pasar (HTTP 200).
func TestRequireSubscription_ClinicaActivaAccede(t *testing.T) {
	app := buildTestApp(&fakeChecker{active: map[string]bool{testClinicID: true}})
	resp := doRequest(t, app, tokenFor(t, testClinicID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"una clínica con suscripción vigente debe poder operar")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, testClinicID, body["clinic_id"])
}

// Caso 2: suscripción inactiva → HTTP 403 Forbidden.
func TestRequireSubscription_ClinicaInactivaBloqueada(t *testing.T) {
	app := buildTestApp(&fakeChecker{active: map[string]bool{}})
	resp := doRequest(t, app, tokenFor(t, testClinicID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "SUBSCRIPTION_INACTIVE",
		"la respuesta debe indicar el código SUBSCRIPTION_INACTIVE")
}

// Caso 3: fallo de infraestructura al verificar → HTTP 503, nunca 403.
func TestRequireSubscription_FalloDeInfraEs503(t *testing.T) {
	app := buildTestApp(&fakeChecker{err: errors.New("db caída")})
	resp := doRequest(t, app, tokenFor(t, testClinicID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode,
		"un fallo de DB no debe confundirse con una suscripción vencida")
}

// Caso 4: sin header Authorization → HTTP 401 MISSING_TOKEN.
func TestRequireSubscription_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(&fakeChecker{active: map[string]bool{testClinicID: true}})
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Caso 5: token inválido / malformado → HTTP 401 INVALID_TOKEN.
func TestRequireSubscription_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(&fakeChecker{active: map[string]bool{testClinicID: true}})
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware — extracción de claims del token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":   apphttp.GetUserID(c),
			"clinic_id": apphttp.GetClinicID(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenFor(t, testClinicID))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testClinicID, body["clinic_id"])
}

func TestAuthMiddleware_FormatoIncorrecto(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests JWT pkg — integridad del generate/parse
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testClinicID, testIssuer, testExpMin)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, clinicID, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)

	assert.Equal(t, testUserID, userID)
	assert.Equal(t, testClinicID, clinicID)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	// Token con expiración -1 minuto (ya expirado)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testClinicID, testIssuer, -1)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testClinicID, testIssuer, testExpMin)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}
