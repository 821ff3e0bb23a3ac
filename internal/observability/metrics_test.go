package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollectorsAreRegisteredOnce(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	before := testutil.ToFloat64(AuthAttempts().WithLabelValues("success"))
	AuthAttempts().WithLabelValues("success").Inc()
	require.Equal(t, before+1, testutil.ToFloat64(AuthAttempts().WithLabelValues("success")))
}

func TestMetricsHandlerExposesPortalCollectors(t *testing.T) {
	Registrations().WithLabelValues("student").Inc()

	app := fiber.New()
	app.Get("/metrics", MetricsHandler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := new(strings.Builder)
	_, err = io.Copy(body, resp.Body)
	require.NoError(t, err)
	require.Contains(t, body.String(), "portal_registrations_total")
}
