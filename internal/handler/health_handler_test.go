package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/config"
	"github.com/noah-isme/school-portal-api/internal/handler"
)

func TestHealthCheckReportsDatabaseStatus(t *testing.T) {
	cfg := config.Config{AppName: "School Portal API", AppEnv: "test"}

	cases := map[string]handler.Pinger{
		"connected":   func(context.Context) error { return nil },
		"unavailable": func(context.Context) error { return errors.New("refused") },
	}

	for expected, ping := range cases {
		app := fiber.New()
		app.Get("/health", handler.HealthCheck(cfg, ping))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var payload handler.HealthResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		resp.Body.Close()

		require.Equal(t, "OK", payload.Status)
		require.Equal(t, "School Portal API", payload.Service)
		require.Equal(t, "test", payload.Environment)
		require.Equal(t, expected, payload.Database.Status)
		require.False(t, payload.Timestamp.IsZero())
	}
}
