package insurance

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"net/url"
	"testing"

	"listing-sync/feature/encar"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, *mockFetcher) {
	fetcher := &mockFetcher{}
	svc, err := NewService(fetcher, strict, 1, zap.NewNop())
	require.NoError(t, err)

	app := fiber.New()
	NewHandler(svc).RegisterRoutes(app)
	return app, fetcher
}

func TestHandleCheck(t *testing.T) {
	app, fetcher := setupTestApp(t)
	fetcher.On("FetchInsurance", mock.Anything, "100").Return(history("정상", 0), nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/insurance/100", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "100", body["car_id"])
	assert.Equal(t, "passed", body["label"])
}

func TestHandleCheck_QueryConditions(t *testing.T) {
	app, fetcher := setupTestApp(t)
	fetcher.On("FetchInsurance", mock.Anything, "100").Return(history("정상", 2), nil)

	path := "/insurance/100?conditions=" + url.QueryEscape("owner_changed>=2")
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "passed", body["label"])
}

func TestHandleCheck_Errors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{"Bad conditions", "/insurance/1?conditions=" + url.QueryEscape("colour==red"), nil, fiber.StatusBadRequest},
		{"Marketplace status", "/insurance/2", &encar.StatusError{URL: "x", Code: 503}, fiber.StatusBadGateway},
		{"Missing summary", "/insurance/3", fmt.Errorf("parse: %w", encar.ErrNoInsuranceData), fiber.StatusBadGateway},
		{"Other", "/insurance/4", assert.AnError, fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, fetcher := setupTestApp(t)
			fetcher.On("FetchInsurance", mock.Anything, mock.Anything).Return(nil, tt.err)

			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestLoader(t *testing.T) {
	svc, err := NewService(&mockFetcher{}, nil, 1, zap.NewNop())
	require.NoError(t, err)

	feature := NewFeature(svc)
	assert.Equal(t, "insurance", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NoError(t, feature.Load(fiber.New()))
}
