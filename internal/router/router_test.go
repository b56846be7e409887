package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"retro-hunt/internal/catalog"
	"retro-hunt/internal/handler"
	"retro-hunt/internal/model"
	"retro-hunt/internal/requestcache"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) List(ctx context.Context, q catalog.Query) ([]model.Product, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) GetFeatured(ctx context.Context, limit int) ([]model.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetRelated(ctx context.Context, product model.Product, limit int) ([]model.Product, error) {
	args := m.Called(ctx, product, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) ResolveOutbound(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

// hasRequestCache matches contexts prepared by the request scope middleware.
var hasRequestCache = mock.MatchedBy(func(ctx context.Context) bool {
	return requestcache.FromContext(ctx) != nil
})

func TestRouter(t *testing.T) {
	product := model.Product{ID: "1", Title: "Canon AE-1 Program", Category: model.CategoryCamera}

	tests := []struct {
		name           string
		method         string
		path           string
		apiKey         string
		setup          func(m *MockProductService)
		expectedStatus int
	}{
		{
			name:           "Health check",
			method:         http.MethodGet,
			path:           "/health",
			expectedStatus: http.StatusOK,
		},
		{
			name:   "List products",
			method: http.MethodGet,
			path:   "/api/products?category=Camera",
			setup: func(m *MockProductService) {
				m.On("List", hasRequestCache, catalog.Query{Category: model.CategoryCamera}).
					Return([]model.Product{product}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Featured products",
			method: http.MethodGet,
			path:   "/api/products/featured",
			setup: func(m *MockProductService) {
				m.On("GetFeatured", hasRequestCache, 0).Return([]model.Product{product}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Product detail",
			method: http.MethodGet,
			path:   "/api/products/1",
			setup: func(m *MockProductService) {
				m.On("GetByID", hasRequestCache, "1").Return(&product, nil)
				m.On("GetRelated", hasRequestCache, product, 3).Return([]model.Product{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Outbound redirect",
			method: http.MethodGet,
			path:   "/go/1",
			setup: func(m *MockProductService) {
				m.On("ResolveOutbound", hasRequestCache, "1").Return("https://ebay.com/itm/example-canon-ae1", nil)
			},
			expectedStatus: http.StatusFound,
		},
		{
			name:           "Unknown route",
			method:         http.MethodGet,
			path:           "/api/orders",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Preflight",
			method:         http.MethodOptions,
			path:           "/api/products",
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "API key required when configured",
			method:         http.MethodGet,
			path:           "/api/products",
			apiKey:         "secret",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "Outbound redirect is public when key configured",
			method: http.MethodGet,
			path:   "/go/1",
			apiKey: "secret",
			setup: func(m *MockProductService) {
				m.On("ResolveOutbound", hasRequestCache, "1").Return("https://ebay.com/itm/example-canon-ae1", nil)
			},
			expectedStatus: http.StatusFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			if tt.setup != nil {
				tt.setup(mockService)
			}

			logger := zerolog.Nop()
			h := New(handler.NewProductHandler(mockService, logger), tt.apiKey, logger)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
			mockService.AssertExpectations(t)
		})
	}
}

func TestRouter_ErrorCarriesCorrelationID(t *testing.T) {
	mockService := new(MockProductService)
	mockService.On("GetByID", mock.Anything, "99").Return(nil, model.ErrProductNotFound)

	logger := zerolog.Nop()
	h := New(handler.NewProductHandler(mockService, logger), "", logger)

	req := httptest.NewRequest(http.MethodGet, "/api/products/99", nil)
	req.Header.Set("X-Request-ID", "trace-me")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.ErrCodeProductNotFound, resp.Error)
	assert.Equal(t, "trace-me", resp.CorrelationID)
}
