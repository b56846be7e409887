package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"retro-hunt/internal/catalog"
	"retro-hunt/internal/model"

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

var testProducts = []model.Product{
	{ID: "2", Title: "Nintendo Game Boy Color", PriceYen: 12000, PriceUSD: 80, Category: model.CategoryGame, Condition: model.ConditionUsed, IsFeatured: true},
	{ID: "1", Title: "Canon AE-1 Program", PriceYen: 25000, PriceUSD: 166, Category: model.CategoryCamera, Condition: model.ConditionNearMint, IsFeatured: true},
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestProductHandler_GetAll(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		method         string
		queryParams    string
		expectedQuery  catalog.Query
		mockReturn     []model.Product
		mockError      error
		expectedStatus int
		expectedCode   string
		expectService  bool
	}{
		{
			name:           "Success with defaults",
			method:         http.MethodGet,
			queryParams:    "",
			expectedQuery:  catalog.Query{Category: model.CategoryAll},
			mockReturn:     testProducts,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Success with search, category and sort",
			method:         http.MethodGet,
			queryParams:    "?q=+canon+&category=Camera&sort=price_desc",
			expectedQuery:  catalog.Query{Search: "canon", Category: model.CategoryCamera, Sort: catalog.SortPriceDesc},
			mockReturn:     testProducts[1:],
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Category all is case insensitive",
			method:         http.MethodGet,
			queryParams:    "?category=ALL",
			expectedQuery:  catalog.Query{Category: model.CategoryAll},
			mockReturn:     testProducts,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Empty result is an empty array",
			method:         http.MethodGet,
			queryParams:    "?q=hasselblad",
			expectedQuery:  catalog.Query{Search: "hasselblad", Category: model.CategoryAll},
			mockReturn:     []model.Product{},
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Invalid category",
			method:         http.MethodGet,
			queryParams:    "?category=Radio",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidCategory,
			expectService:  false,
		},
		{
			name:           "Invalid sort",
			method:         http.MethodGet,
			queryParams:    "?sort=popular",
			expectedQuery:  catalog.Query{Category: model.CategoryAll, Sort: "popular"},
			mockError:      model.ErrInvalidSort,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidSort,
			expectService:  true,
		},
		{
			name:           "Source unavailable",
			method:         http.MethodGet,
			expectedQuery:  catalog.Query{Category: model.CategoryAll},
			mockError:      &model.SourceUnavailableError{Source: "sheets", Err: errors.New("timeout")},
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   model.ErrCodeSourceUnavailable,
			expectService:  true,
		},
		{
			name:           "Missing configuration",
			method:         http.MethodGet,
			expectedQuery:  catalog.Query{Category: model.CategoryAll},
			mockError:      &model.ConfigurationError{Key: "GOOGLE_SHEET_ID"},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   model.ErrCodeConfiguration,
			expectService:  true,
		},
		{
			name:           "Unexpected error",
			method:         http.MethodGet,
			expectedQuery:  catalog.Query{Category: model.CategoryAll},
			mockError:      errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   model.ErrCodeInternalError,
			expectService:  true,
		},
		{
			name:           "Method not allowed",
			method:         http.MethodPost,
			expectedStatus: http.StatusMethodNotAllowed,
			expectedCode:   model.ErrCodeMethodNotAllowed,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			handler := NewProductHandler(mockService, logger)

			if tt.expectService {
				mockService.On("List", mock.Anything, tt.expectedQuery).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(tt.method, "/api/products"+tt.queryParams, nil)
			w := httptest.NewRecorder()
			w.Header().Set(RequestIDHeader, "req-123")

			handler.GetAll(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			if tt.expectedCode != "" {
				resp := decodeError(t, w)
				assert.Equal(t, tt.expectedCode, resp.Error)
				assert.NotEmpty(t, resp.Message)
				assert.Equal(t, "req-123", resp.CorrelationID)
			} else {
				var products []model.Product
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
				assert.Len(t, products, len(tt.mockReturn))
				assert.NotNil(t, products)
			}

			mockService.AssertExpectations(t)
		})
	}
}

func TestProductHandler_GetAll_ResponseShape(t *testing.T) {
	mockService := new(MockProductService)
	mockService.On("List", mock.Anything, mock.Anything).Return(testProducts[1:], nil)

	handler := NewProductHandler(mockService, zerolog.Nop())
	w := httptest.NewRecorder()
	handler.GetAll(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{
		"id": "1",
		"title": "Canon AE-1 Program",
		"description": "",
		"priceYen": 25000,
		"priceUsd": 166,
		"imageUrl": "",
		"affiliateLink": "",
		"category": "Camera",
		"condition": "Near Mint",
		"isFeatured": true
	}]`, w.Body.String())
}

func TestProductHandler_Featured(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		queryParams    string
		expectedLimit  int
		expectedStatus int
		expectService  bool
	}{
		{name: "Default limit", queryParams: "", expectedLimit: 0, expectedStatus: http.StatusOK, expectService: true},
		{name: "Custom limit", queryParams: "?limit=2", expectedLimit: 2, expectedStatus: http.StatusOK, expectService: true},
		{name: "Invalid limit", queryParams: "?limit=four", expectedStatus: http.StatusBadRequest},
		{name: "Zero limit", queryParams: "?limit=0", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			handler := NewProductHandler(mockService, logger)

			if tt.expectService {
				mockService.On("GetFeatured", mock.Anything, tt.expectedLimit).Return(testProducts, nil)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/products/featured"+tt.queryParams, nil)
			w := httptest.NewRecorder()

			handler.Featured(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if !tt.expectService {
				assert.Equal(t, model.ErrCodeInvalidLimit, decodeError(t, w).Error)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestProductHandler_GetByID(t *testing.T) {
	logger := zerolog.Nop()
	camera := testProducts[1]
	related := []model.Product{{ID: "4", Title: "Contax T2", Category: model.CategoryCamera}}

	tests := []struct {
		name           string
		path           string
		productID      string
		mockReturn     *model.Product
		mockError      error
		expectedStatus int
		expectService  bool
		expectRelated  bool
	}{
		{
			name:           "Success",
			path:           "/api/products/1",
			productID:      "1",
			mockReturn:     &camera,
			expectedStatus: http.StatusOK,
			expectService:  true,
			expectRelated:  true,
		},
		{
			name:           "Trailing slash",
			path:           "/api/products/1/",
			productID:      "1",
			mockReturn:     &camera,
			expectedStatus: http.StatusOK,
			expectService:  true,
			expectRelated:  true,
		},
		{
			name:           "Product not found",
			path:           "/api/products/99",
			productID:      "99",
			mockError:      model.ErrProductNotFound,
			expectedStatus: http.StatusNotFound,
			expectService:  true,
		},
		{
			name:           "Source unavailable",
			path:           "/api/products/1",
			productID:      "1",
			mockError:      &model.SourceUnavailableError{Source: "sheets", Err: errors.New("403")},
			expectedStatus: http.StatusServiceUnavailable,
			expectService:  true,
		},
		{
			name:           "Missing product ID",
			path:           "/api/products/",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
		{
			name:           "Nested path",
			path:           "/api/products/1/reviews",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			handler := NewProductHandler(mockService, logger)

			if tt.expectService {
				mockService.On("GetByID", mock.Anything, tt.productID).Return(tt.mockReturn, tt.mockError)
			}
			if tt.expectRelated {
				mockService.On("GetRelated", mock.Anything, *tt.mockReturn, 3).Return(related, nil)
			}

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			handler.GetByID(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var detail model.ProductDetail
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
				assert.Equal(t, camera, detail.Product)
				assert.Equal(t, related, detail.Related)
			}

			mockService.AssertExpectations(t)
		})
	}
}

func TestProductHandler_Redirect(t *testing.T) {
	logger := zerolog.Nop()
	link := "https://buyee.jp/item/yahoo/auction/x987654321?lang=en"

	tests := []struct {
		name             string
		path             string
		productID        string
		mockReturn       string
		mockError        error
		expectedStatus   int
		expectedLocation string
		expectService    bool
	}{
		{
			name:             "Redirects to affiliate link",
			path:             "/go/1",
			productID:        "1",
			mockReturn:       link,
			expectedStatus:   http.StatusFound,
			expectedLocation: link,
			expectService:    true,
		},
		{
			name:           "No affiliate link",
			path:           "/go/4",
			productID:      "4",
			mockError:      model.ErrNoAffiliateLink,
			expectedStatus: http.StatusNotFound,
			expectService:  true,
		},
		{
			name:           "Unknown product",
			path:           "/go/404",
			productID:      "404",
			mockError:      model.ErrProductNotFound,
			expectedStatus: http.StatusNotFound,
			expectService:  true,
		},
		{
			name:           "Missing product ID",
			path:           "/go/",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			handler := NewProductHandler(mockService, logger)

			if tt.expectService {
				mockService.On("ResolveOutbound", mock.Anything, tt.productID).Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			handler.Redirect(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedLocation, w.Header().Get("Location"))
			mockService.AssertExpectations(t)
		})
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		raw      string
		expected model.Category
		ok       bool
	}{
		{raw: "", expected: model.CategoryAll, ok: true},
		{raw: "all", expected: model.CategoryAll, ok: true},
		{raw: "All", expected: model.CategoryAll, ok: true},
		{raw: "Camera", expected: model.CategoryCamera, ok: true},
		{raw: " Watch ", expected: model.CategoryWatch, ok: true},
		{raw: "camera", expected: model.Category("camera"), ok: false},
		{raw: "Radio", expected: model.Category("Radio"), ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			category, ok := parseCategory(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, category)
		})
	}
}
