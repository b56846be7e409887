package handler

import (
	"net/http"
	"strconv"
	"strings"

	"retro-hunt/internal/catalog"
	"retro-hunt/internal/model"
	"retro-hunt/internal/service"

	"github.com/rs/zerolog"
)

const (
	productsPath = "/api/products/"
	outboundPath = "/go/"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// GetAll handles GET /api/products requests with search, category and sort.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	if methodNotAllowed(w, r, h.logger) {
		return
	}

	query := r.URL.Query()

	category, ok := parseCategory(query.Get("category"))
	if !ok {
		writeServiceError(w, model.ErrInvalidCategory, h.logger)
		return
	}

	q := catalog.Query{
		Search:   strings.TrimSpace(query.Get("q")),
		Category: category,
		Sort:     catalog.SortMode(query.Get("sort")),
	}

	products, err := h.service.List(r.Context(), q)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// Featured handles GET /api/products/featured requests.
func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	if methodNotAllowed(w, r, h.logger) {
		return
	}

	limit := 0 // service default
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			writeServiceError(w, model.ErrInvalidLimit, h.logger)
			return
		}
	}

	products, err := h.service.GetFeatured(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id} requests. The response carries the
// product and a sample of related products from the same category.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if methodNotAllowed(w, r, h.logger) {
		return
	}

	productID, ok := pathID(r.URL.Path, productsPath)
	if !ok {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingProductID, "product ID is required", h.logger)
		return
	}

	product, err := h.service.GetByID(r.Context(), productID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	related, err := h.service.GetRelated(r.Context(), *product, service.DefaultRelatedLimit)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.ProductDetail{
		Product: *product,
		Related: related,
	})
}

// Redirect handles GET /go/{id} by sending the visitor to the affiliate link.
func (h *ProductHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	if methodNotAllowed(w, r, h.logger) {
		return
	}

	productID, ok := pathID(r.URL.Path, outboundPath)
	if !ok {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingProductID, "product ID is required", h.logger)
		return
	}

	link, err := h.service.ResolveOutbound(r.Context(), productID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	http.Redirect(w, r, link, http.StatusFound)
}

// parseCategory accepts the stored category names and any casing of "all".
func parseCategory(raw string) (model.Category, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, string(model.CategoryAll)) {
		return model.CategoryAll, true
	}

	category := model.Category(raw)
	return category, category.Valid()
}

// pathID extracts the single path segment after prefix.
func pathID(path, prefix string) (string, bool) {
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}

	id := strings.TrimSuffix(path[len(prefix):], "/")
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
