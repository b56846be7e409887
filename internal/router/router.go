// Package router assembles the storefront API: routes plus the middleware chain.
package router

import (
	"net/http"

	"retro-hunt/internal/handler"
	"retro-hunt/internal/middleware"

	"github.com/rs/zerolog"
)

const (
	productsPath = "/api/products"
	featuredPath = "/api/products/featured"
	outboundPath = "/go/"
	healthPath   = "/health"
)

// New creates the API handler. Middleware runs outermost first:
// Recovery, RequestScope, Logging, CORS, APIKeyAuth.
func New(productHandler *handler.ProductHandler, apiKey string, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(healthPath, health)

	products := productRoutes(productHandler)
	mux.HandleFunc(productsPath, products)
	mux.HandleFunc(productsPath+"/", products)

	mux.HandleFunc(outboundPath, productHandler.Redirect)

	return chain(mux,
		middleware.Recovery(logger),
		middleware.RequestScope,
		middleware.Logging(logger),
		middleware.CORS,
		middleware.APIKeyAuth(apiKey, logger),
	)
}

// productRoutes dispatches the /api/products tree: the list, the featured
// carousel and single product pages.
func productRoutes(h *handler.ProductHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case productsPath, productsPath + "/":
			h.GetAll(w, r)
		case featuredPath, featuredPath + "/":
			h.Featured(w, r)
		default:
			h.GetByID(w, r)
		}
	}
}

func health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy"}`))
}

// chain wraps h so that the first middleware is the outermost.
func chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
