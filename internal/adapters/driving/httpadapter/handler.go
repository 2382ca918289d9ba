package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"productapi/internal/core/domain"
	"productapi/internal/core/service/product"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	DefaultMaxRequestSize = 1024 * 1024 // 1MB max request size

	WelcomeMessage = "Welcome to Shurah Product API!"
	NotFoundPage   = "<h1>404! Page Not Found</h1>"
	CreatedMessage = "Data received & saved"
	DeletedMessage = "Product deleted"
)

type HTTPDeps struct {
	Log          *zap.Logger
	Service      string
	MaxBodyBytes int64

	// Registry enables request metrics; /metrics is only routed when MetricsEnabled is set as well.
	Registry       *prometheus.Registry
	MetricsEnabled bool
}

type Handler struct {
	productService product.Service
	deps           HTTPDeps
}

func NewHandler(svc product.Service, deps HTTPDeps) *Handler {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.MaxBodyBytes <= 0 {
		deps.MaxBodyBytes = DefaultMaxRequestSize
	}

	return &Handler{
		productService: svc,
		deps:           deps,
	}
}

func (h *Handler) SetupRoutes() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(RequestLogger(h.deps.Log))

	if h.deps.Registry != nil {
		metrics := NewMetrics(h.deps.Registry)
		router.Use(metrics.Middleware(h.deps.Service, RoutePatternLabel))

		if h.deps.MetricsEnabled {
			router.Get("/metrics", promhttp.HandlerFor(h.deps.Registry, promhttp.HandlerOpts{}).ServeHTTP)
		}
	}

	// unknown paths and unsupported methods get the same page
	router.NotFound(h.HandleNotFound)
	router.MethodNotAllowed(h.HandleNotFound)

	router.Get("/", h.HandleWelcome)
	router.Get("/products", h.HandleGetProducts)

	// write operations will have size limits
	router.Group(func(r chi.Router) {
		r.Use(RequestSizeLimit(h.deps.MaxBodyBytes)) // enforce MaxBodyBytes limit
		r.Post("/products", h.HandleCreateProduct)
		r.With(RequireQueryParams("id")).Put("/products", h.HandleUpdateProduct)
	})

	router.With(RequireQueryParams("id")).Delete("/products", h.HandleDeleteProduct)

	return router
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		httpStatusCode int
		message        string
		maxBytesErr    *http.MaxBytesError
	)

	switch {

	// Not Found Errors
	case errors.Is(err, product.ErrMissingID):
		httpStatusCode, message = http.StatusNotFound, "Product id is required"
	case errors.Is(err, product.ErrProductNotFound):
		httpStatusCode, message = http.StatusNotFound, "Product not found"

	// Bad Request Errors
	case errors.As(err, &maxBytesErr):
		httpStatusCode, message = http.StatusRequestEntityTooLarge, "Request body too large"
	case errors.Is(err, product.ErrInvalidBody):
		httpStatusCode, message = http.StatusBadRequest, "Invalid JSON"

	// Store Errors
	case errors.Is(err, product.ErrRead):
		httpStatusCode, message = http.StatusInternalServerError, "Failed to read products"
	case errors.Is(err, product.ErrParse):
		httpStatusCode, message = http.StatusInternalServerError, "Failed to parse products"
	case errors.Is(err, product.ErrWrite):
		httpStatusCode, message = http.StatusInternalServerError, "Error saving data"

	// Default to Server Error
	default:
		httpStatusCode, message = http.StatusInternalServerError, "Internal server error"
	}

	if httpStatusCode >= http.StatusInternalServerError {
		h.deps.Log.Error("request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.Error(err),
		)
	}

	http.Error(w, message, httpStatusCode)
}

func (h *Handler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusNotFound)
	io.WriteString(w, NotFoundPage)
}

func (h *Handler) HandleWelcome(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"message": WelcomeMessage})
}

func (h *Handler) HandleGetProducts(w http.ResponseWriter, r *http.Request) {
	var (
		products domain.Collection
		err      error
	)

	// an empty id is the same as no id
	if productID := queryID(r); productID == "" {
		products, err = h.productService.ListProducts(r.Context())
	} else {
		products, err = h.productService.FindProducts(r.Context(), productID)
	}

	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if products == nil {
		products = domain.Collection{}
	}

	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close() // needs to happen before as if decoding below fails and returns, this never happens

	postData, err := decodeObject(r.Body)
	if err != nil {
		h.deps.Log.Info("rejected product body", zap.Error(err))
		h.handleError(w, r, err)
		return
	}

	created, err := h.productService.CreateProduct(r.Context(), postData)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if id, ok := created.ID(); ok {
		w.Header().Set("Location", "/products?id="+id)
	}
	writeText(w, http.StatusCreated, CreatedMessage)
}

func (h *Handler) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	productID := queryID(r)

	putData, err := decodeObject(r.Body)
	if err != nil {
		h.deps.Log.Info("rejected product body", zap.String("id", productID), zap.Error(err))

		// an unparsable update body is a server error, unlike on create
		if errors.Is(err, product.ErrInvalidBody) {
			http.Error(w, "Invalid JSON", http.StatusInternalServerError)
			return
		}
		h.handleError(w, r, err)
		return
	}

	updated, err := h.productService.UpdateProduct(r.Context(), productID, putData)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, updated)
}

func (h *Handler) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := queryID(r)

	removed, err := h.productService.DeleteProduct(r.Context(), productID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if removed == 0 {
		h.handleError(w, r, product.ErrProductNotFound)
		return
	}

	writeText(w, http.StatusOK, DeletedMessage)
}

func queryID(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("id"))
}

// decodeObject reads exactly one JSON object from body.
func decodeObject(body io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(body)

	var raw any
	if err := dec.Decode(&raw); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", product.ErrInvalidBody, err)
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", product.ErrInvalidBody, raw)
	}

	// anything after the object is rejected too
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: trailing data after object", product.ErrInvalidBody)
	}

	return obj, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		h.deps.Log.Error("failed to encode response", zap.Error(err))
	}
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, msg)
}
