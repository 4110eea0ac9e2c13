package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dshills/nhs-mcp/internal/mcp"
	"github.com/dshills/nhs-mcp/internal/middleware"
	"github.com/dshills/nhs-mcp/internal/service"
)

// Config wires the HTTP surface to its dependencies
type Config struct {
	Service *service.Service
	Logger  *slog.Logger

	// MCP mounts the streamable JSON-RPC endpoint at /mcp when set
	MCP *mcp.Server

	// Metrics records HTTP metrics when set
	Metrics *middleware.Metrics

	// Gatherer serves /metrics when set
	Gatherer prometheus.Gatherer

	// ServiceName enables tracing middleware when set
	ServiceName string
}

// Handler serves the REST, SSE and health endpoints
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

// NewHandler creates a Handler
func NewHandler(svc *service.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: svc, logger: logger}
}

// NewRouter builds the HTTP routes and wraps them in the middleware chain
func NewRouter(cfg Config) http.Handler {
	h := NewHandler(cfg.Service, cfg.Logger)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.HandleFunc("GET /ready", h.handleReady)
	mux.HandleFunc("GET /api/health", h.handleServiceHealth)

	mux.HandleFunc("GET /api/organisation-types", h.handleOrganisationTypes)
	mux.HandleFunc("GET /api/postcode/{postcode}", h.handlePostcode)
	mux.HandleFunc("GET /api/search/postcode", h.handleSearchByPostcode)
	mux.HandleFunc("GET /api/search/coordinates", h.handleSearchByCoordinates)
	mux.HandleFunc("GET /api/health-topic/{topic}", h.handleHealthTopic)
	mux.HandleFunc("POST /api/GetContent", h.handleGetContent)
	mux.HandleFunc("GET /api/GetOrganisationTypes", h.handleLegacyOrganisationTypes)
	mux.HandleFunc("POST /api/GetOrganisationTypes", h.handleLegacyOrganisationTypes)
	mux.HandleFunc("POST /api/ConvertPostcode", h.handleConvertPostcode)
	mux.HandleFunc("POST /api/SearchOrganisations", h.handleSearchOrganisations)

	mux.HandleFunc("GET /mcp/tools", h.handleToolCatalogue)
	mux.HandleFunc("GET /mcp/tools/{tool}", h.handleToolStream)
	mux.HandleFunc("POST /mcp/tools/{tool}", h.handleToolStream)

	if cfg.MCP != nil {
		mux.Handle("/mcp", cfg.MCP.HTTPHandler())
	}
	if cfg.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	chain := []func(http.Handler) http.Handler{}
	if cfg.ServiceName != "" {
		chain = append(chain, middleware.Tracing(cfg.ServiceName))
	}
	chain = append(chain, middleware.RequestID, middleware.Logging(h.logger))
	if cfg.Metrics != nil {
		chain = append(chain, middleware.HTTPMetrics(cfg.Metrics))
	}

	return middleware.Chain(mux, chain...)
}
