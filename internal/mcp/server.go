package mcp

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/nhs-mcp/internal/service"
)

const (
	// ServerName is the MCP server name
	ServerName = "nhs-uk-mcp-server"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp     *server.MCPServer
	service *service.Service
	logger  *slog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(svc *service.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	s := &Server{
		mcp:     mcpServer,
		service: svc,
		logger:  logger,
	}

	s.registerTools()

	return s
}

// Serve runs the MCP protocol over stdio and blocks until ctx is cancelled
// or stdin closes
func (s *Server) Serve(ctx context.Context) error {
	return s.ServeIO(ctx, os.Stdin, os.Stdout)
}

// ServeIO runs the MCP protocol over the given streams
func (s *Server) ServeIO(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))
	return stdio.Listen(ctx, in, out)
}

// HTTPHandler serves JSON-RPC over streamable HTTP. Each request is handled
// without a session
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp, server.WithStateLess(true))
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(getOrganisationTypesTool(), s.handleGetOrganisationTypes)
	s.mcp.AddTool(convertPostcodeTool(), s.handleConvertPostcode)
	s.mcp.AddTool(searchByPostcodeTool(), s.handleSearchByPostcode)
	s.mcp.AddTool(searchByCoordinatesTool(), s.handleSearchByCoordinates)
	s.mcp.AddTool(getHealthTopicTool(), s.handleGetHealthTopic)
}
