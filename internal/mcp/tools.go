package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/nhs-mcp/internal/service"
	"github.com/dshills/nhs-mcp/pkg/types"
)

// ErrorCodeInvalidParams is the JSON-RPC code for arguments that are not an object
const ErrorCodeInvalidParams = -32602

// handleGetOrganisationTypes handles the get_organisation_types tool invocation
func (s *Server) handleGetOrganisationTypes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.toolResult(ctx, request, types.OrganisationTypeMap(), nil)
}

// handleConvertPostcode handles the convert_postcode_to_coordinates tool invocation
func (s *Server) handleConvertPostcode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := NewArgs(request.Params.Arguments)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	result, err := s.service.Geocode(ctx, args.String("postcode", ""))
	return s.toolResult(ctx, request, result, err)
}

// handleSearchByPostcode handles the search_organisations_by_postcode tool invocation
func (s *Server) handleSearchByPostcode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := NewArgs(request.Params.Arguments)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	req, err := SearchByPostcodeArgs(args)
	if err != nil {
		return s.toolResult(ctx, request, nil, err)
	}

	result, err := s.service.SearchByPostcode(ctx, req)
	return s.toolResult(ctx, request, result, err)
}

// handleSearchByCoordinates handles the search_organisations_by_coordinates tool invocation
func (s *Server) handleSearchByCoordinates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := NewArgs(request.Params.Arguments)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	req, err := SearchByPointArgs(args)
	if err != nil {
		return s.toolResult(ctx, request, nil, err)
	}

	result, err := s.service.SearchByPoint(ctx, req)
	return s.toolResult(ctx, request, result, err)
}

// handleGetHealthTopic handles the get_health_topic tool invocation
func (s *Server) handleGetHealthTopic(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := NewArgs(request.Params.Arguments)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	result, err := s.service.HealthTopic(ctx, args.String("topic", ""))
	return s.toolResult(ctx, request, result, err)
}

// SearchByPostcodeArgs builds a postcode search request from tool arguments
func SearchByPostcodeArgs(args Args) (service.SearchByPostcodeRequest, error) {
	maxResults, err := args.Int("maxResults", service.DefaultMaxResults)
	if err != nil {
		return service.SearchByPostcodeRequest{}, err
	}
	return service.SearchByPostcodeRequest{
		OrganisationType: args.String("organisationType", ""),
		Postcode:         args.String("postcode", ""),
		MaxResults:       maxResults,
	}, nil
}

// SearchByPointArgs builds a coordinate search request from tool arguments
func SearchByPointArgs(args Args) (service.SearchByPointRequest, error) {
	lat, err := args.RequiredFloat("latitude")
	if err != nil {
		return service.SearchByPointRequest{}, err
	}
	lon, err := args.RequiredFloat("longitude")
	if err != nil {
		return service.SearchByPointRequest{}, err
	}
	maxResults, err := args.Int("maxResults", service.DefaultMaxResults)
	if err != nil {
		return service.SearchByPointRequest{}, err
	}
	return service.SearchByPointRequest{
		OrganisationType: args.String("organisationType", ""),
		Latitude:         lat,
		Longitude:        lon,
		MaxResults:       maxResults,
	}, nil
}

// toolResult renders payload as JSON text, or err as a tool error result
func (s *Server) toolResult(ctx context.Context, request mcp.CallToolRequest, payload interface{}, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		if errors.Is(err, types.ErrInvalidInput) || errors.Is(err, types.ErrNotFound) {
			s.logger.WarnContext(ctx, "tool call rejected", "tool", request.Params.Name, "error", err)
		} else {
			s.logger.ErrorContext(ctx, "tool call failed", "tool", request.Params.Name, "error", err)
		}
		return mcp.NewToolResultError("Error: " + err.Error()), nil
	}
	return mcp.NewToolResultText(formatJSON(payload)), nil
}

// newMCPError creates a new MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats data as indented JSON
func formatJSON(data interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}
