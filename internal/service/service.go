package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dshills/nhs-mcp/internal/backend"
	"github.com/dshills/nhs-mcp/internal/geo"
	"github.com/dshills/nhs-mcp/internal/tracing"
	"github.com/dshills/nhs-mcp/pkg/types"
)

// Result limits
const (
	DefaultMaxResults = 10
	MinMaxResults     = 1
	MaxMaxResults     = 50
)

// Backend is the search backend the service delegates to. Lookups that
// resolve to nothing return a nil result and a nil error
type Backend interface {
	Configured() bool
	GeocodePostcode(ctx context.Context, postcode string) (*types.PostcodeResult, error)
	SearchOrganisations(ctx context.Context, typeCode string, origin geo.Coordinate, top int) ([]types.Organisation, error)
	GetHealthTopic(ctx context.Context, topic string) (*types.HealthTopic, error)
}

// Service implements the lookup operations shared by every transport
type Service struct {
	backend Backend
	logger  *slog.Logger
}

// New creates a Service
func New(b Backend, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{backend: b, logger: logger}
}

// Ready reports whether the backend is configured
func (s *Service) Ready() bool {
	return s.backend != nil && s.backend.Configured()
}

// SearchByPointRequest asks for organisations near a coordinate
type SearchByPointRequest struct {
	OrganisationType string
	Latitude         float64
	Longitude        float64
	MaxResults       int // 0 selects DefaultMaxResults
}

// SearchByPostcodeRequest asks for organisations near a postcode
type SearchByPostcodeRequest struct {
	OrganisationType string
	Postcode         string
	MaxResults       int // 0 selects DefaultMaxResults
}

// OrganisationTypes lists every organisation type ordered by code
func (s *Service) OrganisationTypes() []types.OrganisationType {
	return types.OrganisationTypes()
}

// Geocode converts a postcode to coordinates
func (s *Service) Geocode(ctx context.Context, postcode string) (*types.PostcodeResult, error) {
	if strings.TrimSpace(postcode) == "" {
		return nil, types.NewValidationError("postcode", "Postcode is required")
	}
	if err := s.checkBackend(); err != nil {
		return nil, err
	}

	ctx, end := tracing.StartSpan(ctx, "service.Geocode")
	result, err := s.backend.GeocodePostcode(ctx, postcode)
	end(err)
	if err != nil {
		return nil, fmt.Errorf("geocode postcode: %w", err)
	}
	if result == nil {
		return nil, types.NewNotFoundError("Postcode '%s' not found", postcode)
	}
	return result, nil
}

// SearchByPoint finds organisations of a type nearest to a coordinate
func (s *Service) SearchByPoint(ctx context.Context, req SearchByPointRequest) (*types.SearchResult, error) {
	code, desc, err := validateOrganisationType(req.OrganisationType)
	if err != nil {
		return nil, err
	}
	origin := geo.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude}
	if err := origin.Validate(); err != nil {
		param := "latitude"
		if errors.Is(err, geo.ErrLongitudeOutOfRange) {
			param = "longitude"
		}
		return nil, types.NewValidationError(param, "%s", err.Error())
	}
	maxResults, err := validateMaxResults(req.MaxResults)
	if err != nil {
		return nil, err
	}
	if err := s.checkBackend(); err != nil {
		return nil, err
	}

	return s.search(ctx, code, desc, origin, maxResults)
}

// SearchByPostcode geocodes a postcode and finds organisations of a type
// nearest to it
func (s *Service) SearchByPostcode(ctx context.Context, req SearchByPostcodeRequest) (*types.SearchResult, error) {
	code, desc, err := validateOrganisationType(req.OrganisationType)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Postcode) == "" {
		return nil, types.NewValidationError("postcode", "Postcode is required")
	}
	maxResults, err := validateMaxResults(req.MaxResults)
	if err != nil {
		return nil, err
	}

	location, err := s.Geocode(ctx, req.Postcode)
	if err != nil {
		return nil, err
	}

	result, err := s.search(ctx, code, desc, location.Coordinate(), maxResults)
	if err != nil {
		return nil, err
	}
	result.Postcode = req.Postcode
	return result, nil
}

// HealthTopic fetches a health condition article by slug
func (s *Service) HealthTopic(ctx context.Context, topic string) (*types.HealthTopic, error) {
	slug := backend.NormalizeTopic(topic)
	if slug == "" {
		return nil, types.NewValidationError("topic", "Topic parameter is required")
	}
	if err := s.checkBackend(); err != nil {
		return nil, err
	}

	ctx, end := tracing.StartSpan(ctx, "service.HealthTopic", attribute.String("topic", slug))
	result, err := s.backend.GetHealthTopic(ctx, slug)
	end(err)
	if err != nil {
		return nil, fmt.Errorf("fetch health topic: %w", err)
	}
	if result == nil {
		return nil, types.NewNotFoundError("Health topic '%s' not found. Please check the topic name and try again.", topic)
	}
	return result, nil
}

// search queries the backend and ranks the results nearest first. Distances
// are always computed locally; backend order breaks ties
func (s *Service) search(ctx context.Context, code, desc string, origin geo.Coordinate, maxResults int) (*types.SearchResult, error) {
	ctx, end := tracing.StartSpan(ctx, "service.SearchOrganisations",
		attribute.String("organisation_type", code),
		attribute.Int("max_results", maxResults),
	)
	orgs, err := s.backend.SearchOrganisations(ctx, code, origin, maxResults)
	end(err)
	if err != nil {
		return nil, fmt.Errorf("search organisations: %w", err)
	}

	ranked := orgs[:0]
	for _, org := range orgs {
		org.SetDistanceFrom(origin)
		if err := org.Validate(); err != nil {
			s.logger.WarnContext(ctx, "skipping malformed organisation record",
				"ods_code", org.ODSCode,
				"error", err,
			)
			continue
		}
		ranked = append(ranked, org)
	}
	orgs = ranked
	geo.SortByDistance(orgs, types.Organisation.DistanceKm)

	if len(orgs) > maxResults {
		orgs = orgs[:maxResults]
	}

	s.logger.InfoContext(ctx, "organisation search complete",
		"type", code,
		"latitude", origin.Latitude,
		"longitude", origin.Longitude,
		"results", len(orgs),
	)

	return &types.SearchResult{
		Coordinates:                 origin,
		OrganisationType:            code,
		OrganisationTypeDescription: desc,
		ResultCount:                 len(orgs),
		Organisations:               orgs,
	}, nil
}

func (s *Service) checkBackend() error {
	if !s.Ready() {
		return types.ErrBackendNotConfigured
	}
	return nil
}

func validateOrganisationType(raw string) (string, string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", "", types.NewValidationError("organisationType", "Organisation type is required")
	}
	code, desc, ok := types.LookupOrganisationType(raw)
	if !ok {
		return "", "", types.NewValidationError("organisationType",
			"Invalid organisation type '%s'. Use get_organisation_types to see valid types.", raw)
	}
	return code, desc, nil
}

func validateMaxResults(n int) (int, error) {
	if n == 0 {
		return DefaultMaxResults, nil
	}
	if n < MinMaxResults || n > MaxMaxResults {
		return 0, types.NewValidationError("maxResults",
			"maxResults must be between %d and %d", MinMaxResults, MaxMaxResults)
	}
	return n, nil
}
