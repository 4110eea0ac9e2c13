package httpapi

import (
	"net/http"

	"github.com/dshills/nhs-mcp/internal/mcp"
	"github.com/dshills/nhs-mcp/pkg/types"
)

// handleOrganisationTypes serves GET /api/organisation-types
func (h *Handler) handleOrganisationTypes(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, r, h.logger, h.service.OrganisationTypes())
}

// handlePostcode serves GET /api/postcode/{postcode}
func (h *Handler) handlePostcode(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Geocode(r.Context(), r.PathValue("postcode"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, r, h.logger, result)
}

// handleSearchByPostcode serves GET /api/search/postcode
func (h *Handler) handleSearchByPostcode(w http.ResponseWriter, r *http.Request) {
	h.searchByPostcode(w, r, queryArgs(r))
}

// handleSearchByCoordinates serves GET /api/search/coordinates
func (h *Handler) handleSearchByCoordinates(w http.ResponseWriter, r *http.Request) {
	req, err := mcp.SearchByPointArgs(queryArgs(r))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	result, err := h.service.SearchByPoint(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, r, h.logger, result)
}

// handleHealthTopic serves GET /api/health-topic/{topic}
func (h *Handler) handleHealthTopic(w http.ResponseWriter, r *http.Request) {
	h.healthTopic(w, r, r.PathValue("topic"))
}

// handleGetContent serves POST /api/GetContent with a {"topic": ...} body
func (h *Handler) handleGetContent(w http.ResponseWriter, r *http.Request) {
	args, err := decodeArgs(w, r)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	h.healthTopic(w, r, args.String("topic", ""))
}

// handleConvertPostcode serves POST /api/ConvertPostcode with a {"postcode": ...} body
func (h *Handler) handleConvertPostcode(w http.ResponseWriter, r *http.Request) {
	args, err := decodeArgs(w, r)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	result, err := h.service.Geocode(r.Context(), args.String("postcode", ""))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, r, h.logger, result)
}

// handleSearchOrganisations serves POST /api/SearchOrganisations with a
// {"postcode", "organisationType", "maxResults"} body
func (h *Handler) handleSearchOrganisations(w http.ResponseWriter, r *http.Request) {
	args, err := decodeArgs(w, r)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	h.searchByPostcode(w, r, args)
}

func (h *Handler) searchByPostcode(w http.ResponseWriter, r *http.Request, args mcp.Args) {
	req, err := mcp.SearchByPostcodeArgs(args)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	result, err := h.service.SearchByPostcode(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, r, h.logger, result)
}

func (h *Handler) healthTopic(w http.ResponseWriter, r *http.Request, topic string) {
	result, err := h.service.HealthTopic(r.Context(), topic)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, r, h.logger, result)
}

// handleLegacyOrganisationTypes serves GET|POST /api/GetOrganisationTypes as
// a code to description map
func (h *Handler) handleLegacyOrganisationTypes(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, r, h.logger, types.OrganisationTypeMap())
}
