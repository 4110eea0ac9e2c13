package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/nhs-mcp/internal/geo"
	"github.com/dshills/nhs-mcp/internal/mcp"
	"github.com/dshills/nhs-mcp/pkg/types"
)

// ServerDescription is reported in the tool catalogue
const ServerDescription = "NHS UK Model Context Protocol Server - Search NHS organisations and health information"

// SSE event names
const (
	EventData         = "data"
	EventMetadata     = "metadata"
	EventOrganisation = "organisation"
	EventSection      = "section"
	EventComplete     = "complete"
	EventError        = "error"
)

// eventStream writes Server-Sent Events, flushing after every frame
type eventStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newEventStream(w http.ResponseWriter) (*eventStream, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, false
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	return &eventStream{w: w, flusher: flusher}, true
}

// Send writes one frame. Data is encoded as a single JSON line
func (s *eventStream) Send(event string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event, err)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

type completeEvent struct {
	Success     bool `json:"success"`
	ResultCount *int `json:"resultCount,omitempty"`
}

type errorEvent struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type sectionEvent struct {
	Index int `json:"index"`
	types.HealthTopicSection
}

type searchMetadata struct {
	Postcode                    string         `json:"postcode,omitempty"`
	OrganisationType            string         `json:"organisationType"`
	OrganisationTypeDescription string         `json:"organisationTypeDescription"`
	Coordinates                 geo.Coordinate `json:"coordinates"`
}

type topicMetadata struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	URL          string   `json:"url"`
	LastReviewed string   `json:"lastReviewed,omitempty"`
	DateModified string   `json:"dateModified,omitempty"`
	Genre        []string `json:"genre"`
	SectionCount int      `json:"sectionCount"`
}

// streamFunc runs one tool and writes its events. A returned error becomes
// the stream's error event
type streamFunc func(ctx context.Context, args mcp.Args, stream *eventStream) error

func (h *Handler) streams() map[string]streamFunc {
	return map[string]streamFunc{
		mcp.ToolGetOrganisationTypes:          h.streamOrganisationTypes,
		mcp.ToolConvertPostcode:               h.streamConvertPostcode,
		mcp.ToolSearchOrganisationsByPostcode: h.streamSearchByPostcode,
		mcp.ToolSearchOrganisationsByCoords:   h.streamSearchByCoordinates,
		mcp.ToolGetHealthTopic:                h.streamHealthTopic,
	}
}

// handleToolCatalogue serves GET /mcp/tools
func (h *Handler) handleToolCatalogue(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.logger, http.StatusOK, struct {
		ServerInfo map[string]string `json:"serverInfo"`
		Tools      []mcpgo.Tool      `json:"tools"`
	}{
		ServerInfo: map[string]string{
			"name":        mcp.ServerName,
			"version":     mcp.ServerVersion,
			"description": ServerDescription,
		},
		Tools: mcp.Tools(),
	})
}

// handleToolStream serves GET|POST /mcp/tools/{tool}. GET reads arguments
// from the query string, POST from a JSON body
func (h *Handler) handleToolStream(w http.ResponseWriter, r *http.Request) {
	tool := r.PathValue("tool")
	run, ok := h.streams()[tool]
	if !ok {
		writeError(w, r, h.logger, http.StatusNotFound, CodeNotFound, fmt.Sprintf("Unknown tool '%s'", tool))
		return
	}

	var args mcp.Args
	if r.Method == http.MethodPost {
		var err error
		if args, err = decodeArgs(w, r); err != nil {
			writeServiceError(w, r, h.logger, err)
			return
		}
	} else {
		args = queryArgs(r)
	}

	stream, ok := newEventStream(w)
	if !ok {
		writeError(w, r, h.logger, http.StatusInternalServerError, CodeBackendError, "streaming not supported")
		return
	}

	if err := run(r.Context(), args, stream); err != nil {
		h.logger.WarnContext(r.Context(), "tool stream failed", "tool", tool, "error", err)
		if sendErr := stream.Send(EventError, errorEvent{Success: false, Error: err.Error()}); sendErr != nil {
			h.logger.DebugContext(r.Context(), "write error event failed", "tool", tool, "error", sendErr)
		}
	}
}

func (h *Handler) streamOrganisationTypes(_ context.Context, _ mcp.Args, stream *eventStream) error {
	if err := stream.Send(EventData, map[string]interface{}{
		"success":           true,
		"organisationTypes": types.OrganisationTypeMap(),
	}); err != nil {
		return err
	}
	return stream.Send(EventComplete, completeEvent{Success: true})
}

func (h *Handler) streamConvertPostcode(ctx context.Context, args mcp.Args, stream *eventStream) error {
	result, err := h.service.Geocode(ctx, args.String("postcode", ""))
	if err != nil {
		return err
	}
	if err := stream.Send(EventData, struct {
		Success bool `json:"success"`
		*types.PostcodeResult
	}{true, result}); err != nil {
		return err
	}
	return stream.Send(EventComplete, completeEvent{Success: true})
}

func (h *Handler) streamSearchByPostcode(ctx context.Context, args mcp.Args, stream *eventStream) error {
	req, err := mcp.SearchByPostcodeArgs(args)
	if err != nil {
		return err
	}
	result, err := h.service.SearchByPostcode(ctx, req)
	if err != nil {
		return err
	}
	return streamSearchResult(ctx, result, stream)
}

func (h *Handler) streamSearchByCoordinates(ctx context.Context, args mcp.Args, stream *eventStream) error {
	req, err := mcp.SearchByPointArgs(args)
	if err != nil {
		return err
	}
	result, err := h.service.SearchByPoint(ctx, req)
	if err != nil {
		return err
	}
	return streamSearchResult(ctx, result, stream)
}

func streamSearchResult(ctx context.Context, result *types.SearchResult, stream *eventStream) error {
	if err := stream.Send(EventMetadata, searchMetadata{
		Postcode:                    result.Postcode,
		OrganisationType:            result.OrganisationType,
		OrganisationTypeDescription: result.OrganisationTypeDescription,
		Coordinates:                 result.Coordinates,
	}); err != nil {
		return err
	}

	for _, org := range result.Organisations {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := stream.Send(EventOrganisation, org); err != nil {
			return err
		}
	}

	count := result.ResultCount
	return stream.Send(EventComplete, completeEvent{Success: true, ResultCount: &count})
}

func (h *Handler) streamHealthTopic(ctx context.Context, args mcp.Args, stream *eventStream) error {
	topic, err := h.service.HealthTopic(ctx, args.String("topic", ""))
	if err != nil {
		return err
	}

	if err := stream.Send(EventMetadata, topicMetadata{
		Name:         topic.Name,
		Description:  topic.Description,
		URL:          topic.URL,
		LastReviewed: topic.LastReviewed,
		DateModified: topic.DateModified,
		Genre:        topic.Genre,
		SectionCount: topic.SectionCount,
	}); err != nil {
		return err
	}

	for i, section := range topic.Sections {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := stream.Send(EventSection, sectionEvent{Index: i, HealthTopicSection: section}); err != nil {
			return err
		}
	}

	return stream.Send(EventComplete, completeEvent{Success: true})
}
