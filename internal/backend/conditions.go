package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/buger/jsonparser"

	"github.com/dshills/nhs-mcp/pkg/types"
)

const opConditions = "conditions"

// NormalizeTopic trims and lower-cases a health topic slug
func NormalizeTopic(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}

// GetHealthTopic fetches a health condition article. It returns nil with no
// error when the backend answers 404
func (c *Client) GetHealthTopic(ctx context.Context, topic string) (*types.HealthTopic, error) {
	slug := NormalizeTopic(topic)
	u := fmt.Sprintf("%s/conditions/%s", c.contentBaseURL(), url.PathEscape(slug))

	req, err := c.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "fetching health topic", "topic", slug)

	body, err := c.do(req, opConditions)
	if err != nil {
		if IsStatus(err, http.StatusNotFound) {
			c.logger.WarnContext(ctx, "health topic not found", "topic", slug)
			return nil, nil
		}
		return nil, err
	}

	return parseHealthTopic(body)
}

// parseHealthTopic reads a conditions document
func parseHealthTopic(body []byte) (*types.HealthTopic, error) {
	if _, dataType, _, err := jsonparser.Get(body); err != nil || dataType != jsonparser.Object {
		return nil, fmt.Errorf("parse health topic: expected JSON object")
	}

	topic := &types.HealthTopic{
		Name:         stringField(body, "name"),
		Description:  stringField(body, "description"),
		URL:          stringField(body, "url"),
		DateModified: stringField(body, "dateModified"),
		LastReviewed: lastReviewed(body),
		Genre:        stringArray(body, "genre"),
		Sections:     []types.HealthTopicSection{},
	}

	_, _ = jsonparser.ArrayEach(body, func(section []byte, dataType jsonparser.ValueType, _ int, err error) {
		if err != nil || dataType != jsonparser.Object {
			return
		}
		topic.Sections = collectSections(section, topic.Sections)
	}, "mainEntityOfPage")

	topic.SectionCount = len(topic.Sections)
	return topic, nil
}

// lastReviewed accepts either a string or an array whose first element is used
func lastReviewed(body []byte) string {
	value, dataType, _, err := jsonparser.Get(body, "lastReviewed")
	if err != nil {
		return ""
	}
	switch dataType {
	case jsonparser.String:
		s, _ := jsonparser.ParseString(value)
		return s
	case jsonparser.Array:
		s, _ := jsonparser.GetString(value, "[0]")
		return s
	default:
		return ""
	}
}

// collectSections appends node and then every nested hasPart entry, depth first
func collectSections(node []byte, sections []types.HealthTopicSection) []types.HealthTopicSection {
	section := types.HealthTopicSection{
		Headline:    stringField(node, "headline"),
		Text:        stringField(node, "text"),
		Description: stringField(node, "description"),
	}
	if !section.IsEmpty() {
		sections = append(sections, section)
	}

	_, _ = jsonparser.ArrayEach(node, func(part []byte, dataType jsonparser.ValueType, _ int, err error) {
		if err != nil || dataType != jsonparser.Object {
			return
		}
		sections = collectSections(part, sections)
	}, "hasPart")

	return sections
}
