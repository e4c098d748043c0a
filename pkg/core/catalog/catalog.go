// Package catalog fetches associated discussion sections from the course
// catalog's enrollment JSON endpoint.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mirawen/course-staff-tools/pkg/core/model"
)

const (
	defaultBaseURL = "https://classes.berkeley.edu"

	// path parameters are section ID (twice) and term ID
	assocSectionsPath = "/enrollment/json-all-associated-sections/%d/%d/%d"
)

// Section is one associated section with a single weekly meeting.
type Section struct {
	Number    string
	Location  string
	Days      string
	StartTime model.TimeOfDay
	EndTime   model.TimeOfDay
}

// Client fetches sections from the catalog.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewClient creates a catalog client against the public catalog endpoint.
func NewClient(logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    defaultBaseURL,
		logger:     logger,
	}
}

// NewClientWithBaseURL creates a catalog client against a specific base
// URL, used in tests.
func NewClientWithBaseURL(baseURL string, logger *zap.Logger) *Client {
	client := NewClient(logger)
	client.baseURL = baseURL
	return client
}

// The endpoint wraps each section's real payload in a JSON string.
type sectionsResponse struct {
	Nodes []struct {
		Node struct {
			JSON string `json:"json"`
		} `json:"node"`
	} `json:"nodes"`
}

type sectionPayload struct {
	Number   json.Number      `json:"number"`
	Meetings []sectionMeeting `json:"meetings"`
}

type sectionMeeting struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	MeetsDays string `json:"meetsDays"`
	Location  *struct {
		Description string `json:"description"`
	} `json:"location"`
}

// FetchAssociatedSections fetches all associated sections for a lecture
// section in a term. Sections with zero or more than one weekly meeting
// are skipped with a warning. Catalog end times are inclusive, so each
// end time is bumped by one minute to give half-open intervals.
func (c *Client) FetchAssociatedSections(ctx context.Context, sectionID, termID int) ([]Section, error) {
	url := c.baseURL + fmt.Sprintf(assocSectionsPath, sectionID, sectionID, termID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch associated sections: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var parsed sectionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse catalog response: %w", err)
	}

	var sections []Section
	for _, node := range parsed.Nodes {
		var payload sectionPayload
		if err := json.Unmarshal([]byte(node.Node.JSON), &payload); err != nil {
			return nil, fmt.Errorf("failed to parse section payload: %w", err)
		}

		number := payload.Number.String()
		if len(payload.Meetings) > 1 {
			c.logger.Warn("Skipping section with more than one meeting", zap.String("section", number))
			continue
		}
		if len(payload.Meetings) == 0 {
			c.logger.Warn("Skipping section with no meetings", zap.String("section", number))
			continue
		}
		meeting := payload.Meetings[0]

		start, err := model.ParseTimeOfDay(meeting.StartTime)
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", number, err)
		}
		end, err := model.ParseTimeOfDay(meeting.EndTime)
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", number, err)
		}

		location := ""
		if meeting.Location != nil {
			location = meeting.Location.Description
		}

		sections = append(sections, Section{
			Number:    number,
			Location:  location,
			Days:      meeting.MeetsDays,
			StartTime: start,
			EndTime:   end + 1,
		})
	}

	c.logger.Info("Fetched associated sections",
		zap.Int("section_id", sectionID),
		zap.Int("term_id", termID),
		zap.Int("count", len(sections)),
	)

	return sections, nil
}
