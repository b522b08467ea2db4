package gcal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"agendabot/internal/domain"
)

// Client is a thin Google Calendar v3 client implementing
// domain.CalendarProvider for a single configured calendar.
type Client struct {
	token      string
	calendarID string
	baseURL    string
	client     *http.Client
}

func NewClient(token, calendarID, baseURL string) *Client {
	if calendarID == "" {
		calendarID = "primary"
	}
	if baseURL == "" {
		baseURL = "https://www.googleapis.com/calendar/v3"
	}
	return &Client{
		token:      token,
		calendarID: calendarID,
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type gcalTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
}

type gcalAttendee struct {
	Email string `json:"email"`
}

type gcalEvent struct {
	ID          string         `json:"id,omitempty"`
	Summary     string         `json:"summary,omitempty"`
	Description string         `json:"description,omitempty"`
	Start       gcalTime       `json:"start"`
	End         gcalTime       `json:"end"`
	Attendees   []gcalAttendee `json:"attendees,omitempty"`
}

type gcalEventList struct {
	Items []gcalEvent `json:"items"`
}

func (c *Client) Insert(ctx context.Context, event *domain.CalendarEvent) (*domain.CalendarEvent, error) {
	payload := gcalEvent{
		Summary:     event.Summary,
		Description: event.Description,
		Start:       gcalTime{DateTime: event.Start.Format(time.RFC3339)},
		End:         gcalTime{DateTime: event.End.Format(time.RFC3339)},
	}
	for _, email := range event.Attendees {
		payload.Attendees = append(payload.Attendees, gcalAttendee{Email: email})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}

	reqURL := fmt.Sprintf("%s/calendars/%s/events", c.baseURL, url.PathEscape(c.calendarID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var created gcalEvent
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, err
	}

	out := *event
	out.ID = created.ID
	if out.Summary == "" {
		out.Summary = created.Summary
	}
	return &out, nil
}

func (c *Client) List(ctx context.Context, timeMin, timeMax time.Time) ([]*domain.CalendarEvent, error) {
	params := url.Values{}
	params.Set("timeMin", timeMin.Format(time.RFC3339))
	params.Set("timeMax", timeMax.Format(time.RFC3339))
	params.Set("singleEvents", "true")
	params.Set("orderBy", "startTime")

	reqURL := fmt.Sprintf("%s/calendars/%s/events?%s", c.baseURL, url.PathEscape(c.calendarID), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var data gcalEventList
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}

	events := make([]*domain.CalendarEvent, 0, len(data.Items))
	for _, item := range data.Items {
		ev := &domain.CalendarEvent{
			ID:          item.ID,
			Summary:     item.Summary,
			Description: item.Description,
		}
		ev.Start = parseEventTime(item.Start)
		ev.End = parseEventTime(item.End)
		for _, a := range item.Attendees {
			ev.Attendees = append(ev.Attendees, a.Email)
		}
		events = append(events, ev)
	}

	return events, nil
}

// parseEventTime handles both timed (dateTime) and all-day (date) events.
func parseEventTime(t gcalTime) time.Time {
	if t.DateTime != "" {
		if parsed, err := time.Parse(time.RFC3339, t.DateTime); err == nil {
			return parsed
		}
	}
	if t.Date != "" {
		if parsed, err := time.Parse("2006-01-02", t.Date); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
