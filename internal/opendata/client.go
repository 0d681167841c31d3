// Package opendata is a client for the Metropolia OpenData reservation API
package opendata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/metropolia/infoscreen/internal/config"
	"github.com/metropolia/infoscreen/internal/models"
	"github.com/metropolia/infoscreen/internal/utils"
)

const (
	reservationSearchPath = "/reservation/search"
	buildingPath          = "/reservation/building/{buildingID}"

	resourceTypeRoom = "room"
)

// ErrUpstream marks every failure of the reservation API
var ErrUpstream = errors.New("opendata request failed")

// Error is returned when the API answers with a non-2xx status
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("opendata: status=%d body=%s", e.StatusCode, e.Body)
}

// Unwrap lets callers match every API error with ErrUpstream
func (e *Error) Unwrap() error {
	return ErrUpstream
}

// SearchResult is the body of a reservation search
type SearchResult struct {
	Reservations []models.Reservation `json:"reservations"`
}

// Building is the body of a building reservation listing
type Building struct {
	Resources []models.Resource `json:"resources"`
}

// reservationQuery is the search body; empty fields are omitted
type reservationQuery struct {
	Room         []string `json:"room,omitempty"`
	Realization  []string `json:"realization,omitempty"`
	StudentGroup []string `json:"studentGroup,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
}

// Observer records the outcome of every API call
type Observer interface {
	ObserveUpstream(endpoint string, status int, duration time.Duration)
}

// Client calls the OpenData API with HTTP basic auth, the API key being the
// username. Requests are never retried.
type Client struct {
	http              *resty.Client
	defaultBuildingID string
	observer          Observer
}

// NewClient creates a client from configuration
func NewClient(cfg config.OpenDataConfig) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetBasicAuth(cfg.APIKey, "").
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:              httpClient,
		defaultBuildingID: cfg.DefaultBuildingID,
	}
}

// SetObserver installs o to record call durations
func (c *Client) SetObserver(o Observer) {
	c.observer = o
}

// SearchReservations returns the reservations of room intersecting
// [startDate, endDate]. Empty bounds are left to the API defaults.
func (c *Client) SearchReservations(ctx context.Context, room, startDate, endDate string) ([]models.Reservation, error) {
	query := reservationQuery{StartDate: startDate, EndDate: endDate}
	if room != "" {
		query.Room = []string{room}
	}

	var result SearchResult
	if err := c.post(ctx, reservationSearchPath, query, &result); err != nil {
		return nil, err
	}
	if result.Reservations == nil {
		result.Reservations = []models.Reservation{}
	}
	return result.Reservations, nil
}

// SearchByRealization returns reservations of course realizations and
// student groups
func (c *Client) SearchByRealization(ctx context.Context, realizations, studentGroups []string) ([]models.Reservation, error) {
	query := reservationQuery{Realization: compact(realizations), StudentGroup: compact(studentGroups)}

	var result SearchResult
	if err := c.post(ctx, reservationSearchPath, query, &result); err != nil {
		return nil, err
	}
	if result.Reservations == nil {
		result.Reservations = []models.Reservation{}
	}
	return result.Reservations, nil
}

// BuildingRooms returns the room resources of a building. An empty id
// selects the configured default building.
func (c *Client) BuildingRooms(ctx context.Context, buildingID string) ([]models.Resource, error) {
	if buildingID == "" {
		buildingID = c.defaultBuildingID
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("buildingID", buildingID).
		Get(buildingPath)
	if err := c.check(buildingPath, resp, err, start); err != nil {
		return nil, err
	}

	var building Building
	if err := json.Unmarshal(resp.Body(), &building); err != nil {
		return nil, fmt.Errorf("%w: decode building %s: %v", ErrUpstream, buildingID, err)
	}

	rooms := make([]models.Resource, 0, len(building.Resources))
	for _, resource := range building.Resources {
		if resource.Type == resourceTypeRoom {
			rooms = append(rooms, resource)
		}
	}
	return rooms, nil
}

// RoomExists reports whether the default building lists a room with code
func (c *Client) RoomExists(ctx context.Context, roomNumber string) (bool, error) {
	rooms, err := c.BuildingRooms(ctx, "")
	if err != nil {
		return false, err
	}
	for _, room := range rooms {
		if strings.EqualFold(room.Code, roomNumber) {
			return true, nil
		}
	}
	return false, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(path)
	if err := c.check(path, resp, err, start); err != nil {
		return err
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUpstream, path, err)
	}
	return nil
}

// check converts transport failures and non-2xx answers into errors
func (c *Client) check(endpoint string, resp *resty.Response, err error, start time.Time) error {
	if err != nil {
		if c.observer != nil {
			c.observer.ObserveUpstream(endpoint, 0, time.Since(start))
		}
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if c.observer != nil {
		c.observer.ObserveUpstream(endpoint, resp.StatusCode(), time.Since(start))
	}

	event := log.Debug()
	if resp.IsError() {
		event = log.Warn()
	}
	event.
		Str("method", resp.Request.Method).
		Str("url", utils.SanitizeLogString(resp.Request.URL)).
		Int("status", resp.StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("OpenData request")

	if resp.IsError() || resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return &Error{StatusCode: resp.StatusCode(), Body: truncate(string(resp.Body()), 512)}
	}
	return nil
}

func compact(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
