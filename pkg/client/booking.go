package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/model"
)

const idempotencyHeader = "Idempotency-Key"

type Metadata struct {
	TotalCount int64 `json:"total_count"`
	Limit      int   `json:"limit"`
	Offset     int64 `json:"offset"`
}

// BookingClient is a typed SDK for the bookings service.
type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseUrl string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *BookingClient) WithToken(token string) *BookingClient {
	c.httpClient.WithToken(token)
	return c
}

// WaitForHealthy polls /health until the service answers or maxWait passes.
func (c *BookingClient) WaitForHealthy(ctx context.Context, maxWait time.Duration) error {
	return c.httpClient.WaitForHealthy(ctx, maxWait)
}

func (c *BookingClient) CheckConflicts(ctx context.Context, req *model.ConflictCheckRequest) (*model.ConflictResult, error) {
	resp, err := c.httpClient.POST(ctx, "/api/v1/conflicts/check", req)
	if err != nil {
		return nil, err
	}
	if !isSuccess(resp) {
		return nil, decodeAPIError(resp)
	}
	var result model.ConflictResult
	if err := resp.DecodeJSON(&result); err != nil {
		return nil, fmt.Errorf("could not decode conflict result: %s: %w", resp.ToString(), err)
	}
	return &result, nil
}

// Create books a new event. When the service refuses because of a conflict the
// returned APIError carries the conflict result in its details. A non-empty
// idempotencyKey makes retries of the same request return the first result.
func (c *BookingClient) Create(ctx context.Context, req *model.BookingRequest, allowBufferConflict bool, idempotencyKey string) (*model.BookingResult, error) {
	path := "/api/v1/bookings"
	if allowBufferConflict {
		path += "?allowBufferConflict=true"
	}
	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{idempotencyHeader: idempotencyKey}
	}
	resp, err := c.httpClient.POSTWithHeaders(ctx, path, req, headers)
	if err != nil {
		return nil, err
	}
	var result model.BookingResult
	if err := decodeData(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *BookingClient) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	resp, err := c.httpClient.GET(ctx, "/api/v1/bookings/id/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	var booking model.Booking
	if err := decodeData(resp, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *BookingClient) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, *Metadata, error) {
	path := fmt.Sprintf("/api/v1/bookings?limit=%d&offset=%d", limit, offset)
	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return decodeBookingPage(resp)
}

func (c *BookingClient) Search(ctx context.Context, from, to, venue string, limit int, offset int64) ([]*model.Booking, *Metadata, error) {
	q := url.Values{}
	if from != "" {
		q.Set("from", from)
	}
	if to != "" {
		q.Set("to", to)
	}
	if venue != "" {
		q.Set("venue", venue)
	}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))

	resp, err := c.httpClient.GET(ctx, "/api/v1/bookings/search?"+q.Encode())
	if err != nil {
		return nil, nil, err
	}
	return decodeBookingPage(resp)
}

func (c *BookingClient) Update(ctx context.Context, id string, update *model.BookingUpdate, allowBufferConflict bool) (*model.BookingResult, error) {
	path := "/api/v1/bookings/id/" + url.PathEscape(id)
	if allowBufferConflict {
		path += "?allowBufferConflict=true"
	}
	resp, err := c.httpClient.PATCH(ctx, path, update)
	if err != nil {
		return nil, err
	}
	var result model.BookingResult
	if err := decodeData(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *BookingClient) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	resp, err := c.httpClient.POST(ctx, "/api/v1/bookings/id/"+url.PathEscape(id)+"/cancel", nil)
	if err != nil {
		return nil, err
	}
	var booking model.Booking
	if err := decodeData(resp, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *BookingClient) ListVenues(ctx context.Context) ([]*model.Venue, error) {
	resp, err := c.httpClient.GET(ctx, "/api/v1/venues")
	if err != nil {
		return nil, err
	}
	var venues []*model.Venue
	if err := decodeData(resp, &venues); err != nil {
		return nil, err
	}
	return venues, nil
}

func (c *BookingClient) CreateVenue(ctx context.Context, req *model.VenueRequest) (*model.Venue, error) {
	resp, err := c.httpClient.POST(ctx, "/api/v1/venues", req)
	if err != nil {
		return nil, err
	}
	var v model.Venue
	if err := decodeData(resp, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *BookingClient) DeleteVenue(ctx context.Context, id string) error {
	resp, err := c.httpClient.DELETE(ctx, "/api/v1/venues/id/"+url.PathEscape(id))
	if err != nil {
		return err
	}
	if !isSuccess(resp) {
		return decodeAPIError(resp)
	}
	return nil
}

func (c *BookingClient) GetConflictSettings(ctx context.Context) (*model.ConflictSettings, error) {
	resp, err := c.httpClient.GET(ctx, "/api/v1/settings/conflict")
	if err != nil {
		return nil, err
	}
	var settings model.ConflictSettings
	if err := decodeData(resp, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func decodeData(resp *Response, target any) error {
	if !isSuccess(resp) {
		return decodeAPIError(resp)
	}

	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return fmt.Errorf("could not decode response wrapper: %s: %w", resp.ToString(), err)
	}
	if err := json.Unmarshal(wrapper.Data, target); err != nil {
		return fmt.Errorf("could not decode response data: %s: %w", resp.ToString(), err)
	}
	return nil
}

func decodeBookingPage(resp *Response) ([]*model.Booking, *Metadata, error) {
	if !isSuccess(resp) {
		return nil, nil, decodeAPIError(resp)
	}

	var wrapper struct {
		Data json.RawMessage `json:"data"`
		Metadata
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated response: %s: %w", resp.ToString(), err)
	}

	var bookings []*model.Booking
	if err := json.Unmarshal(wrapper.Data, &bookings); err != nil {
		return nil, nil, fmt.Errorf("could not decode booking list: %s: %w", resp.ToString(), err)
	}

	meta := wrapper.Metadata
	return bookings, &meta, nil
}
