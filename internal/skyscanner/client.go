package skyscanner

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"farescan/internal/components/telemetry"
	"farescan/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultBaseUrl = "https://skyscanner-skyscanner-flight-search-v1.p.rapidapi.com/apiservices"

	createSessionPath = "/pricing/v1.0"
	pollSessionPath   = "/pricing/uk2/v1.0/{session}"
	apiKeyHeader      = "X-RapidAPI-Key"
	errorSnippetLimit = 8 << 10
)

const (
	report_client_create_session = "client.create-session"
	report_client_poll_session   = "client.poll-session"
)

var tracer = otel.Tracer("farescan/skyscanner")

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	ApiKey  string
	// defaults to telemetry.SlogAPI
	Telemetry telemetry.API
	// when not nil every http exchange is dumped into it
	Dump restyutil.InstrumentOutput
}

// Client talks to the live flight pricing API, one synchronous request at a time.
type Client struct {
	http *resty.Client
	tel  telemetry.API
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.ApiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	tel := opts.Telemetry
	if tel == nil {
		tel = telemetry.SlogAPI{}
	}
	tel = telemetry.NewScopedAPI("skyscanner", tel)

	httpClient := resty.New()
	httpClient.SetBaseURL(strings.TrimSuffix(opts.BaseUrl, "/"))
	httpClient.SetHeader(apiKeyHeader, opts.ApiKey)
	httpClient.SetHeader("Accept", "application/json")

	telemetry.InstrumentResty(httpClient, tel)
	restyutil.InstrumentClient(httpClient, tracer, opts.Dump)

	return &Client{http: httpClient, tel: tel}, nil
}

func apiErrorFrom(res *resty.Response) *APIError {
	body := res.String()
	if len(body) > errorSnippetLimit {
		body = body[:errorSnippetLimit]
	}
	return &APIError{
		StatusCode: res.StatusCode(),
		Status:     res.Status(),
		Endpoint:   res.Request.URL,
		Body:       strings.TrimSpace(body),
	}
}

// SessionIDFromLocation returns the substring after the final "/" of a
// session location, the whole string when there is none.
func SessionIDFromLocation(location string) string {
	idx := strings.LastIndex(location, "/")
	return location[idx+1:]
}

// CreateSession opens a live pricing session for one pair of dates and
// returns its identifier.
func (c *Client) CreateSession(ctx context.Context, req SessionRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "client:CreateSession")
	defer span.End()

	form := req.formData()
	span.SetAttributes(
		attribute.String("outbound_date", form["outboundDate"]),
		attribute.String("inbound_date", form["inboundDate"]),
	)

	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		Post(createSessionPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to post session")
		c.tel.ReportBroken(report_client_create_session, fmt.Errorf("fetch: %w", err))
		return "", err
	}
	if res.IsError() {
		apiErr := apiErrorFrom(res)
		span.SetStatus(codes.Error, apiErr.Status)
		c.tel.ReportBroken(report_client_create_session, apiErr)
		return "", apiErr
	}

	location := res.Header().Get("Location")
	if location == "" {
		span.SetStatus(codes.Error, ErrMissingLocation.Error())
		c.tel.ReportBroken(report_client_create_session, ErrMissingLocation, res.Status())
		return "", ErrMissingLocation
	}

	sessionId := SessionIDFromLocation(location)
	if sessionId == "" {
		span.SetStatus(codes.Error, ErrEmptySessionID.Error())
		c.tel.ReportBroken(report_client_create_session, ErrEmptySessionID, location)
		return "", fmt.Errorf("%q: %w", location, ErrEmptySessionID)
	}
	span.SetAttributes(attribute.String("session_id", sessionId))
	return sessionId, nil
}

// PollSession fetches the results of a session, sorted by ascending price
// and restricted to direct itineraries.
func (c *Client) PollSession(ctx context.Context, sessionId string) (PollResponse, error) {
	ctx, span := tracer.Start(ctx, "client:PollSession")
	defer span.End()
	span.SetAttributes(attribute.String("session_id", sessionId))

	if sessionId == "" {
		span.SetStatus(codes.Error, "empty session id")
		return PollResponse{}, fmt.Errorf("session id is required")
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetPathParam("session", sessionId).
		SetQueryParams(map[string]string{
			"sortType":  "price",
			"sortOrder": "asc",
			"stops":     "0",
		}).
		Get(pollSessionPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to poll session")
		c.tel.ReportBroken(report_client_poll_session, fmt.Errorf("fetch: %w", err), sessionId)
		return PollResponse{}, err
	}
	if res.IsError() {
		apiErr := apiErrorFrom(res)
		span.SetStatus(codes.Error, apiErr.Status)
		c.tel.ReportBroken(report_client_poll_session, apiErr, sessionId)
		return PollResponse{}, apiErr
	}

	var parsed PollResponse
	err = json.Unmarshal(res.Body(), &parsed)
	if err != nil {
		span.SetStatus(codes.Error, "failed to decode poll response")
		c.tel.ReportBroken(report_client_poll_session, fmt.Errorf("unmarshal json: %w", err), sessionId)
		return PollResponse{}, fmt.Errorf("decode poll response for session %s: %w", sessionId, err)
	}
	if res.StatusCode() != http.StatusOK {
		c.tel.ReportWarning(report_client_poll_session, "unexpected status", res.Status(), sessionId)
	}
	return parsed, nil
}
