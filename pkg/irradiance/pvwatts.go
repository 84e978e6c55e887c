package irradiance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"k8s.io/klog/v2"

	"github.com/amritPVre/BAESS-Solar-sub008/pkg/geo"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/spec"
)

// HTTPClient allows mocking http.Client in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// PVWattsClient fetches monthly plane-of-array irradiance from NREL PVWatts v8.
type PVWattsClient struct {
	apiKey     string
	baseURL    string
	httpClient HTTPClient
}

// ClientOption customizes a PVWattsClient.
type ClientOption func(*PVWattsClient)

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(client HTTPClient) ClientOption {
	return func(c *PVWattsClient) {
		c.httpClient = client
	}
}

// NewPVWattsClient creates a client for the given endpoint. Timeouts are
// applied per request through the context.
func NewPVWattsClient(apiKey, baseURL string, opts ...ClientOption) *PVWattsClient {
	c := &PVWattsClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *PVWattsClient) Name() string { return "pvwatts" }

type pvwattsResponse struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Outputs  struct {
		SolradMonthly []float64 `json:"solrad_monthly"`
		SolradAnnual  float64   `json:"solrad_annual"`
	} `json:"outputs"`
}

// pvwattsArrayType maps array types to the PVWatts array_type codes.
var pvwattsArrayType = map[spec.ArrayType]int{
	spec.ArrayFixedOpenRack:    0,
	spec.ArrayFixedRoof:        1,
	spec.ArrayOneAxis:          2,
	spec.ArrayOneAxisBacktrack: 3,
	spec.ArrayTwoAxis:          4,
}

// Monthly implements Provider.
func (c *PVWattsClient) Monthly(ctx context.Context, req Request) (Monthly, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return Monthly{}, fmt.Errorf("parsing PVWatts URL: %w", err)
	}
	u.RawQuery = c.query(req).Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Monthly{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	klog.V(2).InfoS("Requesting PVWatts irradiance",
		"lat", req.Location.Latitude,
		"lon", req.Location.Longitude,
		"hasApiKey", c.apiKey != "")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Monthly{}, fmt.Errorf("PVWatts request failed: %w", err)
	}
	defer resp.Body.Close()

	var body pvwattsResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return Monthly{}, &StatusError{StatusCode: resp.StatusCode, Message: "rate limit exceeded"}
	case http.StatusUnauthorized, http.StatusForbidden:
		return Monthly{}, &StatusError{StatusCode: resp.StatusCode, Message: "invalid API key"}
	default:
		msg := "unexpected status"
		if decodeErr == nil && len(body.Errors) > 0 {
			msg = strings.Join(body.Errors, "; ")
		}
		return Monthly{}, &StatusError{StatusCode: resp.StatusCode, Message: msg}
	}

	if decodeErr != nil {
		return Monthly{}, fmt.Errorf("decoding PVWatts response: %w", decodeErr)
	}
	if len(body.Errors) > 0 {
		return Monthly{}, fmt.Errorf("PVWatts: %s", strings.Join(body.Errors, "; "))
	}
	for _, w := range body.Warnings {
		klog.V(2).InfoS("PVWatts warning", "warning", w)
	}
	m, err := FromSlice(body.Outputs.SolradMonthly)
	if err != nil {
		return Monthly{}, fmt.Errorf("PVWatts solrad_monthly: %w", err)
	}
	return m, nil
}

func (c *PVWattsClient) query(req Request) url.Values {
	capacity := req.CapacityKW
	if capacity <= 0 {
		capacity = 1
	}
	arrayType, ok := pvwattsArrayType[req.ArrayType]
	if !ok {
		arrayType = 0
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("lat", f(req.Location.Latitude))
	q.Set("lon", f(req.Location.Longitude))
	q.Set("system_capacity", f(capacity))
	// PVWatts measures azimuth clockwise from north, so south is 180.
	q.Set("azimuth", f(geo.NormalizeAngle(req.AzimuthDeg+180)))
	q.Set("tilt", f(req.TiltDeg))
	q.Set("array_type", strconv.Itoa(arrayType))
	q.Set("module_type", "0")
	q.Set("losses", f(req.LossesPct))
	q.Set("timeframe", "monthly")
	return q
}
