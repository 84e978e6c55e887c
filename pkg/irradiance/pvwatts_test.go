package irradiance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amritPVre/BAESS-Solar-sub008/pkg/spec"
)

// MockHTTPClient is a mock implementation of HTTPClient for testing.
type MockHTTPClient struct {
	DoFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if m.DoFunc != nil {
		return m.DoFunc(req)
	}
	return nil, errors.New("mock http client not implemented")
}

const solrad = `[3.1, 3.9, 5.0, 6.0, 6.6, 6.9, 6.5, 6.2, 5.6, 4.6, 3.4, 2.9]`

func testRequest() Request {
	return Request{
		Location:   spec.Location{Latitude: 39.74, Longitude: -105.18},
		TiltDeg:    25,
		AzimuthDeg: 0,
		ArrayType:  spec.ArrayFixedRoof,
		LossesPct:  14,
		CapacityKW: 10,
	}
}

func TestPVWattsMonthly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("api_key"))
		assert.Equal(t, "39.74", q.Get("lat"))
		assert.Equal(t, "-105.18", q.Get("lon"))
		assert.Equal(t, "180", q.Get("azimuth"), "south-facing array maps to PVWatts azimuth 180")
		assert.Equal(t, "1", q.Get("array_type"))
		assert.Equal(t, "monthly", q.Get("timeframe"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"errors":[],"warnings":[],"outputs":{"solrad_monthly":%s,"solrad_annual":5.06}}`, solrad)
	}))
	defer srv.Close()

	c := NewPVWattsClient("test-key", srv.URL)
	m, err := c.Monthly(context.Background(), testRequest())
	require.NoError(t, err)
	assert.InDelta(t, 3.1, m[0], 1e-9)
	assert.InDelta(t, 2.9, m[11], 1e-9)
	assert.Equal(t, "pvwatts", c.Name())
}

func TestPVWattsAzimuthConversion(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("azimuth")
		fmt.Fprintf(w, `{"outputs":{"solrad_monthly":%s}}`, solrad)
	}))
	defer srv.Close()

	req := testRequest()
	req.AzimuthDeg = -90 // east-facing in the south-zero convention
	_, err := NewPVWattsClient("k", srv.URL).Monthly(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "90", got)
}

func TestPVWattsStatusMapping(t *testing.T) {
	tests := []struct {
		status    int
		temporary bool
	}{
		{http.StatusUnauthorized, false},
		{http.StatusForbidden, false},
		{http.StatusTooManyRequests, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusUnprocessableEntity, false},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"errors":["something went wrong"]}`)
			}))
			defer srv.Close()

			_, err := NewPVWattsClient("k", srv.URL).Monthly(context.Background(), testRequest())
			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, tt.temporary, se.Temporary())
		})
	}
}

func TestPVWattsBodyErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"errors":["lat must be between -90 and 90"],"outputs":{}}`)
	}))
	defer srv.Close()

	_, err := NewPVWattsClient("k", srv.URL).Monthly(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lat must be between")
}

func TestPVWattsShortSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"outputs":{"solrad_monthly":[1,2,3]}}`)
	}))
	defer srv.Close()

	_, err := NewPVWattsClient("k", srv.URL).Monthly(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "solrad_monthly")
}

func TestPVWattsTransportError(t *testing.T) {
	mock := &MockHTTPClient{DoFunc: func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	}}
	_, err := NewPVWattsClient("k", "https://example.com/pvwatts", WithHTTPClient(mock)).
		Monthly(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.True(t, retryable(err))
}
