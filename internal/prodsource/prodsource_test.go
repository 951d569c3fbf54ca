package prodsource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchProductivityMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Write([]byte(`{
			"success": true,
			"metrics": [
				{"teamName": "Platform", "trueThroughput": 14.5, "prCount": 31},
				{"teamName": "Payments", "trueThroughput": 9}
			]
		}`))
	}))
	defer server.Close()

	records, err := NewClient(server.URL, "secret").FetchProductivityMetrics(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Platform", records[0].TeamName)
	assert.Equal(t, 14.5, records[0].TrueThroughput)
	assert.Equal(t, 31, records[0].PRCount)
}

func TestFetchProductivityMetricsServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error": "upstream database offline"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "").FetchProductivityMetrics(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream database offline")
}

func TestFetchProductivityMetricsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "").FetchProductivityMetrics(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestFetchProductivityMetricsMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": tr`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "").FetchProductivityMetrics(context.Background())
	require.Error(t, err)
}
