// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package geo_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/roster/internal/geo"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// provider starts a fake geolocation endpoint and counts its hits.
func provider(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		hits.Add(1)
		handler(writer, request)
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func newResolver(baseURL string, ratePerMinute int) *geo.Resolver {
	return geo.NewResolver(geo.Options{
		BaseURL:       baseURL,
		Timeout:       200 * time.Millisecond,
		RatePerMinute: ratePerMinute,
	}, discardLogger())
}

/*
TestResolve_Outcomes maps provider responses to location strings.
*/
func TestResolve_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "full_location",
			handler: func(writer http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(writer, `{"city":"Mountain View","region":"California","country_name":"United States"}`)
			},
			want: "Mountain View, California, United States",
		},
		{
			name: "missing_segments",
			handler: func(writer http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(writer, `{"city":"","region":""}`)
			},
			want: ", , Unknown",
		},
		{
			name: "provider_error_body",
			handler: func(writer http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(writer, `{"error":true,"reason":"Reserved IP Address"}`)
			},
			want: geo.UnknownLocation,
		},
		{
			name: "non_ok_status",
			handler: func(writer http.ResponseWriter, _ *http.Request) {
				writer.WriteHeader(http.StatusTooManyRequests)
			},
			want: geo.UnknownLocation,
		},
		{
			name: "malformed_body",
			handler: func(writer http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(writer, `<html>`)
			},
			want: geo.UnavailableLocation,
		},
		{
			name: "timeout",
			handler: func(writer http.ResponseWriter, request *http.Request) {
				select {
				case <-request.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			want: geo.UnavailableLocation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, hits := provider(t, tt.handler)
			resolver := newResolver(server.URL, 60)

			assert.Equal(t, tt.want, resolver.Resolve(context.Background(), "8.8.8.8"))
			assert.Equal(t, int32(1), hits.Load())
		})
	}
}

/*
TestResolve_RequestPath checks the provider URL layout.
*/
func TestResolve_RequestPath(t *testing.T) {
	var path atomic.Value
	server, _ := provider(t, func(writer http.ResponseWriter, request *http.Request) {
		path.Store(request.URL.Path)
		_, _ = io.WriteString(writer, `{"city":"A","region":"B","country_name":"C"}`)
	})

	newResolver(server.URL+"/", 60).Resolve(context.Background(), "8.8.4.4")

	assert.Equal(t, "/8.8.4.4/json/", path.Load())
}

/*
TestResolve_SkipsUnroutable never calls out for local or invalid addresses.
*/
func TestResolve_SkipsUnroutable(t *testing.T) {
	server, hits := provider(t, func(writer http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(writer, `{"city":"X","region":"Y","country_name":"Z"}`)
	})
	resolver := newResolver(server.URL, 60)

	for _, ip := range []string{"", "Unknown", "127.0.0.1", "::1", "10.1.2.3", "192.168.0.4", "::ffff:127.0.0.1", "not-an-ip"} {
		assert.Equal(t, geo.UnknownLocation, resolver.Resolve(context.Background(), ip), ip)
	}
	assert.Equal(t, int32(0), hits.Load())
}

/*
TestResolve_Throttled answers locally once the outbound budget is spent.
*/
func TestResolve_Throttled(t *testing.T) {
	server, hits := provider(t, func(writer http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(writer, `{"city":"X","region":"Y","country_name":"Z"}`)
	})
	resolver := newResolver(server.URL, 1)

	assert.Equal(t, "X, Y, Z", resolver.Resolve(context.Background(), "8.8.8.8"))
	assert.Equal(t, geo.UnknownLocation, resolver.Resolve(context.Background(), "8.8.8.8"))
	assert.Equal(t, int32(1), hits.Load())
}

/*
TestResolve_Unreachable maps transport failures to the unavailable fallback.
*/
func TestResolve_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	assert.Equal(t, geo.UnavailableLocation, newResolver(baseURL, 60).Resolve(context.Background(), "8.8.8.8"))
}

/*
TestFormat fills the country fallback only.
*/
func TestFormat(t *testing.T) {
	assert.Equal(t, "Hanoi, Hanoi, Vietnam", geo.Format("Hanoi", "Hanoi", "Vietnam"))
	assert.Equal(t, "Hanoi, , Unknown", geo.Format("Hanoi", "", ""))
}
