// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package geo resolves client IP addresses to a human-readable location.

The lookup is advisory metadata attached to a registration. [Resolver.Resolve]
never returns an error: every failure mode maps to a fixed fallback string,
so a slow or broken provider can delay a registration by at most the
configured timeout and can never fail it.
*/
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Fallback values returned instead of an error.
const (
	// UnknownLocation is used when the provider answered but had no data,
	// or when no lookup was attempted.
	UnknownLocation = "Unknown location"

	// UnavailableLocation is used when the provider could not be reached or
	// returned an unreadable body.
	UnavailableLocation = "Unable to retrieve location"

	// UnknownCountry replaces a missing country segment.
	UnknownCountry = "Unknown"
)

// maxBodyBytes bounds how much of the provider response is read.
const maxBodyBytes = 64 << 10

// Options configures a [Resolver].
type Options struct {
	// BaseURL is the provider root; lookups go to {BaseURL}/{ip}/json/.
	BaseURL string
	// Timeout bounds each lookup, including reading the body.
	Timeout time.Duration
	// RatePerMinute caps outbound lookups. Calls over the cap get
	// UnknownLocation immediately rather than waiting.
	RatePerMinute int
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Resolver looks up IP locations against an ipapi.co-compatible endpoint.
//
// It is safe for concurrent use.
type Resolver struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// providerResponse is the subset of the provider payload we read.
type providerResponse struct {
	City        string `json:"city"`
	Region      string `json:"region"`
	CountryName string `json:"country_name"`
	Error       bool   `json:"error"`
	Reason      string `json:"reason"`
}

// NewResolver builds a resolver from options.
func NewResolver(options Options, logger *slog.Logger) *Resolver {
	client := options.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	perMinute := options.RatePerMinute
	if perMinute <= 0 {
		perMinute = 1
	}

	return &Resolver{
		baseURL: strings.TrimRight(options.BaseURL, "/"),
		timeout: options.Timeout,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		logger:  logger,
	}
}

// Resolve returns "<city>, <region>, <country>" for ip, or a fallback string.
func (resolver *Resolver) Resolve(ctx context.Context, ip string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil || !isRoutable(addr) {
		return UnknownLocation
	}

	if !resolver.limiter.Allow() {
		resolver.logger.WarnContext(ctx, "geo_lookup_throttled", slog.String("ip", ip))
		return UnknownLocation
	}

	if resolver.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, resolver.timeout)
		defer cancel()
	}

	location, err := resolver.lookup(ctx, addr)
	if err != nil {
		resolver.logger.WarnContext(ctx, "geo_lookup_failed",
			slog.String("ip", ip),
			slog.Any("error", err),
		)
	}
	return location
}

// lookup performs the HTTP call. It always returns a usable string; the
// error is only for logging.
func (resolver *Resolver) lookup(ctx context.Context, addr netip.Addr) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/json/", resolver.baseURL, url.PathEscape(addr.String()))

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return UnavailableLocation, fmt.Errorf("geo: build request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := resolver.client.Do(request)
	if err != nil {
		return UnavailableLocation, fmt.Errorf("geo: request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return UnknownLocation, fmt.Errorf("geo: provider status %d", response.StatusCode)
	}

	var payload providerResponse
	if err := json.NewDecoder(io.LimitReader(response.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return UnavailableLocation, fmt.Errorf("geo: decode body: %w", err)
	}

	if payload.Error {
		return UnknownLocation, fmt.Errorf("geo: provider error: %s", payload.Reason)
	}

	return Format(payload.City, payload.Region, payload.CountryName), nil
}

// Format renders the location string. Empty city or region stay blank; an
// empty country becomes UnknownCountry.
func Format(city, region, country string) string {
	if country == "" {
		country = UnknownCountry
	}
	return city + ", " + region + ", " + country
}

// isRoutable filters addresses the provider cannot locate.
func isRoutable(addr netip.Addr) bool {
	addr = addr.Unmap()
	return addr.IsValid() &&
		!addr.IsLoopback() &&
		!addr.IsPrivate() &&
		!addr.IsUnspecified() &&
		!addr.IsLinkLocalUnicast() &&
		!addr.IsMulticast()
}
