// Package geocoder adapts geo-golang providers to the bootcamp Geocoder contract.
package geocoder

import (
	"context"
	"fmt"
	"strings"
	"time"

	geogolang "github.com/codingsince1985/geo-golang"
	"github.com/codingsince1985/geo-golang/mapquest/open"
	"github.com/codingsince1985/geo-golang/openstreetmap"
	"go.uber.org/zap"

	"github.com/kailas-cloud/devcamper/internal/domain/geo"
	"github.com/kailas-cloud/devcamper/internal/metrics"
)

// Providers.
const (
	ProviderMapQuest      = "mapquest"
	ProviderOpenStreetMap = "openstreetmap"
)

// Config holds geocoder settings.
type Config struct {
	Provider string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	Logger   *zap.Logger
}

// Geocoder resolves addresses through one geo-golang provider.
type Geocoder struct {
	provider string
	inner    geogolang.Geocoder
	timeout  time.Duration
	logger   *zap.Logger
}

// New creates a geocoder for the configured provider.
func New(cfg Config) (*Geocoder, error) {
	var inner geogolang.Geocoder
	switch cfg.Provider {
	case ProviderMapQuest:
		if cfg.BaseURL != "" {
			inner = open.Geocoder(cfg.APIKey, cfg.BaseURL)
		} else {
			inner = open.Geocoder(cfg.APIKey)
		}
	case ProviderOpenStreetMap:
		if cfg.BaseURL != "" {
			inner = openstreetmap.GeocoderWithURL(cfg.BaseURL)
		} else {
			inner = openstreetmap.Geocoder()
		}
	default:
		return nil, fmt.Errorf("unknown geocoder provider %q", cfg.Provider)
	}
	return Wrap(cfg.Provider, inner, cfg.Timeout, cfg.Logger), nil
}

// Wrap adapts an arbitrary geo-golang geocoder.
func Wrap(provider string, inner geogolang.Geocoder, timeout time.Duration, logger *zap.Logger) *Geocoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Geocoder{provider: provider, inner: inner, timeout: timeout, logger: logger}
}

type geocodeResult struct {
	loc  *geogolang.Location
	addr *geogolang.Address
	err  error
}

// Geocode returns the best match for address, or an empty slice when the
// provider finds nothing. Address details come from a reverse lookup of the
// match; when that fails the point carries coordinates only.
func (g *Geocoder) Geocode(ctx context.Context, address string) ([]geo.Point, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	// geo-golang is not context aware; the buffered channel lets the call finish after we give up.
	done := make(chan geocodeResult, 1)
	go func() {
		done <- g.lookup(address)
	}()

	var res geocodeResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res = geocodeResult{err: ctx.Err()}
	}
	duration := time.Since(start)
	metrics.GeocoderRequestDuration.WithLabelValues(g.provider).Observe(duration.Seconds())

	if res.err != nil {
		metrics.GeocoderRequestsTotal.WithLabelValues(g.provider, "error").Inc()
		g.logger.Error("Geocoding request failed",
			zap.String("provider", g.provider),
			zap.String("address", address),
			zap.Duration("duration", duration),
			zap.Error(res.err),
		)
		return nil, fmt.Errorf("geocode %q: %w", address, res.err)
	}
	if res.loc == nil {
		metrics.GeocoderRequestsTotal.WithLabelValues(g.provider, "no_match").Inc()
		g.logger.Debug("Geocoding found no match",
			zap.String("provider", g.provider),
			zap.String("address", address),
		)
		return []geo.Point{}, nil
	}

	metrics.GeocoderRequestsTotal.WithLabelValues(g.provider, "ok").Inc()
	g.logger.Debug("Geocoding request completed",
		zap.String("provider", g.provider),
		zap.Duration("duration", duration),
		zap.Float64("lat", res.loc.Lat),
		zap.Float64("lng", res.loc.Lng),
	)
	return []geo.Point{toPoint(*res.loc, res.addr)}, nil
}

func (g *Geocoder) lookup(address string) geocodeResult {
	loc, err := g.inner.Geocode(address)
	if err != nil || loc == nil {
		return geocodeResult{loc: loc, err: err}
	}
	if !geo.ValidateCoordinates(loc.Lat, loc.Lng) {
		return geocodeResult{err: fmt.Errorf("provider returned invalid coordinates %f,%f", loc.Lat, loc.Lng)}
	}

	addr, err := g.inner.ReverseGeocode(loc.Lat, loc.Lng)
	if err != nil {
		g.logger.Warn("Reverse geocoding failed",
			zap.String("provider", g.provider),
			zap.Error(err),
		)
		addr = nil
	}
	return geocodeResult{loc: loc, addr: addr}
}

func toPoint(loc geogolang.Location, addr *geogolang.Address) geo.Point {
	p := geo.NewPoint(loc.Lat, loc.Lng)
	if addr == nil {
		return p
	}
	p.FormattedAddress = addr.FormattedAddress
	p.Street = strings.TrimSpace(addr.HouseNumber + " " + addr.Street)
	p.City = addr.City
	p.State = addr.StateCode
	if p.State == "" {
		p.State = addr.State
	}
	p.Zipcode = addr.Postcode
	p.Country = strings.ToUpper(addr.CountryCode)
	return p
}
