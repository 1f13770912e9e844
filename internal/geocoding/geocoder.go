package geocoding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/ngmaloney/tidepool-terminal/internal/models"
	"github.com/rs/zerolog"
)

var (
	// ErrEmptyQuery is returned before any provider runs
	ErrEmptyQuery = errors.New("query cannot be empty")
	// ErrNotFound means a provider understood the query but had no match
	ErrNotFound = errors.New("location not found")
	// ErrUnsupportedQuery means a provider does not handle this kind of query
	ErrUnsupportedQuery = errors.New("query not supported by provider")
)

// Location represents a geocoded location
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
	Provider  string  `json:"provider"`
}

// Coordinate returns the location as a models.Coordinate
func (l Location) Coordinate() models.Coordinate {
	return models.Coordinate{Latitude: l.Latitude, Longitude: l.Longitude}
}

// Provider resolves free-form queries to a location
type Provider interface {
	Name() string
	Geocode(ctx context.Context, query string) (*Location, error)
}

// State is the progress of a lookup through the provider chain
type State int

const (
	NotTried State = iota
	Trying
	Succeeded
	AllFailed
)

func (s State) String() string {
	switch s {
	case NotTried:
		return "not tried"
	case Trying:
		return "trying"
	case Succeeded:
		return "succeeded"
	case AllFailed:
		return "all failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Lookup records one query's walk through the chain. Provider names the
// provider being tried or the one that succeeded. Err is set only in AllFailed
// and holds every provider's error. It matches ErrNotFound only when no
// provider failed for any other reason.
type Lookup struct {
	Query    string
	State    State
	Provider string
	Location *Location
	Err      error
}

func (l *Lookup) try(provider string) {
	l.State = Trying
	l.Provider = provider
}

func (l *Lookup) succeed(loc *Location) {
	l.State = Succeeded
	l.Location = loc
	l.Err = nil
}

func (l *Lookup) fail(err error) {
	if l.Provider != "" {
		err = fmt.Errorf("%s: %w", l.Provider, err)
	}
	l.Err = multierror.Append(l.Err, err)
}

func (l *Lookup) giveUp() {
	l.State = AllFailed
	l.Provider = ""
	var merr *multierror.Error
	if !errors.As(l.Err, &merr) {
		l.Err = ErrNotFound
		return
	}
	l.Err = &chainError{merr: merr}
}

// chainError is the error of a lookup that ran out of providers. Not-found and
// unsupported answers are folded into ErrNotFound, which is only reachable
// through Unwrap when they are the sole causes.
type chainError struct {
	merr *multierror.Error
}

func (e *chainError) Error() string { return e.merr.Error() }

func (e *chainError) Unwrap() []error {
	var others []error
	for _, err := range e.merr.Errors {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnsupportedQuery) {
			continue
		}
		others = append(others, err)
	}
	if len(others) == 0 {
		return []error{ErrNotFound}
	}
	return others
}

// As exposes the underlying *multierror.Error
func (e *chainError) As(target any) bool {
	if t, ok := target.(**multierror.Error); ok {
		*t = e.merr
		return true
	}
	return false
}

// Geocoder converts user queries to coordinates by asking each provider in
// order until one succeeds
type Geocoder struct {
	providers []Provider
	logger    zerolog.Logger
}

// NewGeocoder creates a geocoder over an ordered provider chain
func NewGeocoder(logger zerolog.Logger, providers ...Provider) *Geocoder {
	return &Geocoder{
		providers: providers,
		logger:    logger.With().Str("component", "geocoding").Logger(),
	}
}

// Resolve walks the provider chain and returns the final state of the lookup
func (g *Geocoder) Resolve(ctx context.Context, query string) Lookup {
	lookup := Lookup{Query: strings.TrimSpace(query)}
	if lookup.Query == "" {
		lookup.State = AllFailed
		lookup.Err = ErrEmptyQuery
		return lookup
	}

	for _, p := range g.providers {
		if err := ctx.Err(); err != nil {
			lookup.Provider = ""
			lookup.fail(err)
			break
		}

		lookup.try(p.Name())
		g.logger.Debug().Str("provider", p.Name()).Str("query", lookup.Query).Msg("geocoding")

		loc, err := p.Geocode(ctx, lookup.Query)
		if err == nil && loc != nil {
			loc.Provider = p.Name()
			lookup.succeed(loc)
			g.logger.Info().Str("provider", p.Name()).Str("name", loc.Name).Msg("location resolved")
			return lookup
		}
		if err == nil {
			err = ErrNotFound
		}
		if !errors.Is(err, ErrUnsupportedQuery) {
			g.logger.Debug().Err(err).Str("provider", p.Name()).Msg("provider failed")
		}
		lookup.fail(err)
	}

	lookup.giveUp()
	return lookup
}

// Geocode converts a query (coordinates, zipcode, city/state, address) to a location
func (g *Geocoder) Geocode(ctx context.Context, query string) (*Location, error) {
	lookup := g.Resolve(ctx, query)
	if lookup.State != Succeeded {
		return nil, lookup.Err
	}
	return lookup.Location, nil
}
