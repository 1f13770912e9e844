package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ngmaloney/tidepool-terminal/internal/geocoding"
	"github.com/ngmaloney/tidepool-terminal/internal/models"
	"github.com/ngmaloney/tidepool-terminal/internal/noaa"
	"github.com/ngmaloney/tidepool-terminal/internal/stations"
	"github.com/ngmaloney/tidepool-terminal/internal/timezone"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeocoder struct {
	loc *geocoding.Location
	err error
}

func (f fakeGeocoder) Geocode(context.Context, string) (*geocoding.Location, error) {
	return f.loc, f.err
}

type fakeStore struct {
	stations   []models.Station
	withinUsed bool
}

func (f *fakeStore) All(context.Context) ([]models.Station, error) {
	return f.stations, nil
}

func (f *fakeStore) Within(_ context.Context, b orb.Bound) ([]models.Station, error) {
	f.withinUsed = true
	var out []models.Station
	for _, s := range f.stations {
		if b.Contains(orb.Point{s.Location.Longitude, s.Location.Latitude}) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) ByID(_ context.Context, id string) (models.Station, error) {
	for _, s := range f.stations {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Station{}, stations.ErrNotFound
}

type fakeTides struct {
	preds      *noaa.TidePredictions
	err        error
	begin, end models.Date
}

func (f *fakeTides) GetTidePredictions(_ context.Context, stationID string, begin, end models.Date) (*noaa.TidePredictions, error) {
	f.begin, f.end = begin, end
	if f.err != nil {
		return nil, f.err
	}
	p := *f.preds
	p.StationID = stationID
	return &p, nil
}

var directory = []models.Station{
	{ID: "BOS", Name: "Boston", State: "MA", Location: models.Coordinate{Latitude: 42.354, Longitude: -71.050}},
	{ID: "CHA", Name: "Chatham", State: "MA", Location: models.Coordinate{Latitude: 41.688, Longitude: -69.951}},
	{ID: "NYC", Name: "The Battery", State: "NY", Location: models.Coordinate{Latitude: 40.700, Longitude: -74.014}},
	{ID: "MRY", Name: "", State: "CA", Location: models.Coordinate{Latitude: 36.605, Longitude: -121.888}},
}

func newTestService(opts Options, tideClient noaa.TideClient) (*Service, *fakeStore) {
	store := &fakeStore{stations: directory}
	svc := NewService(fakeGeocoder{}, store, tideClient, timezone.Local{}, opts, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.Local) }
	return svc, store
}

func TestNewService_Defaults(t *testing.T) {
	svc, _ := newTestService(Options{}, nil)
	assert.Equal(t, stations.DefaultLimit, svc.opts.StationLimit)
	assert.Equal(t, 365, svc.opts.Days)
}

func TestNearestStations(t *testing.T) {
	svc, store := newTestService(Options{StationLimit: 2}, nil)

	matches, err := svc.NearestStations(context.Background(), models.Coordinate{Latitude: 42.0, Longitude: -70.5})
	require.NoError(t, err)

	require.Len(t, matches, 2)
	assert.Equal(t, "CHA", matches[0].Station.ID)
	assert.Equal(t, "BOS", matches[1].Station.ID)
	assert.False(t, store.withinUsed)
}

func TestNearestStations_Radius(t *testing.T) {
	svc, store := newTestService(Options{StationLimit: 5, RadiusMiles: 60}, nil)

	matches, err := svc.NearestStations(context.Background(), models.Coordinate{Latitude: 42.0, Longitude: -70.5})
	require.NoError(t, err)

	assert.True(t, store.withinUsed)
	for _, m := range matches {
		assert.LessOrEqual(t, m.DistanceMiles, 60.0)
	}
	assert.Len(t, matches, 2)
}

func TestNearestStations_NothingNearby(t *testing.T) {
	svc, _ := newTestService(Options{RadiusMiles: 10}, nil)

	matches, err := svc.NearestStations(context.Background(), models.Coordinate{Latitude: 0, Longitude: 0})
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestLocate(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(fakeGeocoder{err: geocoding.ErrNotFound}, store, nil, nil, Options{}, zerolog.Nop())

	_, err := svc.Locate(context.Background(), "Atlantis")
	assert.True(t, IsNotFound(err))

	svc = NewService(fakeGeocoder{loc: &geocoding.Location{Latitude: 1, Longitude: 2, Name: "x"}}, store, nil, nil, Options{}, zerolog.Nop())
	loc, err := svc.Locate(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, models.Coordinate{Latitude: 1, Longitude: 2}, loc.Coordinate())
}

func TestLoadDays(t *testing.T) {
	tideClient := &fakeTides{preds: &noaa.TidePredictions{
		StationName: "Monterey, Monterey Bay",
		Skipped:     1,
		Samples: []models.RawTideSample{
			{Date: models.NewDate(2024, time.June, 2), Time: models.NewTimeOfDay(6, 20), Height: -0.3, Kind: models.TideLow},
			{Date: models.NewDate(2024, time.June, 1), Time: models.NewTimeOfDay(11, 45), Height: 4.2, Kind: models.TideHigh},
			{Date: models.NewDate(2024, time.June, 1), Time: models.NewTimeOfDay(5, 30), Height: -0.5, Kind: models.TideLow},
		},
	}}
	svc, _ := newTestService(Options{Days: 30}, tideClient)

	cal, err := svc.LoadDays(context.Background(), "MRY", models.Date{})
	require.NoError(t, err)

	today := models.NewDate(2024, time.June, 1)
	assert.Equal(t, today, cal.Today)
	assert.Equal(t, today, tideClient.begin)
	assert.Equal(t, models.NewDate(2024, time.July, 1), tideClient.end)

	assert.Equal(t, "Monterey, Monterey Bay", cal.Station.Name)
	assert.Equal(t, 1, cal.Skipped)
	require.Len(t, cal.Days, 2)
	assert.Equal(t, today, cal.Days[0].Date)

	day, ok := cal.Day(models.NewDate(2024, time.June, 2))
	require.True(t, ok)
	assert.Equal(t, -0.3, day.MinHeight)

	good := cal.GoodDays(models.FilterSettings{MaxTideLevel: 0, DaylightOnly: true})
	assert.Equal(t, []models.Date{models.NewDate(2024, time.June, 2)}, good)
}

func TestLoadDays_ExplicitStart(t *testing.T) {
	tideClient := &fakeTides{preds: &noaa.TidePredictions{}}
	svc, _ := newTestService(Options{Days: 1}, tideClient)

	from := models.NewDate(2025, time.January, 31)
	cal, err := svc.LoadDays(context.Background(), "BOS", from)
	require.NoError(t, err)

	assert.Equal(t, from, tideClient.begin)
	assert.Equal(t, models.NewDate(2025, time.February, 1), tideClient.end)
	assert.Equal(t, "Boston", cal.Station.Name)
	assert.Empty(t, cal.Days)
}

func TestLoadDays_Errors(t *testing.T) {
	svc, _ := newTestService(Options{}, &fakeTides{err: errors.New("timeout")})

	_, err := svc.LoadDays(context.Background(), "NOPE", models.Date{})
	assert.ErrorIs(t, err, stations.ErrNotFound)
	assert.True(t, IsNotFound(err))

	_, err = svc.LoadDays(context.Background(), "BOS", models.Date{})
	assert.ErrorContains(t, err, "timeout")
	assert.False(t, IsNotFound(err))
}
