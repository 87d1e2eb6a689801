package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bobby-s-dev/air-quality-lookup/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClient struct {
	mu        sync.Mutex
	searches  []string
	counts    []int
	locations []models.Location
	searchErr error

	airQuality    *models.AirQualitySample
	airQualityErr error
	uv            *models.UvSample
	uvErr         error

	// when set, each fetch waits for the other one to start
	barrier *sync.WaitGroup
	met     int
}

func (f *fakeClient) SearchLocations(ctx context.Context, name string, count int) ([]models.Location, error) {
	f.mu.Lock()
	f.searches = append(f.searches, name)
	f.counts = append(f.counts, count)
	f.mu.Unlock()

	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if len(f.locations) > count {
		return f.locations[:count], nil
	}
	return f.locations, nil
}

func (f *fakeClient) GetAirQuality(ctx context.Context, latitude, longitude float64) (*models.AirQualitySample, error) {
	f.rendezvous(ctx)
	return f.airQuality, f.airQualityErr
}

func (f *fakeClient) GetUvIndex(ctx context.Context, latitude, longitude float64) (*models.UvSample, error) {
	f.rendezvous(ctx)
	return f.uv, f.uvErr
}

func (f *fakeClient) rendezvous(ctx context.Context) {
	if f.barrier == nil {
		return
	}
	f.barrier.Done()

	done := make(chan struct{})
	go func() {
		f.barrier.Wait()
		close(done)
	}()

	select {
	case <-done:
		f.mu.Lock()
		f.met++
		f.mu.Unlock()
	case <-ctx.Done():
	case <-time.After(time.Second):
	}
}

func newTestService(client AirQualityClient) *LookupService {
	s := NewLookupService(client, 5*time.Second, zap.NewNop())
	s.now = func() time.Time { return time.Date(2026, 10, 17, 12, 3, 5, 0, time.UTC) }
	return s
}

func TestSuggest_ShortQuerySkipsUpstream(t *testing.T) {
	client := &fakeClient{}
	s := newTestService(client)

	for _, q := range []string{"", " ", "B", "  é  "} {
		assert.Empty(t, s.Suggest(context.Background(), q))
	}
	assert.Empty(t, client.searches)
}

func TestSuggest_Labels(t *testing.T) {
	client := &fakeClient{locations: []models.Location{
		{Name: "Springfield", Admin1: "Illinois", Country: "United States"},
		{Name: "Springfield", Country: "Australia"},
	}}
	s := newTestService(client)

	got := s.Suggest(context.Background(), "  Spring ")

	assert.Equal(t, []models.Suggestion{
		{Label: "Springfield, Illinois, United States", Name: "Springfield"},
		{Label: "Springfield, Australia", Name: "Springfield"},
	}, got)
	assert.Equal(t, []string{"Spring"}, client.searches)
	assert.Equal(t, []int{5}, client.counts)
}

func TestSuggest_UpstreamErrorYieldsEmptyList(t *testing.T) {
	s := newTestService(&fakeClient{searchErr: errors.New("boom")})

	got := s.Suggest(context.Background(), "Berlin")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLookup_EmptyCity(t *testing.T) {
	client := &fakeClient{}
	s := newTestService(client)

	_, err := s.Lookup(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyCity)
	assert.Empty(t, client.searches)
}

func TestLookup_CityNotFound(t *testing.T) {
	s := newTestService(&fakeClient{})

	_, err := s.Lookup(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrCityNotFound)
	assert.Equal(t, 1, s.GetStats()["not_found_count"])
}

func TestLookup_GeocodingFailure(t *testing.T) {
	upstream := errors.New("geocoding down")
	s := newTestService(&fakeClient{searchErr: upstream})

	_, err := s.Lookup(context.Background(), "Berlin")
	assert.ErrorIs(t, err, upstream)
	assert.NotErrorIs(t, err, ErrCityNotFound)
	assert.Equal(t, 1, s.GetStats()["failure_count"])
}

func TestLookup_FetchesConcurrently(t *testing.T) {
	client := &fakeClient{
		locations:  []models.Location{berlin},
		airQuality: &models.AirQualitySample{AQI: 18, PM10: ptr(9.5)},
		uv:         &models.UvSample{Value: 6.4, Time: "2026-10-17T14:00"},
		barrier:    &sync.WaitGroup{},
	}
	client.barrier.Add(2)
	s := newTestService(client)

	report, err := s.Lookup(context.Background(), " Berlin ")
	require.NoError(t, err)

	assert.Equal(t, 2, client.met, "air quality and UV should be fetched in parallel")
	assert.Equal(t, []string{"Berlin"}, client.searches)
	assert.Equal(t, []int{1}, client.counts)
	assert.Equal(t, "Berlin, Germany", report.Title)
	assert.Equal(t, "17/10/2026, 14:03:05", report.Timestamp)
	assert.Equal(t, "18", report.AQI.Value)
	assert.Equal(t, "Good air quality.", report.AQI.Description)
	assert.Equal(t, "6.4", report.UV.Value)
	assert.Equal(t, "High UV risk.", report.UV.Description)
	assert.Equal(t, "9.5", report.PM10)
	assert.Equal(t, "N/A", report.PM25)

	stats := s.GetStats()
	assert.Equal(t, 1, stats["success_count"])
	assert.False(t, s.GetLastLookupTime().IsZero())
}

func TestLookup_MissingDataIsNotAnError(t *testing.T) {
	s := newTestService(&fakeClient{locations: []models.Location{berlin}})

	report, err := s.Lookup(context.Background(), "Berlin")
	require.NoError(t, err)
	assert.Equal(t, "N/A", report.AQI.Value)
	assert.Equal(t, "N/A", report.UV.Value)
	assert.Equal(t, "No recommendation available.", report.Health)
}

func TestLookup_EitherFetchFailingFailsLookup(t *testing.T) {
	upstream := errors.New("HTTP 503")

	tests := map[string]*fakeClient{
		"air quality": {
			locations:     []models.Location{berlin},
			airQualityErr: upstream,
			uv:            &models.UvSample{Value: 1},
		},
		"uv": {
			locations:  []models.Location{berlin},
			airQuality: &models.AirQualitySample{AQI: 10},
			uvErr:      upstream,
		},
	}

	for name, client := range tests {
		t.Run(name, func(t *testing.T) {
			s := newTestService(client)

			report, err := s.Lookup(context.Background(), "Berlin")
			assert.Nil(t, report)
			assert.ErrorIs(t, err, upstream)
		})
	}
}
