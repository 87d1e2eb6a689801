package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bobby-s-dev/air-quality-lookup/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEmptyCity    = errors.New("please enter a city name")
	ErrCityNotFound = errors.New("city not found")
)

const (
	suggestionCount = 5
	minQueryLength  = 2
)

type AirQualityClient interface {
	SearchLocations(ctx context.Context, name string, count int) ([]models.Location, error)
	GetAirQuality(ctx context.Context, latitude, longitude float64) (*models.AirQualitySample, error)
	GetUvIndex(ctx context.Context, latitude, longitude float64) (*models.UvSample, error)
}

type LookupService struct {
	client  AirQualityClient
	logger  *zap.Logger
	timeout time.Duration
	now     func() time.Time

	mu           sync.RWMutex
	lastLookup   time.Time
	successCount int
	notFound     int
	failureCount int
}

func NewLookupService(client AirQualityClient, timeout time.Duration, logger *zap.Logger) *LookupService {
	return &LookupService{
		client:  client,
		logger:  logger,
		timeout: timeout,
		now:     time.Now,
	}
}

// Suggest returns autocomplete entries for a partially typed city. Upstream
// failures yield no suggestions rather than an error.
func (s *LookupService) Suggest(ctx context.Context, query string) []models.Suggestion {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minQueryLength {
		return []models.Suggestion{}
	}

	locations, err := s.client.SearchLocations(ctx, query, suggestionCount)
	if err != nil {
		s.logger.Warn("Autocomplete lookup failed",
			zap.String("query", query),
			zap.Error(err))
		return []models.Suggestion{}
	}

	suggestions := make([]models.Suggestion, 0, len(locations))
	for _, loc := range locations {
		label := loc.Name
		if loc.Admin1 != "" {
			label += ", " + loc.Admin1
		}
		label += ", " + loc.Country

		suggestions = append(suggestions, models.Suggestion{Label: label, Name: loc.Name})
	}

	return suggestions
}

// Lookup resolves city and fetches its air quality and UV readings in
// parallel. A failure of either fetch fails the whole lookup; missing data
// does not.
func (s *LookupService) Lookup(ctx context.Context, city string) (*models.Report, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrEmptyCity
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	startTime := s.now()

	report, err := s.lookup(ctx, city)
	s.record(err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Lookup completed",
		zap.String("city", city),
		zap.String("location", report.Title),
		zap.String("aqi", report.AQI.Value),
		zap.String("uv", report.UV.Value),
		zap.Duration("duration", s.now().Sub(startTime)))

	return report, nil
}

func (s *LookupService) lookup(ctx context.Context, city string) (*models.Report, error) {
	locations, err := s.client.SearchLocations(ctx, city, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", city, err)
	}
	if len(locations) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrCityNotFound, city)
	}
	location := locations[0]

	var (
		airQuality *models.AirQualitySample
		uv         *models.UvSample
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sample, err := s.client.GetAirQuality(gctx, location.Latitude, location.Longitude)
		if err != nil {
			return err
		}
		airQuality = sample
		return nil
	})
	g.Go(func() error {
		sample, err := s.client.GetUvIndex(gctx, location.Latitude, location.Longitude)
		if err != nil {
			return err
		}
		uv = sample
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load data for %s: %w", location.Name, err)
	}

	return BuildReport(location, airQuality, uv, s.now()), nil
}

func (s *LookupService) record(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastLookup = s.now()
	switch {
	case err == nil:
		s.successCount++
	case errors.Is(err, ErrCityNotFound):
		s.notFound++
	default:
		s.failureCount++
	}
}

func (s *LookupService) GetLastLookupTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastLookup
}

func (s *LookupService) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"last_lookup_time": s.lastLookup,
		"success_count":    s.successCount,
		"not_found_count":  s.notFound,
		"failure_count":    s.failureCount,
	}
}
