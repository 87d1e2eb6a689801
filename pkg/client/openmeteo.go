package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/bobby-s-dev/air-quality-lookup/internal/models"
	"go.uber.org/zap"
)

type OpenMeteoClient struct {
	geocoding  *BaseClient
	airQuality *BaseClient
	forecast   *BaseClient

	geocodingURL  string
	airQualityURL string
	forecastURL   string
}

type OpenMeteoEndpoints struct {
	GeocodingURL  string
	AirQualityURL string
	ForecastURL   string
}

type GeocodingResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Country   string  `json:"country"`
		Admin1    string  `json:"admin1"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Timezone  string  `json:"timezone"`
	} `json:"results"`
}

// Hourly values are pointers because Open-Meteo pads series with null.
type AirQualityResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Hourly    *struct {
		Time        []string   `json:"time"`
		EuropeanAQI []*float64 `json:"european_aqi"`
		PM10        []*float64 `json:"pm10"`
		PM25        []*float64 `json:"pm2_5"`
		Ozone       []*float64 `json:"ozone"`
	} `json:"hourly"`
}

type UvResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Current   *struct {
		Time    string   `json:"time"`
		UvIndex *float64 `json:"uv_index"`
	} `json:"current"`
}

func NewOpenMeteoClient(endpoints OpenMeteoEndpoints, config ClientConfig, logger *zap.Logger) *OpenMeteoClient {
	return &OpenMeteoClient{
		geocoding:     NewBaseClient("open-meteo-geocoding", config, logger),
		airQuality:    NewBaseClient("open-meteo-air-quality", config, logger),
		forecast:      NewBaseClient("open-meteo-forecast", config, logger),
		geocodingURL:  endpoints.GeocodingURL,
		airQualityURL: endpoints.AirQualityURL,
		forecastURL:   endpoints.ForecastURL,
	}
}

// SearchLocations returns up to count geocoding matches for name. An empty
// slice means the geocoder knows no such place.
func (c *OpenMeteoClient) SearchLocations(ctx context.Context, name string, count int) ([]models.Location, error) {
	query := url.Values{}
	query.Set("name", name)
	query.Set("count", strconv.Itoa(count))
	query.Set("language", "en")
	query.Set("format", "json")

	data, err := c.geocoding.Get(ctx, c.geocodingURL+"/search?"+query.Encode())
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}

	var response GeocodingResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse geocoding response: %w", err)
	}

	locations := make([]models.Location, 0, len(response.Results))
	for _, r := range response.Results {
		locations = append(locations, models.Location{
			Name:      r.Name,
			Country:   r.Country,
			Admin1:    r.Admin1,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Timezone:  r.Timezone,
		})
	}

	return locations, nil
}

// GetAirQuality returns the most recent hourly sample with a numeric
// European AQI, or nil when the series carries none.
func (c *OpenMeteoClient) GetAirQuality(ctx context.Context, latitude, longitude float64) (*models.AirQualitySample, error) {
	query := coordinates(latitude, longitude)
	query.Set("hourly", "european_aqi,pm10,pm2_5,ozone")
	query.Set("timezone", "auto")

	data, err := c.airQuality.Get(ctx, c.airQualityURL+"/air-quality?"+query.Encode())
	if err != nil {
		return nil, fmt.Errorf("air quality request failed: %w", err)
	}

	var response AirQualityResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse air quality response: %w", err)
	}

	if response.Hourly == nil {
		return nil, nil
	}
	hourly := response.Hourly

	picked := -1
	for i := len(hourly.EuropeanAQI) - 1; i >= 0; i-- {
		if hourly.EuropeanAQI[i] != nil {
			picked = i
			break
		}
	}
	if picked == -1 {
		return nil, nil
	}

	sample := &models.AirQualitySample{
		AQI:   *hourly.EuropeanAQI[picked],
		PM10:  valueAt(hourly.PM10, picked),
		PM25:  valueAt(hourly.PM25, picked),
		Ozone: valueAt(hourly.Ozone, picked),
	}
	if picked < len(hourly.Time) {
		sample.Time = hourly.Time[picked]
	}

	return sample, nil
}

// GetUvIndex returns the current UV index, or nil when none is reported.
func (c *OpenMeteoClient) GetUvIndex(ctx context.Context, latitude, longitude float64) (*models.UvSample, error) {
	query := coordinates(latitude, longitude)
	query.Set("current", "uv_index")
	query.Set("timezone", "auto")

	data, err := c.forecast.Get(ctx, c.forecastURL+"/forecast?"+query.Encode())
	if err != nil {
		return nil, fmt.Errorf("UV request failed: %w", err)
	}

	var response UvResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse UV response: %w", err)
	}

	if response.Current == nil || response.Current.UvIndex == nil {
		return nil, nil
	}

	return &models.UvSample{
		Value: *response.Current.UvIndex,
		Time:  response.Current.Time,
	}, nil
}

func coordinates(latitude, longitude float64) url.Values {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	return query
}

func valueAt(series []*float64, i int) *float64 {
	if i >= len(series) || series[i] == nil {
		return nil
	}
	v := *series[i]
	return &v
}
