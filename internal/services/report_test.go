package services

import (
	"testing"
	"time"

	"github.com/bobby-s-dev/air-quality-lookup/internal/models"
	"github.com/stretchr/testify/assert"
)

var berlin = models.Location{
	Name:      "Berlin",
	Country:   "Germany",
	Admin1:    "Land Berlin",
	Latitude:  52.52437,
	Longitude: 13.41053,
	Timezone:  "Europe/Berlin",
}

func TestBuildReport_Full(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 3, 5, 0, time.UTC)
	aq := &models.AirQualitySample{AQI: 33.6, PM10: ptr(12.34), PM25: ptr(7.06), Ozone: ptr(48), Time: "2026-10-17T14:00"}
	uv := &models.UvSample{Value: 3.25, Time: "2026-10-17T14:00"}

	r := BuildReport(berlin, aq, uv, now)

	assert.Equal(t, "Berlin, Germany", r.Title)
	assert.Equal(t, "Latitude: 52.52, Longitude: 13.41", r.Details)
	assert.Equal(t, "17/10/2026, 14:03:05", r.Timestamp)
	assert.Equal(t, models.Indicator{Value: "34", Description: "Fair air quality."}, r.AQI)
	assert.Equal(t, "3.3", r.UV.Value)
	assert.Equal(t, "Moderate UV risk.", r.UV.Description)
	assert.Equal(t, "12.3", r.PM10)
	assert.Equal(t, "7.1", r.PM25)
	assert.Equal(t, "48.0", r.Ozone)
	assert.Equal(t, "Air quality is generally acceptable - most people can continue normal outdoor activities. Moderate UV - use sunscreen and wear sunglasses.", r.Health)
	assert.Same(t, aq, r.AirQuality)
	assert.Same(t, uv, r.UvSample)
}

func TestBuildReport_NoData(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	loc := models.Location{Name: "Longyearbyen", Country: "Svalbard", Latitude: 78.2232, Longitude: 15.6267}

	r := BuildReport(loc, nil, nil, now)

	assert.Equal(t, "02/01/2026, 03:04:05", r.Timestamp)
	assert.Equal(t, models.Indicator{Value: "N/A", Description: "No air quality data."}, r.AQI)
	assert.Equal(t, models.Indicator{Value: "N/A", Description: "No UV data."}, r.UV)
	assert.Equal(t, "N/A", r.PM10)
	assert.Equal(t, "N/A", r.PM25)
	assert.Equal(t, "N/A", r.Ozone)
	assert.Equal(t, "No recommendation available.", r.Health)
	assert.Nil(t, r.AirQuality)
	assert.Nil(t, r.UvSample)
}

func TestBuildReport_MissingPollutants(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	aq := &models.AirQualitySample{AQI: 85, PM10: ptr(90.25)}

	r := BuildReport(berlin, aq, nil, now)

	assert.Equal(t, "85", r.AQI.Value)
	assert.Equal(t, "Very poor air quality.", r.AQI.Description)
	assert.Equal(t, "90.3", r.PM10)
	assert.Equal(t, "N/A", r.PM25)
	assert.Equal(t, "N/A", r.Ozone)
	assert.Equal(t, "No UV data.", r.UV.Description)
	assert.Equal(t, "Very poor air quality - avoid outdoor exertion.", r.Health)
}

func TestBuildReport_UnknownTimezoneFallsBackToUTC(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	loc := berlin
	loc.Timezone = "Mars/Olympus_Mons"

	r := BuildReport(loc, nil, nil, now)

	assert.Equal(t, "17/10/2026, 12:00:00", r.Timestamp)
}

func TestBuildReport_RoundsTiesUp(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	aq := &models.AirQualitySample{AQI: 2.5, PM10: ptr(0.25), PM25: ptr(90.25), Ozone: ptr(1.25)}
	uv := &models.UvSample{Value: 3.25}

	r := BuildReport(berlin, aq, uv, now)

	assert.Equal(t, "3", r.AQI.Value)
	assert.Equal(t, "0.3", r.PM10)
	assert.Equal(t, "90.3", r.PM25)
	assert.Equal(t, "1.3", r.Ozone)
	assert.Equal(t, "3.3", r.UV.Value)
}

func TestToFixed(t *testing.T) {
	tests := []struct {
		v        float64
		decimals int
		want     string
	}{
		{0, 0, "0"},
		{0, 1, "0.0"},
		{2.5, 0, "3"},
		{33.6, 0, "34"},
		{120, 0, "120"},
		{0.25, 1, "0.3"},
		{3.25, 1, "3.3"},
		{12.34, 1, "12.3"},
		{7.06, 1, "7.1"},
		// 1.45 is stored as 1.4499999999999999556
		{1.45, 1, "1.4"},
		{0.05, 1, "0.1"},
		{52.52437, 2, "52.52"},
		{0.125, 2, "0.13"},
		{0.004, 2, "0.00"},
		{-46.63611, 2, "-46.64"},
		{-0.04, 1, "-0.0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, toFixed(tt.v, tt.decimals), "toFixed(%v, %d)", tt.v, tt.decimals)
	}
}
