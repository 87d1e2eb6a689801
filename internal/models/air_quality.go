package models

// Location is a geocoding hit resolved from a place name.
type Location struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// AirQualitySample is the latest hourly entry carrying a European AQI.
// Pollutant fields are nil when the upstream series has no value at that hour.
type AirQualitySample struct {
	AQI   float64  `json:"european_aqi"`
	PM10  *float64 `json:"pm10"`
	PM25  *float64 `json:"pm2_5"`
	Ozone *float64 `json:"ozone"`
	Time  string   `json:"time"`
}

type UvSample struct {
	Value float64 `json:"uv_index"`
	Time  string  `json:"time"`
}

type Suggestion struct {
	Label string `json:"label"`
	Name  string `json:"name"`
}

type Indicator struct {
	Value       string `json:"value"`
	Description string `json:"description"`
}

// Report is everything the widget needs to render one lookup.
type Report struct {
	Location   Location          `json:"location"`
	Title      string            `json:"title"`
	Details    string            `json:"details"`
	Timestamp  string            `json:"timestamp"`
	AQI        Indicator         `json:"aqi"`
	UV         Indicator         `json:"uv"`
	PM10       string            `json:"pm10"`
	PM25       string            `json:"pm2_5"`
	Ozone      string            `json:"ozone"`
	Health     string            `json:"health"`
	AirQuality *AirQualitySample `json:"air_quality"`
	UvSample   *UvSample         `json:"uv_sample"`
}
