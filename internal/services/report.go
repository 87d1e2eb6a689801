package services

import (
	"math/big"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/bobby-s-dev/air-quality-lookup/internal/models"
)

const (
	notAvailable = "N/A"

	// en-GB dateStyle short + timeStyle medium
	timestampLayout = "02/01/2006, 15:04:05"
)

// BuildReport turns the fetched samples into display strings. Either sample
// may be nil.
func BuildReport(location models.Location, aq *models.AirQualitySample, uv *models.UvSample, now time.Time) *models.Report {
	report := &models.Report{
		Location:   location,
		Title:      location.Name + ", " + location.Country,
		Details:    "Latitude: " + toFixed(location.Latitude, 2) + ", Longitude: " + toFixed(location.Longitude, 2),
		Timestamp:  now.In(loadLocation(location.Timezone)).Format(timestampLayout),
		PM10:       notAvailable,
		PM25:       notAvailable,
		Ozone:      notAvailable,
		AirQuality: aq,
		UvSample:   uv,
	}

	var aqi, uvIndex *float64

	if aq != nil {
		aqi = &aq.AQI
		report.AQI = models.Indicator{
			Value:       toFixed(aq.AQI, 0),
			Description: DescribeAqi(aq.AQI),
		}
		report.PM10 = formatOptional(aq.PM10)
		report.PM25 = formatOptional(aq.PM25)
		report.Ozone = formatOptional(aq.Ozone)
	} else {
		report.AQI = models.Indicator{Value: notAvailable, Description: "No air quality data."}
	}

	if uv != nil {
		uvIndex = &uv.Value
		report.UV = models.Indicator{
			Value:       toFixed(uv.Value, 1),
			Description: DescribeUv(uv.Value),
		}
	} else {
		report.UV = models.Indicator{Value: notAvailable, Description: "No UV data."}
	}

	report.Health = HealthRecommendation(aqi, uvIndex)

	return report
}

func formatOptional(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return toFixed(*v, 1)
}

// toFixed formats v with the given number of decimals, rounding exact ties
// of the binary value away from zero (fmt rounds them to even).
func toFixed(v float64, decimals int) string {
	neg := v < 0
	if neg {
		v = -v
	}

	x := new(big.Float).SetPrec(256).SetFloat64(v)
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	x.Mul(x, new(big.Float).SetInt(scale))
	x.Add(x, big.NewFloat(0.5))

	n, _ := x.Int(nil)
	digits := n.String()
	if decimals > 0 {
		if len(digits) <= decimals {
			digits = strings.Repeat("0", decimals-len(digits)+1) + digits
		}
		digits = digits[:len(digits)-decimals] + "." + digits[len(digits)-decimals:]
	}

	if neg {
		return "-" + digits
	}
	return digits
}

// loadLocation falls back to UTC for empty or unknown zone names.
func loadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
