package services

import "strings"

// DescribeAqi maps a European AQI value to its band description.
func DescribeAqi(value float64) string {
	switch {
	case value <= 20:
		return "Good air quality."
	case value <= 40:
		return "Fair air quality."
	case value <= 60:
		return "Moderate air quality."
	case value <= 80:
		return "Poor air quality."
	default:
		return "Very poor air quality."
	}
}

// DescribeUv maps a UV index to its risk band description.
func DescribeUv(value float64) string {
	switch {
	case value < 3:
		return "Low UV risk."
	case value < 6:
		return "Moderate UV risk."
	case value < 8:
		return "High UV risk."
	case value < 11:
		return "Very high UV risk."
	default:
		return "Extreme UV risk."
	}
}

// HealthRecommendation combines advice for whichever readings are present.
func HealthRecommendation(aqi, uv *float64) string {
	var messages []string

	if aqi != nil {
		switch v := *aqi; {
		case v <= 20:
			messages = append(messages, "Air quality is good - outdoor activity is safe.")
		case v <= 40:
			messages = append(messages, "Air quality is generally acceptable - most people can continue normal outdoor activities.")
		case v <= 60:
			messages = append(messages, "Moderate air quality - consider reducing prolonged outdoor exertion.")
		case v <= 80:
			messages = append(messages, "Poor air quality - limit outdoor activity if possible.")
		default:
			messages = append(messages, "Very poor air quality - avoid outdoor exertion.")
		}
	}

	if uv != nil {
		switch v := *uv; {
		case v < 3:
			messages = append(messages, "UV radiation is low - minimal protection needed.")
		case v < 6:
			messages = append(messages, "Moderate UV - use sunscreen and wear sunglasses.")
		case v < 8:
			messages = append(messages, "High UV - use SPF30+, sunglasses and seek shade midday.")
		case v < 11:
			messages = append(messages, "Very high UV - reduce sun exposure and wear protective clothing.")
		default:
			messages = append(messages, "Extreme UV - avoid sun exposure, especially midday.")
		}
	}

	if len(messages) == 0 {
		return "No recommendation available."
	}

	return strings.Join(messages, " ")
}
