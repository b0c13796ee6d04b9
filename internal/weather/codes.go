package weather

// Condition is a display bucket for WMO weather interpretation codes.
type Condition struct {
	Key  string
	Icon string
}

var (
	condSunny        = Condition{Key: "weather.sunny", Icon: "☀️"}
	condPartlyCloudy = Condition{Key: "weather.partlyCloudy", Icon: "⛅"}
	condCloudy       = Condition{Key: "weather.cloudy", Icon: "☁️"}
	condFog          = Condition{Key: "weather.fog", Icon: "🌫️"}
	condRainy        = Condition{Key: "weather.rainy", Icon: "🌧️"}
	condSnow         = Condition{Key: "weather.snow", Icon: "❄️"}
	condThunderstorm = Condition{Key: "weather.thunderstorm", Icon: "⛈️"}
)

// ConditionFor maps a WMO code (0-99) to a condition. Unknown codes read
// as cloudy.
func ConditionFor(code int) Condition {
	switch {
	case code == 0:
		return condSunny
	case code == 1 || code == 2:
		return condPartlyCloudy
	case code == 3:
		return condCloudy
	case code == 45 || code == 48:
		return condFog
	case code >= 51 && code <= 67, code >= 80 && code <= 82:
		return condRainy
	case code >= 71 && code <= 77, code == 85 || code == 86:
		return condSnow
	case code >= 95 && code <= 99:
		return condThunderstorm
	default:
		return condCloudy
	}
}

// ConditionKeys lists every condition translation key.
func ConditionKeys() []string {
	return []string{
		condSunny.Key, condPartlyCloudy.Key, condCloudy.Key, condFog.Key,
		condRainy.Key, condSnow.Key, condThunderstorm.Key,
	}
}
