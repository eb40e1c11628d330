package weather

// ConditionFromCode maps a WMO weather interpretation code to a label.
// Codes outside the documented ranges map to ConditionUnknown.
func ConditionFromCode(code int) Condition {
	switch {
	case code == 0:
		return ConditionClearSky
	case code == 1:
		return ConditionMainlyClear
	case code == 2:
		return ConditionPartlyCloudy
	case code == 3:
		return ConditionOvercast
	case code >= 45 && code <= 48:
		return ConditionFog
	case code >= 51 && code <= 55:
		return ConditionDrizzle
	case code >= 56 && code <= 57:
		return ConditionFreezingDrizzle
	case code >= 61 && code <= 65:
		return ConditionRain
	case code >= 66 && code <= 67:
		return ConditionFreezingRain
	case code >= 71 && code <= 77:
		return ConditionSnow
	case code >= 80 && code <= 82:
		return ConditionRainShowers
	case code >= 85 && code <= 86:
		return ConditionSnowShowers
	case code == 95:
		return ConditionThunderstorm
	case code >= 96 && code <= 99:
		return ConditionThunderstormWithHail
	default:
		return ConditionUnknown
	}
}
