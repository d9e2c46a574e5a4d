package registry

import (
	"time"
)

// Helpers para extraer opciones específicas de backend del mapa cfg.Custom
// sin repetir comprobaciones de nil y type assertions en cada factory.

// GetStringConfig retorna custom[key] si es un string no vacío, o defaultValue.
func GetStringConfig(custom map[string]interface{}, key, defaultValue string) string {
	if val, ok := custom[key].(string); ok && val != "" {
		return val
	}
	return defaultValue
}

// GetBoolConfig retorna custom[key] si es un bool, o defaultValue.
func GetBoolConfig(custom map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := custom[key].(bool); ok {
		return val
	}
	return defaultValue
}

// GetDurationConfig acepta time.Duration, nanosegundos (int64/float64) o un string
// parseable por time.ParseDuration ("5s", "250ms").
func GetDurationConfig(custom map[string]interface{}, key string, defaultValue time.Duration) time.Duration {
	switch v := custom[key].(type) {
	case time.Duration:
		return v
	case int64:
		return time.Duration(v)
	case float64:
		return time.Duration(v)
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}
