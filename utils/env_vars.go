package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

type EnvValue interface {
	string | int | bool | float64
}

// GetEnv reads an environment variable, falling back to defaultValue when it
// is unset or empty.
func GetEnv[T EnvValue](name string, defaultValue T) T {
	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		return defaultValue
	}
	value, err := parseEnv[T](name, raw)
	if err != nil {
		log.Fatal(err)
	}
	return value
}

func GetRequiredEnv[T EnvValue](name string) T {
	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		log.Fatalf("%s environment variable is required", name)
	}
	value, err := parseEnv[T](name, raw)
	if err != nil {
		log.Fatal(err)
	}
	return value
}

func parseEnv[T EnvValue](name, raw string) (T, error) {
	var value T
	switch ptr := any(&value).(type) {
	case *string:
		*ptr = raw
	case *int:
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return value, fmt.Errorf("environment variable %s: '%s' is not an integer", name, raw)
		}
		*ptr = parsed
	case *bool:
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return value, fmt.Errorf("environment variable %s: '%s' is not a boolean", name, raw)
		}
		*ptr = parsed
	case *float64:
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return value, fmt.Errorf("environment variable %s: '%s' is not a float", name, raw)
		}
		*ptr = parsed
	}
	return value, nil
}
