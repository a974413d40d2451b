package config

import (
	"os"
	"strconv"
	"strings"
)

// EnvString reads a non-empty string from the environment.
func EnvString(name string) (string, bool) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// EnvInt reads an integer from the environment. The second return value
// reports whether the variable was set at all.
func EnvInt(name string) (int, bool, error) {
	raw, ok := EnvString(name)
	if !ok {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, true, err
	}
	return value, true, nil
}

// EnvFloat reads a float from the environment.
func EnvFloat(name string) (float64, bool, error) {
	raw, ok := EnvString(name)
	if !ok {
		return 0, false, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, true, err
	}
	return value, true, nil
}
