// pkg/config/env_config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvironmentOverrides applies VOID_* environment variables on top of
// a loaded configuration and re-validates the result.
func ApplyEnvironmentOverrides(config *EngineConfig) error {
	config.Window.Width = getEnvAsIntOrDefault("VOID_WINDOW_WIDTH", config.Window.Width)
	config.Window.Height = getEnvAsIntOrDefault("VOID_WINDOW_HEIGHT", config.Window.Height)
	config.Window.Scale = getEnvAsIntOrDefault("VOID_SCALE", config.Window.Scale)
	config.Simulation.TickMillis = getEnvAsIntOrDefault("VOID_TICK_MS", config.Simulation.TickMillis)
	config.Simulation.TickMillis = toMillis(getEnvAsDurationOrDefault("VOID_TICK", config.TickDuration()))
	config.Simulation.ControllerSpeed = getEnvAsFloatOrDefault("VOID_CONTROLLER_SPEED", config.Simulation.ControllerSpeed)
	config.Render.Transparency = strings.ToLower(getEnvOrDefault("VOID_TRANSPARENCY", config.Render.Transparency))
	config.Render.ColorKey = getEnvOrDefault("VOID_COLOR_KEY", config.Render.ColorKey)
	config.Audio.Enabled = getEnvAsBoolOrDefault("VOID_AUDIO", config.Audio.Enabled)
	config.Runtime.MaxGoroutines = getEnvAsIntOrDefault("VOID_MAX_GOROUTINES", config.Runtime.MaxGoroutines)
	config.Runtime.ShutdownTimeoutMillis = toMillis(getEnvAsDurationOrDefault("VOID_SHUTDOWN_TIMEOUT", config.Runtime.ShutdownTimeout()))

	if err := config.Validate(); err != nil {
		return fmt.Errorf("environment overrides: %w", err)
	}
	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns environment variable as int or default if not set/invalid
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBoolOrDefault returns environment variable as bool or default if not set/invalid
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsFloatOrDefault returns environment variable as float64 or default if not set/invalid
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsDurationOrDefault returns environment variable as time.Duration or default if not set/invalid
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// toMillis truncates d to whole milliseconds. A positive duration under one
// millisecond becomes 1 so that it never reads as zero.
func toMillis(d time.Duration) int {
	if d > 0 && d < time.Millisecond {
		return 1
	}
	return int(d / time.Millisecond)
}
