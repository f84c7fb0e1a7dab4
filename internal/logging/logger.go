// Package logging configures the structured logger shared by every
// component.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	// LevelEnv names the environment variable consulted for the log level.
	LevelEnv = "SKBUILD_LOG_LEVEL"
	// JSONEnv switches output to JSON when set to "1".
	JSONEnv = "SKBUILD_JSON_LOG"

	defaultLevel = "info"
)

// NewLogger creates a new hclog logger with standard settings
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	jsonFormat := os.Getenv(JSONEnv) == "1"

	opts := &hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z", // UTC ISO format
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	}
	if !jsonFormat {
		opts.Color = hclog.AutoColor
	}

	return hclog.New(opts)
}

// Level resolves the log level: an explicit value wins, then LevelEnv, then
// info.
func Level(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if level := os.Getenv(LevelEnv); level != "" {
		return level
	}
	return defaultLevel
}

// ValidLevel reports whether s names an hclog level.
func ValidLevel(s string) bool {
	return hclog.LevelFromString(s) != hclog.NoLevel
}
