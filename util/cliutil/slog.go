package cliutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type LogOptions struct {
	// path to write to; "-" for stdout, empty for stderr
	LogPath string

	// text|json
	LogFormat string

	// info|debug|warn|error
	LogLevel string

	// AddSource includes file:line in every record
	AddSource bool
}

func firstenv(env_var_names ...string) string {
	for _, env_var_name := range env_var_names {
		val := os.Getenv(env_var_name)
		if val != "" {
			return val
		}
	}
	return ""
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level: %#v", s)
}

// SetupSlog integrates passed in options and env vars, and installs the result as the slog default.
//
// passing default cliutil.LogOptions{} is ok.
//
// HIPPO_LOG_LEVEL=info|debug|warn|error
//
// HIPPO_LOG_FMT=text|json
//
// HIPPO_LOG_FILE=path (or "-" for stdout); defaults to stderr, so that command output on stdout stays clean
func SetupSlog(options LogOptions) (*slog.Logger, error) {
	if options.LogLevel == "" {
		options.LogLevel = firstenv("HIPPO_LOG_LEVEL")
	}
	level, err := parseLevel(options.LogLevel)
	if err != nil {
		return nil, err
	}
	hopts := slog.HandlerOptions{
		Level:     level,
		AddSource: options.AddSource,
	}

	if options.LogFormat == "" {
		options.LogFormat = firstenv("HIPPO_LOG_FMT")
	}
	format := strings.ToLower(options.LogFormat)
	if format == "" {
		format = "text"
	}

	if options.LogPath == "" {
		options.LogPath = firstenv("HIPPO_LOG_FILE")
	}
	var out io.Writer
	switch options.LogPath {
	case "":
		out = os.Stderr
	case "-":
		out = os.Stdout
	default:
		f, err := os.OpenFile(options.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", options.LogPath, err)
		}
		out = f
	}

	var handler slog.Handler
	switch format {
	case "text":
		handler = slog.NewTextHandler(out, &hopts)
	case "json":
		handler = slog.NewJSONHandler(out, &hopts)
	default:
		return nil, fmt.Errorf("invalid log format: %#v", options.LogFormat)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}
