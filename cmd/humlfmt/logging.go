package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	errUnknownLogLevel  = errors.New("unknown log level")
	errUnknownLogFormat = errors.New("unknown log format")
)

// logFlags names the CLI flags registered by [logConfig.registerFlags].
type logFlags struct {
	level  string
	format string
}

// logConfig holds logging CLI flag values, following the Config/Flags
// split used for every flag-bearing concern in this CLI.
type logConfig struct {
	Level  string
	Format string
	flags  logFlags
}

func newLogConfig() *logConfig {
	return &logConfig{
		flags: logFlags{level: "log-level", format: "log-format"},
	}
}

func (c *logConfig) registerFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, c.flags.level, "info", "log level, one of: error, warn, info, debug")
	flags.StringVar(&c.Format, c.flags.format, "text", "log format, one of: json, text")
}

func (c *logConfig) registerCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.flags.level,
		cobra.FixedCompletions([]string{"error", "warn", "info", "debug"}, cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.flags.level, err)
	}
	err = cmd.RegisterFlagCompletionFunc(c.flags.format,
		cobra.FixedCompletions([]string{"json", "text"}, cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.flags.format, err)
	}
	return nil
}

// newHandler builds a [slog.Handler] from the configured level and format.
func (c *logConfig) newHandler(w io.Writer) (slog.Handler, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(c.Format) {
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	case "text":
		return slog.NewTextHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownLogFormat, c.Format)
	}
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "error":
		return slog.LevelError, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	default:
		return 0, fmt.Errorf("%w: %q", errUnknownLogLevel, level)
	}
}
