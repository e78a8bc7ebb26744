package log

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Config holds CLI flag values for log configuration.
//
// Create instances with [NewConfig], register flags with
// [Config.RegisterFlags], and build a handler at startup with
// [Config.NewHandler].
type Config struct {
	Level  string
	Format string
}

// NewConfig returns a [Config] with the default level and format.
func NewConfig() *Config {
	return &Config{Level: "info", Format: string(FormatLogfmt)}
}

// RegisterFlags adds logging flags to the given flag set.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, "log-level", c.Level,
		fmt.Sprintf("log level, one of: %v", AllLevels()))
	flags.StringVar(&c.Format, "log-format", c.Format,
		fmt.Sprintf("log format, one of: %v", AllFormats()))
}

// RegisterCompletions registers shell completions for the log flags.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(AllLevels(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering log-level completion: %w", err)
	}

	err = cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(AllFormats(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering log-format completion: %w", err)
	}

	return nil
}

// NewHandler creates a [slog.Handler] writing to w using the configured
// level and format.
func (c *Config) NewHandler(w io.Writer) (slog.Handler, error) {
	return NewHandlerFromStrings(w, c.Level, c.Format)
}
